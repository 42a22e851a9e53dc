package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/torinwade/salib/internal/core/services"
	"github.com/torinwade/salib/pkg/ui"
)

var (
	registerType     string
	registerCategory string
	registerName     string
	registerCopy     bool
)

var registerCmd = &cobra.Command{
	Use:     "register <file>",
	Short:   "Register an image file with the library",
	Aliases: []string{"add"},
	Long: `Copy an image file into the managed library and record its metadata.

The file is stored under a slug derived from the display name, and
identical content (matched by hash) is never stored twice. Use --copy
to put the stored asset name on the clipboard for pasting elsewhere.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerType, "type", "t", "", "Asset type (required, e.g. char, envir, FX, prop)")
	registerCmd.Flags().StringVarP(&registerCategory, "category", "c", "", "Category within the type")
	registerCmd.Flags().StringVarP(&registerName, "name", "n", "", "Display name (defaults to the file name)")
	registerCmd.Flags().BoolVar(&registerCopy, "copy", false, "Copy the stored asset name to the clipboard")
	registerCmd.MarkFlagRequired("type")
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	source := args[0]

	if !isKnownType(registerType) {
		fmt.Println(ui.FormatWarning("Unknown asset type: " + registerType))
		fmt.Println(ui.FormatMuted("Configured types: " + strings.Join(appConfig.AssetTypes, ", ")))
	}

	displayName := registerName
	if displayName == "" {
		base := filepath.Base(source)
		displayName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	asset, err := libraryService.Register(ctx, services.RegisterRequest{
		SourcePath:  source,
		Type:        registerType,
		Category:    registerCategory,
		DisplayName: displayName,
	})
	if err != nil {
		return fmt.Errorf("failed to register asset: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Registered: " + asset.EffectiveDisplayName()))
	fmt.Println(ui.RenderKeyValue("Stored as", asset.Name))
	fmt.Println(ui.RenderKeyValue("Type", asset.Type))
	fmt.Println(ui.RenderKeyValue("Category", asset.Category))

	if registerCopy {
		if err := clipboard.WriteAll(asset.Name); err != nil {
			fmt.Println(ui.FormatWarning("Could not write to clipboard: " + err.Error()))
		} else {
			fmt.Println(ui.FormatInfo("Asset name copied to clipboard"))
		}
	}

	return nil
}

func isKnownType(assetType string) bool {
	for _, t := range appConfig.AssetTypes {
		if strings.EqualFold(t, assetType) {
			return true
		}
	}
	return false
}
