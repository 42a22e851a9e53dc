package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torinwade/salib/pkg/ui"
)

var unregisterForce bool

var unregisterCmd = &cobra.Command{
	Use:     "unregister [query]",
	Short:   "Remove an asset from the library",
	Aliases: []string{"rm"},
	Long: `Remove an asset's record, its stored file, and its cached thumbnail.

With no query, opens an interactive fuzzy finder over the registered
assets. Use --force to skip the confirmation prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUnregister,
}

func init() {
	unregisterCmd.Flags().BoolVarP(&unregisterForce, "force", "f", false, "Skip confirmation")
}

func runUnregister(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	asset, err := selectAsset(query)
	if err != nil {
		return err
	}

	if !unregisterForce {
		fmt.Printf("%s %s (%s)? [y/N]: ",
			ui.FormatWarning("Remove"),
			ui.StyleBold.Render(asset.EffectiveDisplayName()),
			asset.Name)

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil || strings.ToLower(strings.TrimSpace(response)) != "y" {
			fmt.Println(ui.FormatMuted("Cancelled"))
			return nil
		}
	}

	if err := libraryService.Unregister(ctx, asset.Name); err != nil {
		return fmt.Errorf("failed to unregister asset: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Removed: " + asset.EffectiveDisplayName()))
	return nil
}
