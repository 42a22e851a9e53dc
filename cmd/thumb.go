package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/torinwade/salib/pkg/ui"
)

var (
	thumbOut    string
	thumbCached bool
	thumbCopy   bool
)

var thumbCmd = &cobra.Command{
	Use:   "thumb [query]",
	Short: "Resolve an asset's thumbnail to a PNG file",
	Long: `Run the thumbnail resolution chain for an asset and write the
resulting image as PNG.

By default the resolver generates a fresh thumbnail from the asset's
current content, falling back to the cached thumbnail and finally to
the default placeholder. Use --cached to skip generation and use only
the cached thumbnail.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runThumb,
}

func init() {
	thumbCmd.Flags().StringVarP(&thumbOut, "out", "o", "", "Output path (defaults to <name>.thumb.png)")
	thumbCmd.Flags().BoolVar(&thumbCached, "cached", false, "Use only the cached thumbnail, skip generation")
	thumbCmd.Flags().BoolVar(&thumbCopy, "copy", false, "Copy the output path to the clipboard")
}

func runThumb(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	asset, err := selectAsset(query)
	if err != nil {
		return err
	}

	mat, result, err := resolveToMaterial(asset.Name, thumbCached)
	if err != nil {
		return err
	}
	defer mat.Destroy()

	if !result.Valid {
		fmt.Println(ui.FormatWarning("Resolution fell back to the default placeholder"))
	}

	thumb, err := boundThumbnail(mat)
	if err != nil {
		return err
	}

	data, err := pngCodec.Encode(thumb)
	if err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	out := thumbOut
	if out == "" {
		out = strings.TrimSuffix(asset.Name, filepath.Ext(asset.Name)) + ".thumb.png"
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write thumbnail: %w", err)
	}

	// Keep the sidecar cache fresh whenever we produced a real
	// thumbnail from the live asset.
	if result.Valid && !thumbCached {
		if location, ok := fileStore.Exists(ctx, asset.Ref()); ok {
			_ = thumbCache.WriteCached(ctx, location, asset.Ref().FullName(), thumb)
		}
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Wrote %dx%d thumbnail", result.Width, result.Height)))
	fmt.Println(ui.RenderKeyValue("Output", out))
	fmt.Println(ui.RenderKeyValue("Resolved", fmt.Sprintf("%dx%d valid=%t", result.Width, result.Height, result.Valid)))

	if thumbCopy {
		if err := clipboard.WriteAll(out); err != nil {
			fmt.Println(ui.FormatWarning("Could not write to clipboard: " + err.Error()))
		}
	}

	return nil
}
