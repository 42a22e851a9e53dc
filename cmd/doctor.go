package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torinwade/salib/pkg/ui"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check library health",
	Long: `Check the library for inconsistencies.

Looks for:
  - Records whose stored asset file is missing
  - Stored files that have no record (strays)
  - Thumbnail blobs for assets that no longer exist

Use --fix to remove stale thumbnail blobs.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Remove stale thumbnail blobs")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	problems := 0

	fmt.Println(ui.FormatInfo("Checking library health..."))
	fmt.Println()

	assets, err := fileStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read the manifest: %w", err)
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Manifest readable (%d records)", len(assets))))

	// Records without files
	registered := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		registered[asset.Name] = struct{}{}
		if _, ok := fileStore.Exists(ctx, asset.Ref()); !ok {
			problems++
			fmt.Println(ui.FormatWarning("Missing file for record: " + asset.Name))
		}
	}

	// Files without records
	entries, err := os.ReadDir(appVault.AssetsPath)
	if err != nil {
		return fmt.Errorf("failed to read assets directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, ok := registered[entry.Name()]; !ok {
			problems++
			fmt.Println(ui.FormatWarning("Stray file without a record: " + entry.Name()))
		}
	}

	// Stale thumbnail blobs
	stale := 0
	blobs, err := os.ReadDir(appVault.ThumbnailsPath)
	if err == nil {
		for _, blob := range blobs {
			if blob.IsDir() {
				continue
			}
			owner := strings.TrimSuffix(blob.Name(), ".thumb")
			if _, ok := registered[owner]; ok {
				continue
			}
			stale++
			path := appVault.GetThumbnailPath(blob.Name())
			if doctorFix {
				if err := os.Remove(path); err != nil {
					fmt.Println(ui.FormatError("Could not remove " + blob.Name() + ": " + err.Error()))
				} else {
					fmt.Println(ui.FormatSuccess("Removed stale thumbnail: " + blob.Name()))
				}
			} else {
				fmt.Println(ui.FormatWarning("Stale thumbnail blob: " + blob.Name()))
			}
		}
	}
	if !doctorFix {
		problems += stale
	}

	fmt.Println()
	if problems == 0 {
		fmt.Println(ui.FormatSuccess("Library is healthy"))
	} else {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d issue(s) found", problems)))
		if stale > 0 && !doctorFix {
			fmt.Println(ui.FormatMuted("Run 'salib doctor --fix' to remove stale thumbnails"))
		}
	}
	return nil
}
