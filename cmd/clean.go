package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torinwade/salib/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached scratch data",
	Long: `Remove everything in the library's cache directory.

This clears saved preferences and scratch files. Registered assets and
their thumbnail blobs are not touched; use 'doctor --fix' for stale
thumbnails.`,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	if err := appVault.CleanCache(); err != nil {
		return fmt.Errorf("failed to clean cache: %w", err)
	}
	fmt.Println(ui.FormatSuccess("Cache cleaned"))
	fmt.Println(ui.FormatMuted("Location: " + appVault.CachePath))
	return nil
}
