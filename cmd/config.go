package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torinwade/salib/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration and which tier it came from.

Configuration cascades: a project .salib.yaml in the working directory
overrides the global config, which overrides the built-in defaults.

Use 'salib config edit' to open the global config in your editor.`,
	RunE: runConfig,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the global configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appVault.ConfigPath
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config file not found at %s", path)
		}
		fmt.Println(ui.FormatInfo("Opening config: " + path))
		return openEditor(path)
	},
}

func init() {
	configCmd.AddCommand(configEditCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle("Effective configuration"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Source", string(configSource)))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("asset_types", strings.Join(appConfig.AssetTypes, ", ")))
	fmt.Println(ui.RenderKeyValue("default_categories", strings.Join(appConfig.DefaultCategories, ", ")))
	fmt.Println(ui.RenderKeyValue("thumbnail_size", strconv.Itoa(appConfig.ThumbnailSize)))
	fmt.Println(ui.RenderKeyValue("texture_slot", appConfig.TextureSlot))
	fmt.Println(ui.RenderKeyValue("default_texture", orNone(appConfig.DefaultTexture)))
	fmt.Println(ui.RenderKeyValue("default_sort", appConfig.DefaultSort))
	fmt.Println(ui.RenderKeyValue("reverse_sort", strconv.FormatBool(appConfig.ReverseSort)))
	fmt.Println(ui.RenderKeyValue("color_theme", appConfig.ColorTheme))
	fmt.Println(ui.RenderKeyValue("table_width", strconv.Itoa(appConfig.TableWidth)))
	fmt.Println(ui.RenderKeyValue("watch_debounce_ms", strconv.Itoa(appConfig.WatchDebounceMS)))
	return nil
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}
