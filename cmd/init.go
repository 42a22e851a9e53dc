package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/torinwade/salib/pkg/config"
	"github.com/torinwade/salib/pkg/ui"
	"github.com/torinwade/salib/pkg/vault"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the asset library",
	Long: `Initialize the salib library directory structure.

This creates the managed library at ~/.local/share/salib/ with the
following structure:
  - assets/             : Registered asset files
  - assets/.thumbnails/ : Cached thumbnail blobs
  - cache/              : Preferences and scratch data
  - config.yaml         : Global configuration`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	v, err := vault.New()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to determine library location"))
		return err
	}

	if v.Exists() {
		fmt.Println(ui.FormatWarning("Library already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + v.RootPath))
		return nil
	}

	fmt.Println(ui.FormatInfo("Initializing salib library..."))
	fmt.Println()

	if err := v.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize library"))
		return err
	}

	if err := createDefaultConfig(v); err != nil {
		fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
		// Don't fail - config is optional
	}

	if err := createGitignore(v); err != nil {
		fmt.Println(ui.FormatWarning("Failed to create .gitignore: " + err.Error()))
	}

	fmt.Println(ui.FormatSuccess("Library initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", v.RootPath))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Directory structure:"))
	fmt.Println(ui.FormatMuted("  assets/             - Registered asset files"))
	fmt.Println(ui.FormatMuted("  assets/.thumbnails/ - Cached thumbnail blobs"))
	fmt.Println(ui.FormatMuted("  cache/              - Preferences and scratch data"))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Register an asset: salib register image.png --type prop --name \"Wooden Crate\""))
	fmt.Println(ui.FormatMuted("  2. List assets: salib list"))
	fmt.Println(ui.FormatMuted("  3. Preview a thumbnail: salib preview"))

	return nil
}

func createDefaultConfig(v *vault.Vault) error {
	configDir := filepath.Dir(v.ConfigPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return config.DefaultConfig().Save(v.ConfigPath)
}

func createGitignore(v *vault.Vault) error {
	// Ignore cache, thumbnail blobs, and OS files
	content := `# salib library
cache/
assets/.thumbnails/

# OS generated files
.DS_Store
.DS_Store?
._*
Thumbs.db
`
	path := filepath.Join(v.RootPath, ".gitignore")
	return os.WriteFile(path, []byte(content), 0644)
}
