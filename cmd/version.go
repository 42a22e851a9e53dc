package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/torinwade/salib/pkg/ui"
	"github.com/torinwade/salib/pkg/vault"
)

// Version information - these can be set during build with ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display version information",
	Aliases: []string{"v"},
	Long:    `Display the current version of salib along with build and vault information. (alias: v)`,
	Run:     runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Println(ui.StyleTitle.Render("salib") + " - Simple Asset Library")
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Version", Version))
	fmt.Println(ui.RenderKeyValue("Commit", GitCommit))
	fmt.Println(ui.RenderKeyValue("Build Date", BuildDate))
	fmt.Println(ui.RenderKeyValue("Platform", runtime.GOOS+"/"+runtime.GOARCH))
	fmt.Println(ui.RenderKeyValue("Vault", vaultStatus()))
}

// vaultStatus reports where the vault lives and whether it has been
// initialized yet. The version command runs without app initialization,
// so the vault is resolved here directly.
func vaultStatus() string {
	v, err := vault.New()
	if err != nil {
		return "unavailable (" + err.Error() + ")"
	}
	if !v.Exists() {
		return v.RootPath + " (not initialized, run 'salib init')"
	}
	return v.RootPath
}
