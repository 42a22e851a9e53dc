package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torinwade/salib/internal/adapters/codec"
	"github.com/torinwade/salib/internal/adapters/display"
	"github.com/torinwade/salib/internal/adapters/generator"
	"github.com/torinwade/salib/internal/adapters/storage"
	"github.com/torinwade/salib/internal/adapters/thumbcache"
	"github.com/torinwade/salib/internal/core/services"
	"github.com/torinwade/salib/pkg/config"
	"github.com/torinwade/salib/pkg/ui"
	"github.com/torinwade/salib/pkg/vault"
)

var (
	// Global vault instance
	appVault *vault.Vault

	// Effective configuration and where it came from
	appConfig    *config.Config
	configSource config.Source

	// Adapters
	fileStore  *storage.FileStorage
	thumbCache *thumbcache.PackageCache
	pngCodec   *codec.PNGCodec
	texPool    *display.Pool
	thumbGen   *generator.ImageGenerator

	// Services
	resolverService *services.ResolverService
	libraryService  *services.LibraryService
	tagService      *services.TagService
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "salib",
	Short: "salib - A simple shared asset library",
	Long: ui.StyleTitle.Render("salib") + " - Simple Asset Library\n\n" +
		"A CLI for managing a shared library of visual assets.\n" +
		"Register images once, then browse, preview, and resolve thumbnails anywhere.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(unregisterCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(thumbCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(cleanCmd)
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for commands that work without a vault
	if cmd.Name() == "init" || cmd.Name() == "version" {
		return nil
	}

	v, err := vault.New()
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}
	appVault = v

	if !appVault.Exists() {
		fmt.Println(ui.FormatError("Library not initialized"))
		fmt.Println(ui.FormatInfo("Run 'salib init' to initialize the library"))
		os.Exit(1)
	}

	cwd, _ := os.Getwd()
	cfg, source, err := config.LoadCascade(cwd, appVault.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	configSource = source
	ui.SetTheme(appConfig.ColorTheme)

	// Adapters
	fileStore = storage.NewFileStorage(appVault)
	pngCodec = codec.NewPNGCodec()
	thumbCache = thumbcache.NewPackageCache(pngCodec)
	texPool = display.NewPool()
	thumbGen = generator.NewImageGenerator(appVault, appConfig.ThumbnailSize)

	// Services
	tagService = services.NewTagService()
	resolverService = services.NewResolverService(fileStore, thumbCache, thumbGen, pngCodec, texPool)
	resolverService.SetSlot(appConfig.TextureSlot)
	libraryService = services.NewLibraryService(appVault, fileStore, thumbCache, tagService, appConfig)

	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
