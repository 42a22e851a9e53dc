package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

// Vault represents the managed storage directory for salib
type Vault struct {
	RootPath       string
	AssetsPath     string
	ThumbnailsPath string
	CachePath      string
	ConfigPath     string
}

// New creates a new Vault instance with XDG-compliant paths
func New() (*Vault, error) {
	rootPath, rootErr := getVaultRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine vault root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	vault := &Vault{
		RootPath:       rootPath,
		AssetsPath:     filepath.Join(rootPath, "assets"),
		ThumbnailsPath: filepath.Join(rootPath, "assets", ".thumbnails"),
		CachePath:      filepath.Join(rootPath, "cache"),
		ConfigPath:     configPath,
	}

	return vault, nil
}

// getVaultRoot returns the vault root directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getVaultRoot() (string, error) {
	// Check XDG_DATA_HOME first (Unix-like systems)
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "salib"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "salib"), nil
	}

	// Fall back to ~/.local/share/salib (Unix-like systems)
	return filepath.Join(homeDir, ".local", "share", "salib"), nil
}

func getConfigPath() (string, error) {
	// Check XDG_CONFIG_HOME first (Unix-like systems)
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "salib", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "salib-config", "config.yaml"), nil
	}

	// Fall back to ~/.config/salib/config.yaml (Unix-like systems)
	return filepath.Join(homeDir, ".config", "salib", "config.yaml"), nil
}

// Initialize creates the vault directory structure if it doesn't exist
func (v *Vault) Initialize() error {
	directories := []string{
		v.RootPath,
		v.AssetsPath,
		v.ThumbnailsPath,
		v.CachePath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the vault has been initialized
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// GetAssetPath returns the full path for a stored asset file
func (v *Vault) GetAssetPath(filename string) string {
	return filepath.Join(v.AssetsPath, filename)
}

// GetThumbnailPath returns the full path for a cached thumbnail blob
func (v *Vault) GetThumbnailPath(filename string) string {
	return filepath.Join(v.ThumbnailsPath, filename)
}

// GetCachePath returns the full path for a cached file
func (v *Vault) GetCachePath(filename string) string {
	return filepath.Join(v.CachePath, filename)
}

// ManifestPath returns the path to the asset manifest file
func (v *Vault) ManifestPath() string {
	return filepath.Join(v.AssetsPath, ".manifest.yaml")
}

// PrefsPath returns the path to the saved UI preferences file
func (v *Vault) PrefsPath() string {
	return v.GetCachePath("prefs.yaml")
}

// ProjectConfigPath returns the per-project config file path for the
// given directory, normally the current working directory.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ".salib.yaml")
}

// CleanCache removes all files in the cache directory
func (v *Vault) CleanCache() error {
	entries, err := os.ReadDir(v.CachePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(v.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
