package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/torinwade/salib/pkg/vault"
)

// Config holds the library settings. Values resolve through a three
// level cascade: the per-project file, then the global config in the
// user's config directory, then the built-in defaults.
type Config struct {
	// Library layout
	AssetTypes        []string `yaml:"asset_types"`
	DefaultCategories []string `yaml:"default_category_options"`

	// Thumbnails
	ThumbnailSize  int    `yaml:"thumbnail_size"` // bounding box edge in pixels
	DefaultTexture string `yaml:"default_texture"`
	TextureSlot    string `yaml:"texture_slot"`

	// Listing
	DefaultSort string `yaml:"default_sort"` // "name", "type", "date"
	ReverseSort bool   `yaml:"reverse_sort"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`
	TableWidth int    `yaml:"table_width"`

	// Daemon
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// Source identifies which cascade tier a config was loaded from.
type Source string

const (
	SourceProject Source = "project"
	SourceGlobal  Source = "global"
	SourceBuiltin Source = "builtin"
)

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		AssetTypes:        []string{"char", "envir", "FX", "prop"},
		DefaultCategories: []string{"default"},
		ThumbnailSize:     256,
		DefaultTexture:    "",
		TextureSlot:       "texture",
		DefaultSort:       "name",
		ReverseSort:       false,
		ColorTheme:        "auto",
		TableWidth:        0,
		WatchDebounceMS:   500,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	// Try to read the file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadCascade resolves the effective config: the project file in dir
// wins, then the global file, then the built-in defaults. The second
// return value reports which tier supplied the file that was read.
func LoadCascade(dir, globalPath string) (*Config, Source, error) {
	projectPath := vault.ProjectConfigPath(dir)
	if _, err := os.Stat(projectPath); err == nil {
		cfg, err := Load(projectPath)
		if err != nil {
			return nil, SourceProject, err
		}
		return cfg, SourceProject, nil
	}

	if _, err := os.Stat(globalPath); err == nil {
		cfg, err := Load(globalPath)
		if err != nil {
			return nil, SourceGlobal, err
		}
		return cfg, SourceGlobal, nil
	}

	return DefaultConfig(), SourceBuiltin, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults backfills essential values a partial file left unset.
func applyDefaults(cfg *Config) {
	if len(cfg.AssetTypes) == 0 {
		cfg.AssetTypes = []string{"default"}
	}
	if len(cfg.DefaultCategories) == 0 {
		cfg.DefaultCategories = []string{"default"}
	}
	if cfg.ThumbnailSize <= 0 {
		cfg.ThumbnailSize = 256
	}
	if cfg.TextureSlot == "" {
		cfg.TextureSlot = "texture"
	}
	if !isValidSort(cfg.DefaultSort) {
		cfg.DefaultSort = "name"
	}
	if cfg.ColorTheme == "" {
		cfg.ColorTheme = "auto"
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
}

// isValidSort checks if the sort field is supported
func isValidSort(sort string) bool {
	validSorts := []string{"name", "type", "date"}
	for _, valid := range validSorts {
		if sort == valid {
			return true
		}
	}
	return false
}
