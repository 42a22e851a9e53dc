package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Metadata tag names registered with the asset registry. Every managed
// asset carries these in its record so external tools can query them.
const (
	TagManagedAsset  = "ALIB_managed_asset"
	TagAssetType     = "ALIB_asset_type"
	TagAssetCategory = "ALIB_asset_category"
	TagDisplayName   = "ALIB_display_name"
	TagAddedBy       = "ALIB_added_by"
)

// AllTagNames lists every metadata tag name the library manages.
var AllTagNames = []string{
	TagManagedAsset,
	TagAssetType,
	TagAssetCategory,
	TagDisplayName,
	TagAddedBy,
}

// FilterAll is the wildcard value accepted by type and category filters.
const FilterAll = "all"

// AssetRef is an opaque reference to a persisted asset. It is resolvable
// through AssetStorage to a storage location and a loadable record; the
// thumbnail resolver never inspects it beyond Name.
type AssetRef struct {
	Name string // storage name, e.g. "wooden-crate.png"
}

// IsZero reports whether the reference carries no name at all.
func (r AssetRef) IsZero() bool {
	return strings.TrimSpace(r.Name) == ""
}

// FullName returns the registry-facing identifier for the reference,
// used as the lookup key for cached thumbnails.
func (r AssetRef) FullName() string {
	return "asset:" + r.Name
}

// Asset represents a registered library entry and its metadata record.
type Asset struct {
	Name         string    `yaml:"name"`          // storage name (e.g. wooden-crate.png)
	OriginalName string    `yaml:"original_name"` // name of the source file at registration
	Type         string    `yaml:"type"`          // library asset type (char, envir, FX, prop, ...)
	Category     string    `yaml:"category"`      // user-facing grouping within a type
	DisplayName  string    `yaml:"display_name"`  // human readable name shown in listings
	AddedBy      string    `yaml:"added_by"`      // login of whoever registered the asset
	Hash         string    `yaml:"hash"`          // SHA-256 of the stored content
	RegisteredAt time.Time `yaml:"registered_at"`
}

// Ref returns the reference used to resolve this asset through storage.
func (a *Asset) Ref() AssetRef {
	return AssetRef{Name: a.Name}
}

// Tags returns the asset's metadata as registry tag name/value pairs.
func (a *Asset) Tags() map[string]string {
	return map[string]string{
		TagManagedAsset:  "true",
		TagAssetType:     a.Type,
		TagAssetCategory: a.Category,
		TagDisplayName:   a.DisplayName,
		TagAddedBy:       a.AddedBy,
	}
}

// EffectiveDisplayName returns the display name, falling back to a
// readable version of the storage name when none was set.
func (a *Asset) EffectiveDisplayName() string {
	if strings.TrimSpace(a.DisplayName) != "" {
		return a.DisplayName
	}
	base := a.Name
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	base = strings.ReplaceAll(base, "-", " ")
	return strings.ReplaceAll(base, "_", " ")
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug creates a storage-friendly slug from a display name.
// Converts "Wooden Crate 02" -> "wooden-crate-02".
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ValidateDisplayName checks that a display name is usable.
func ValidateDisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("display name cannot be empty")
	}
	if len(name) > 200 {
		return fmt.Errorf("display name too long (max 200 characters)")
	}
	return nil
}

var tagNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateTagName checks that a metadata tag name is registrable.
func ValidateTagName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	if !tagNamePattern.MatchString(name) {
		return fmt.Errorf("tag name contains invalid characters: %s", name)
	}
	return nil
}
