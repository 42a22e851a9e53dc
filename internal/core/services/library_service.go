package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/h2non/filetype"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/ports"
	"github.com/torinwade/salib/pkg/config"
	"github.com/torinwade/salib/pkg/vault"
)

// LibraryService manages the registered asset collection: ingestion,
// removal, metadata queries, and the type/category vocabulary.
type LibraryService struct {
	vault *vault.Vault
	repo  ports.AssetRepository
	cache ports.ThumbnailCache
	tags  *TagService
	cfg   *config.Config
}

// NewLibraryService creates a new library service.
func NewLibraryService(v *vault.Vault, repo ports.AssetRepository, cache ports.ThumbnailCache, tags *TagService, cfg *config.Config) *LibraryService {
	return &LibraryService{
		vault: v,
		repo:  repo,
		cache: cache,
		tags:  tags,
		cfg:   cfg,
	}
}

// RegisterRequest describes an asset to ingest into the library.
type RegisterRequest struct {
	SourcePath  string
	Type        string
	Category    string
	DisplayName string
}

// Register copies the source file into the vault and records its
// library metadata. Content identical to an already registered asset
// (matched by hash) reuses the stored file and refreshes its record.
func (s *LibraryService) Register(ctx context.Context, req RegisterRequest) (*domain.Asset, error) {
	if err := domain.ValidateDisplayName(req.DisplayName); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Type) == "" || strings.EqualFold(req.Type, domain.FilterAll) {
		return nil, fmt.Errorf("asset type is required")
	}
	if req.Category == "" {
		req.Category = "default"
	}

	srcFile, err := os.Open(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	// The library only manages displayable content; sniff the header
	// rather than trusting the extension.
	head := make([]byte, 261)
	n, _ := io.ReadFull(srcFile, head)
	if !filetype.IsImage(head[:n]) {
		return nil, fmt.Errorf("%s is not a supported image file", req.SourcePath)
	}

	if _, err := srcFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind source file: %w", err)
	}

	hasher := sha256.New()
	if _, err := io.Copy(hasher, srcFile); err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}
	srcHash := hex.EncodeToString(hasher.Sum(nil))

	// Identical content already in the library: refresh its record
	// instead of storing a duplicate file.
	if existing, err := s.repo.GetByHash(ctx, srcHash); err == nil {
		existing.Type = req.Type
		existing.Category = req.Category
		existing.DisplayName = req.DisplayName
		existing.RegisteredAt = time.Now()
		if err := s.repo.Save(ctx, *existing); err != nil {
			return nil, fmt.Errorf("failed to update asset record: %w", err)
		}
		s.tags.Register(domain.AllTagNames)
		return existing, nil
	}

	ext := strings.ToLower(filepath.Ext(req.SourcePath))
	baseName := domain.GenerateSlug(req.DisplayName)
	targetName := baseName + ext
	destPath := s.vault.GetAssetPath(targetName)

	// Name collisions with different content get a numeric suffix.
	counter := 1
	for {
		if info, err := os.Stat(destPath); err == nil && !info.IsDir() {
			targetName = fmt.Sprintf("%s-%d%s", baseName, counter, ext)
			destPath = s.vault.GetAssetPath(targetName)
			counter++
			continue
		}
		break
	}

	if _, err := srcFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind source file: %w", err)
	}
	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to store asset: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, srcFile); err != nil {
		return nil, fmt.Errorf("failed to copy asset: %w", err)
	}

	asset := domain.Asset{
		Name:         targetName,
		OriginalName: filepath.Base(req.SourcePath),
		Type:         req.Type,
		Category:     req.Category,
		DisplayName:  req.DisplayName,
		AddedBy:      currentLogin(),
		Hash:         srcHash,
		RegisteredAt: time.Now(),
	}
	if err := s.repo.Save(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to save asset record: %w", err)
	}

	s.tags.Register(domain.AllTagNames)
	return &asset, nil
}

// Unregister removes an asset's record, its stored file, and its cached
// thumbnail.
func (s *LibraryService) Unregister(ctx context.Context, name string) error {
	asset, err := s.repo.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("asset not registered: %s", name)
	}

	if err := s.repo.Delete(ctx, asset.Name); err != nil {
		return fmt.Errorf("failed to remove asset record: %w", err)
	}

	path := s.vault.GetAssetPath(asset.Name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stored asset: %w", err)
	}

	// Cached thumbnail removal is best effort; a stale blob is cleaned
	// up by doctor.
	_ = s.cache.RemoveCached(ctx, path, asset.Ref().FullName())

	return nil
}

// FindRequest filters the registered assets. Type and Category accept
// the "all" wildcard; NameFilter matches display or storage names.
type FindRequest struct {
	Type       string
	Category   string
	NameFilter string
}

// FindResponse carries matching assets in display order.
type FindResponse struct {
	Assets []domain.Asset
	Total  int
}

// Find returns the registered assets matching the request, sorted by
// display name then storage name.
func (s *LibraryService) Find(ctx context.Context, req FindRequest) (*FindResponse, error) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	var matches []domain.Asset
	for _, asset := range assets {
		if !matchFilter(asset.Type, req.Type) {
			continue
		}
		if !matchFilter(asset.Category, req.Category) {
			continue
		}
		if req.NameFilter != "" && !matchName(&asset, req.NameFilter) {
			continue
		}
		matches = append(matches, asset)
	}

	sort.Slice(matches, func(i, j int) bool {
		di := strings.ToLower(matches[i].EffectiveDisplayName())
		dj := strings.ToLower(matches[j].EffectiveDisplayName())
		if di != dj {
			return di < dj
		}
		return matches[i].Name < matches[j].Name
	})

	return &FindResponse{Assets: matches, Total: len(matches)}, nil
}

// Get returns the record for a single registered asset.
func (s *LibraryService) Get(ctx context.Context, name string) (*domain.Asset, error) {
	return s.repo.Get(ctx, name)
}

// Types returns the configured asset types, optionally with a leading
// "all" entry for filter dropdowns.
func (s *LibraryService) Types(includeAll bool) []string {
	var types []string
	if includeAll {
		types = append(types, domain.FilterAll)
	}
	return append(types, s.cfg.AssetTypes...)
}

// Categories returns the category vocabulary for an asset type: the
// configured defaults plus every category users have assigned to
// matching assets, deduplicated and sorted. The type "all" skips the
// configured defaults and aggregates across every type.
func (s *LibraryService) Categories(ctx context.Context, assetType string, includeAll bool) ([]string, error) {
	seen := make(map[string]struct{})
	if !strings.EqualFold(assetType, domain.FilterAll) {
		for _, c := range s.cfg.DefaultCategories {
			seen[c] = struct{}{}
		}
	}

	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	for _, asset := range assets {
		if !matchFilter(asset.Type, assetType) {
			continue
		}
		if asset.Category != "" {
			seen[asset.Category] = struct{}{}
		}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	if includeAll {
		categories = append([]string{domain.FilterAll}, categories...)
	}
	return categories, nil
}

// TypeColor returns a stable color for an asset type, used for visual
// context in listings. Hues are spread evenly across the configured
// type list; unknown types and "all" render neutral.
func (s *LibraryService) TypeColor(assetType string) colorful.Color {
	if strings.EqualFold(assetType, domain.FilterAll) {
		return colorful.Color{R: 1, G: 1, B: 1}
	}

	hue := 0.0
	for i, t := range s.cfg.AssetTypes {
		if strings.EqualFold(t, assetType) {
			hue = float64(i) / float64(len(s.cfg.AssetTypes)) * 359
			break
		}
	}
	return colorful.Hsv(hue, 0.8, 0.8)
}

// matchFilter applies the "all" wildcard semantics of type and
// category filters.
func matchFilter(value, filter string) bool {
	if filter == "" || strings.EqualFold(filter, domain.FilterAll) {
		return true
	}
	return strings.EqualFold(value, filter)
}

// matchName checks the name filter against the display name and the
// storage name.
func matchName(asset *domain.Asset, filter string) bool {
	filter = strings.ToLower(filter)
	if strings.Contains(strings.ToLower(asset.EffectiveDisplayName()), filter) {
		return true
	}
	return strings.Contains(strings.ToLower(asset.Name), filter)
}

// currentLogin returns the login of the user registering an asset.
func currentLogin() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}
