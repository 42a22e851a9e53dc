package storage

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/pkg/vault"
)

// FileStorage is the vault-backed asset store. It implements both the
// AssetStorage port (existence checks and record loading against the
// stored files) and the AssetRepository port (the YAML manifest of
// registered metadata records).
type FileStorage struct {
	vault        *vault.Vault
	manifestPath string
	mu           sync.RWMutex
	records      map[string]domain.Asset
	loaded       bool
}

// NewFileStorage creates a storage backend over the given vault.
func NewFileStorage(v *vault.Vault) *FileStorage {
	return &FileStorage{
		vault:        v,
		manifestPath: v.ManifestPath(),
		records:      make(map[string]domain.Asset),
	}
}

// Exists checks whether the reference resolves to a stored asset file
// on disk, returning the file's path as the storage location.
func (s *FileStorage) Exists(ctx context.Context, ref domain.AssetRef) (string, bool) {
	if ref.IsZero() {
		return "", false
	}
	path := s.vault.GetAssetPath(ref.Name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Load retrieves the metadata record for a reference. The record must
// be present in the manifest; a file on disk without a record is not a
// registered asset.
func (s *FileStorage) Load(ctx context.Context, ref domain.AssetRef) (*domain.Asset, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("empty asset reference")
	}
	return s.Get(ctx, ref.Name)
}

// load reads the manifest from disk once.
func (s *FileStorage) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		// Leave loaded unset so a transient failure is retried
		// instead of serving an empty manifest forever.
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.records); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	s.loaded = true
	return nil
}

// flush writes the manifest to disk. Caller holds the lock.
func (s *FileStorage) flush() error {
	data, err := yaml.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(s.manifestPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Save adds or updates an asset record and persists the manifest.
func (s *FileStorage) Save(ctx context.Context, asset domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	s.records[asset.Name] = asset
	return s.flush()
}

// Get retrieves an asset record by storage name.
func (s *FileStorage) Get(ctx context.Context, name string) (*domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	asset, ok := s.records[name]
	if !ok {
		return nil, fmt.Errorf("asset not found: %s", name)
	}
	return &asset, nil
}

// GetByHash retrieves an asset record by its content hash.
func (s *FileStorage) GetByHash(ctx context.Context, hash string) (*domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	for _, asset := range s.records {
		if asset.Hash == hash {
			return &asset, nil
		}
	}
	return nil, fmt.Errorf("asset not found")
}

// List returns every registered asset record.
func (s *FileStorage) List(ctx context.Context) ([]domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	assets := make([]domain.Asset, 0, len(s.records))
	for _, asset := range s.records {
		assets = append(assets, asset)
	}
	return assets, nil
}

// Delete removes an asset record and persists the manifest.
func (s *FileStorage) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.records[name]; !ok {
		return fmt.Errorf("asset not found: %s", name)
	}
	delete(s.records, name)
	return s.flush()
}
