package thumbcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/ports"
)

// thumbDirName is the directory bundled alongside stored assets that
// holds their cached thumbnail blobs.
const thumbDirName = ".thumbnails"

// blobExt is the extension of cached thumbnail blobs. Blob content is
// whatever the configured codec produces, PNG by default.
const blobExt = ".thumb"

// PackageCache reads and writes thumbnail blobs stored next to an
// asset's storage location. The blob directory is derived from the
// location, so the cache needs no knowledge of the vault layout.
type PackageCache struct {
	codec ports.ImageCodec
}

// NewPackageCache creates a cache that decodes blobs with the given codec.
func NewPackageCache(codec ports.ImageCodec) *PackageCache {
	return &PackageCache{codec: codec}
}

// ReadCached loads the thumbnail saved for fullName alongside the
// storage location. Returns ports.ErrThumbNotFound when no blob exists.
func (c *PackageCache) ReadCached(ctx context.Context, location, fullName string) (*domain.Thumbnail, error) {
	path, err := blobPath(location, fullName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrThumbNotFound
		}
		return nil, fmt.Errorf("failed to read cached thumbnail: %w", err)
	}

	thumb, err := c.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cached thumbnail: %w", err)
	}
	return thumb, nil
}

// WriteCached stores a thumbnail blob for fullName, replacing any
// previous one.
func (c *PackageCache) WriteCached(ctx context.Context, location, fullName string, thumb *domain.Thumbnail) error {
	if !thumb.Valid() {
		return fmt.Errorf("refusing to cache invalid thumbnail for %s", fullName)
	}

	path, err := blobPath(location, fullName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	data, err := c.codec.Encode(thumb)
	if err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cached thumbnail: %w", err)
	}
	return nil
}

// RemoveCached deletes the cached thumbnail for fullName if present.
func (c *PackageCache) RemoveCached(ctx context.Context, location, fullName string) error {
	path, err := blobPath(location, fullName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cached thumbnail: %w", err)
	}
	return nil
}

// blobPath maps a storage location and asset full name to the sidecar
// blob file.
func blobPath(location, fullName string) (string, error) {
	name := strings.TrimPrefix(fullName, "asset:")
	if name == "" {
		return "", fmt.Errorf("empty asset name in %q", fullName)
	}
	return filepath.Join(filepath.Dir(location), thumbDirName, name+blobExt), nil
}
