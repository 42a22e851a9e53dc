package ports

import (
	"context"
	"errors"

	"github.com/torinwade/salib/internal/core/domain"
)

// ErrThumbNotFound is returned by ThumbnailCache when no cached
// thumbnail exists for the requested asset.
var ErrThumbNotFound = errors.New("cached thumbnail not found")

// AssetStorage defines the port for resolving asset references against
// the backing store.
type AssetStorage interface {
	// Exists checks whether the reference resolves to an existing
	// storage location. Returns the location when it does.
	Exists(ctx context.Context, ref domain.AssetRef) (location string, ok bool)

	// Load retrieves the full asset record for a reference.
	Load(ctx context.Context, ref domain.AssetRef) (*domain.Asset, error)
}

// ThumbnailCache defines the port for thumbnails bundled alongside an
// asset's storage location.
type ThumbnailCache interface {
	// ReadCached loads the previously saved thumbnail for fullName at
	// the given storage location. Returns ErrThumbNotFound on a miss.
	ReadCached(ctx context.Context, location, fullName string) (*domain.Thumbnail, error)

	// WriteCached stores a thumbnail for fullName, replacing any
	// previous one.
	WriteCached(ctx context.Context, location, fullName string, thumb *domain.Thumbnail) error

	// RemoveCached deletes the cached thumbnail for fullName if present.
	RemoveCached(ctx context.Context, location, fullName string) error
}

// ThumbnailGenerator defines the port for producing a fresh thumbnail
// from a live asset.
type ThumbnailGenerator interface {
	// Generate renders a new thumbnail from the asset's current
	// content. This captures the present state of the asset rather
	// than whatever was cached at registration time.
	Generate(ctx context.Context, asset *domain.Asset) (*domain.Thumbnail, error)
}

// ImageCodec defines the port for converting between compressed image
// bytes and uncompressed BGRA thumbnails.
type ImageCodec interface {
	// Decode parses compressed image data into a thumbnail.
	Decode(data []byte) (*domain.Thumbnail, error)

	// Encode compresses a thumbnail's raw pixels.
	Encode(thumb *domain.Thumbnail) ([]byte, error)
}

// TexturePool owns the transient textures bound to display targets.
// Textures stay alive until released by the pool, independent of the
// resolver call that allocated them.
type TexturePool interface {
	// Allocate creates a transient texture surface of the given size.
	Allocate(width, height int) (*domain.Texture, error)

	// Release returns a texture to the pool. Safe to call with nil.
	Release(tex *domain.Texture)
}

// DisplayTarget is a renderable surface exposing named texture
// parameter slots. Binding never fails; the previous texture in the
// slot is handed back to its pool.
type DisplayTarget interface {
	// BindTexture sets the texture for the named parameter slot.
	BindTexture(slot string, tex *domain.Texture)

	// BoundTexture returns the texture currently bound to the slot,
	// or nil when the slot is empty.
	BoundTexture(slot string) *domain.Texture
}

// AssetRepository defines the port for the library's metadata records.
type AssetRepository interface {
	// Save adds or updates an asset record
	Save(ctx context.Context, asset domain.Asset) error

	// Get retrieves asset metadata by storage name
	Get(ctx context.Context, name string) (*domain.Asset, error)

	// GetByHash retrieves an asset by its content hash
	GetByHash(ctx context.Context, hash string) (*domain.Asset, error)

	// List returns every registered asset record
	List(ctx context.Context) ([]domain.Asset, error)

	// Delete removes an asset record from the registry
	Delete(ctx context.Context, name string) error
}
