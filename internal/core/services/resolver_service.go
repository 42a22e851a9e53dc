package services

import (
	"context"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/ports"
)

// DefaultTextureSlot is the material parameter slot thumbnails are
// bound to unless the resolver is configured otherwise.
const DefaultTextureSlot = "texture"

// ResolverService resolves an asset reference to a displayable texture
// through a prioritized fallback chain:
//
//  1. generate a fresh thumbnail from the live asset (captures the
//     asset's current state, including animated materials)
//  2. fall back to the thumbnail cached alongside the asset's storage
//  3. fall back to the caller-supplied default texture
//
// Every call binds some texture to the target; failure is reported only
// through the result's Valid flag. Calls are synchronous and never
// cache across invocations.
type ResolverService struct {
	storage ports.AssetStorage
	cache   ports.ThumbnailCache
	gen     ports.ThumbnailGenerator
	codec   ports.ImageCodec
	pool    ports.TexturePool
	slot    string
}

// NewResolverService creates a resolver backed by the given collaborators.
func NewResolverService(
	storage ports.AssetStorage,
	cache ports.ThumbnailCache,
	gen ports.ThumbnailGenerator,
	codec ports.ImageCodec,
	pool ports.TexturePool,
) *ResolverService {
	return &ResolverService{
		storage: storage,
		cache:   cache,
		gen:     gen,
		codec:   codec,
		pool:    pool,
		slot:    DefaultTextureSlot,
	}
}

// SetSlot overrides the material parameter slot textures are bound to.
func (s *ResolverService) SetSlot(slot string) {
	if slot != "" {
		s.slot = slot
	}
}

// Resolve runs the full fallback chain for ref and binds the outcome to
// target. The returned result carries the bound dimensions and whether
// an asset thumbnail (rather than the default) ended up bound.
func (s *ResolverService) Resolve(ctx context.Context, ref domain.AssetRef, defaultTex *domain.Texture, target ports.DisplayTarget) domain.ResolutionResult {
	valid := false
	var location string
	if !ref.IsZero() {
		location, valid = s.storage.Exists(ctx, ref)
	}

	// Attempt live generation only for assets that exist in storage.
	generationTried := false
	if valid {
		generationTried = true

		var thumb *domain.Thumbnail
		if asset, err := s.storage.Load(ctx, ref); err == nil {
			thumb, _ = s.gen.Generate(ctx, asset)
		}

		width, height := 0, 0
		if thumb != nil {
			width, height = thumb.Width, thumb.Height
		}
		if width < 1 || height < 1 {
			// Unusable generation clamps to 1x1 and falls through,
			// even if a surface of that size could be allocated.
			width, height = 1, 1
			valid = false
		}

		tex, err := s.pool.Allocate(width, height)
		if err != nil {
			valid = false
		}

		if valid {
			copy(tex.Pixels, thumb.Pixels)
			target.BindTexture(s.slot, tex)
			return domain.ResolutionResult{Width: width, Height: height, Valid: true}
		}
		s.pool.Release(tex)
	}

	// Cached fallback: the storage location is re-checked here so a
	// reference that failed the first existence check gets one more
	// chance before the default takes over.
	if !ref.IsZero() {
		if loc, ok := s.storage.Exists(ctx, ref); ok {
			location = loc
			if result, ok := s.bindCached(ctx, location, ref, target); ok {
				return result
			}
		}
	}

	target.BindTexture(s.slot, defaultTex)
	if generationTried {
		// A failed generation already clamped the reported size.
		return domain.ResolutionResult{Width: 1, Height: 1, Valid: false}
	}
	width, height := 1, 1
	if defaultTex != nil {
		width, height = defaultTex.Width, defaultTex.Height
	}
	return domain.ResolutionResult{Width: width, Height: height, Valid: false}
}

// ResolveCached binds the asset's cached thumbnail without attempting
// live generation, falling back to the default texture on any miss.
func (s *ResolverService) ResolveCached(ctx context.Context, ref domain.AssetRef, defaultTex *domain.Texture, target ports.DisplayTarget) domain.ResolutionResult {
	if !ref.IsZero() {
		if location, ok := s.storage.Exists(ctx, ref); ok {
			if result, ok := s.bindCached(ctx, location, ref, target); ok {
				return result
			}
		}
	}

	target.BindTexture(s.slot, defaultTex)
	width, height := 1, 1
	if defaultTex != nil {
		width, height = defaultTex.Width, defaultTex.Height
	}
	return domain.ResolutionResult{Width: width, Height: height, Valid: false}
}

// bindCached loads the cached thumbnail for ref, normalizes it through
// the image codec, and binds it. Reports false when the cache misses or
// the thumbnail cannot be turned into a texture.
func (s *ResolverService) bindCached(ctx context.Context, location string, ref domain.AssetRef, target ports.DisplayTarget) (domain.ResolutionResult, bool) {
	cached, err := s.cache.ReadCached(ctx, location, ref.FullName())
	if err != nil || !cached.Valid() {
		return domain.ResolutionResult{}, false
	}

	// Round-trip through the codec so cached pixels in any layout come
	// out in the normalized BGRA form the display expects.
	encoded, err := s.codec.Encode(cached)
	if err != nil {
		return domain.ResolutionResult{}, false
	}
	norm, err := s.codec.Decode(encoded)
	if err != nil || !norm.Valid() {
		return domain.ResolutionResult{}, false
	}

	tex, err := s.pool.Allocate(norm.Width, norm.Height)
	if err != nil {
		return domain.ResolutionResult{}, false
	}
	copy(tex.Pixels, norm.Pixels)
	target.BindTexture(s.slot, tex)
	return domain.ResolutionResult{Width: norm.Width, Height: norm.Height, Valid: true}, true
}
