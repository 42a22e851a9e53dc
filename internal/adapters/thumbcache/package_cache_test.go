package thumbcache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/torinwade/salib/internal/adapters/codec"
	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/ports"
)

func testCache() *PackageCache {
	return NewPackageCache(codec.NewPNGCodec())
}

func testThumbnail(t *testing.T) *domain.Thumbnail {
	t.Helper()
	thumb, err := domain.NewThumbnail(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(thumb.Pixels); i += domain.BytesPerPixel {
		thumb.Pixels[i+2] = 200
		thumb.Pixels[i+3] = 255
	}
	return thumb
}

func TestPackageCache_WriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := testCache()
	location := filepath.Join(t.TempDir(), "crate.png")
	thumb := testThumbnail(t)

	if err := cache.WriteCached(ctx, location, "asset:crate.png", thumb); err != nil {
		t.Fatalf("WriteCached() error: %v", err)
	}

	got, err := cache.ReadCached(ctx, location, "asset:crate.png")
	if err != nil {
		t.Fatalf("ReadCached() error: %v", err)
	}
	if got.Width != 2 || got.Height != 2 {
		t.Errorf("cached thumbnail is %dx%d, want 2x2", got.Width, got.Height)
	}
	if !bytes.Equal(got.Pixels, thumb.Pixels) {
		t.Error("pixels changed across the cache round trip")
	}
}

func TestPackageCache_BlobLivesBesideStorage(t *testing.T) {
	ctx := context.Background()
	cache := testCache()
	dir := t.TempDir()
	location := filepath.Join(dir, "crate.png")

	if err := cache.WriteCached(ctx, location, "asset:crate.png", testThumbnail(t)); err != nil {
		t.Fatalf("WriteCached() error: %v", err)
	}

	blob := filepath.Join(dir, ".thumbnails", "crate.png.thumb")
	if _, err := os.Stat(blob); err != nil {
		t.Errorf("expected blob at %s: %v", blob, err)
	}
}

func TestPackageCache_ReadMiss(t *testing.T) {
	ctx := context.Background()
	cache := testCache()
	location := filepath.Join(t.TempDir(), "crate.png")

	_, err := cache.ReadCached(ctx, location, "asset:crate.png")
	if !errors.Is(err, ports.ErrThumbNotFound) {
		t.Errorf("expected ErrThumbNotFound, got %v", err)
	}
}

func TestPackageCache_ReadCorruptBlob(t *testing.T) {
	ctx := context.Background()
	cache := testCache()
	dir := t.TempDir()
	location := filepath.Join(dir, "crate.png")

	blobDir := filepath.Join(dir, ".thumbnails")
	if err := os.MkdirAll(blobDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(blobDir, "crate.png.thumb"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := cache.ReadCached(ctx, location, "asset:crate.png"); err == nil {
		t.Error("expected an error for a corrupt blob")
	}
}

func TestPackageCache_WriteRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	cache := testCache()
	location := filepath.Join(t.TempDir(), "crate.png")

	err := cache.WriteCached(ctx, location, "asset:crate.png", &domain.Thumbnail{Width: 0, Height: 0})
	if err == nil {
		t.Error("expected rejection of an invalid thumbnail")
	}
}

func TestPackageCache_RemoveCached(t *testing.T) {
	ctx := context.Background()
	cache := testCache()
	location := filepath.Join(t.TempDir(), "crate.png")

	if err := cache.WriteCached(ctx, location, "asset:crate.png", testThumbnail(t)); err != nil {
		t.Fatal(err)
	}
	if err := cache.RemoveCached(ctx, location, "asset:crate.png"); err != nil {
		t.Fatalf("RemoveCached() error: %v", err)
	}
	if _, err := cache.ReadCached(ctx, location, "asset:crate.png"); !errors.Is(err, ports.ErrThumbNotFound) {
		t.Errorf("expected miss after removal, got %v", err)
	}

	// Removing again is not an error.
	if err := cache.RemoveCached(ctx, location, "asset:crate.png"); err != nil {
		t.Errorf("second RemoveCached() error: %v", err)
	}
}
