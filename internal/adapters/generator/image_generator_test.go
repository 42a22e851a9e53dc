package generator

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/pkg/vault"
)

func testVault(t *testing.T) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	v := &vault.Vault{
		RootPath:       root,
		AssetsPath:     filepath.Join(root, "assets"),
		ThumbnailsPath: filepath.Join(root, "assets", ".thumbnails"),
		CachePath:      filepath.Join(root, "cache"),
		ConfigPath:     filepath.Join(root, "config.yaml"),
	}
	if err := v.Initialize(); err != nil {
		t.Fatalf("failed to initialize vault: %v", err)
	}
	return v
}

func storeImage(t *testing.T, v *vault.Vault, name string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	f, err := os.Create(v.GetAssetPath(name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImageGenerator_Generate(t *testing.T) {
	v := testVault(t)
	storeImage(t, v, "crate.png", 64, 32)
	gen := NewImageGenerator(v, 256)

	thumb, err := gen.Generate(context.Background(), &domain.Asset{Name: "crate.png"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if thumb.Width != 64 || thumb.Height != 32 {
		t.Errorf("thumbnail is %dx%d, want 64x32 (no upscale)", thumb.Width, thumb.Height)
	}
	if !thumb.Valid() {
		t.Error("generated thumbnail should be valid")
	}
}

func TestImageGenerator_ScalesDown(t *testing.T) {
	v := testVault(t)
	storeImage(t, v, "wide.png", 400, 100)
	gen := NewImageGenerator(v, 200)

	thumb, err := gen.Generate(context.Background(), &domain.Asset{Name: "wide.png"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if thumb.Width != 200 || thumb.Height != 50 {
		t.Errorf("thumbnail is %dx%d, want 200x50", thumb.Width, thumb.Height)
	}
}

func TestImageGenerator_MissingFile(t *testing.T) {
	v := testVault(t)
	gen := NewImageGenerator(v, 256)

	if _, err := gen.Generate(context.Background(), &domain.Asset{Name: "ghost.png"}); err == nil {
		t.Error("expected error for a missing asset file")
	}
}

func TestImageGenerator_CorruptFile(t *testing.T) {
	v := testVault(t)
	if err := os.WriteFile(v.GetAssetPath("bad.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	gen := NewImageGenerator(v, 256)

	if _, err := gen.Generate(context.Background(), &domain.Asset{Name: "bad.png"}); err == nil {
		t.Error("expected error for undecodable content")
	}
}

func TestFitBounds(t *testing.T) {
	tests := []struct {
		name          string
		w, h, maxSide int
		wantW, wantH  int
	}{
		{"fits untouched", 100, 50, 256, 100, 50},
		{"exact fit", 256, 256, 256, 256, 256},
		{"wide scales to max width", 512, 128, 256, 256, 64},
		{"tall scales to max height", 128, 512, 256, 64, 256},
		{"square scales", 1024, 1024, 256, 256, 256},
		{"extreme ratio clamps to 1", 10000, 2, 256, 256, 1},
		{"zero input", 0, 100, 256, 0, 0},
		{"negative input", -5, 100, 256, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitBounds(tt.w, tt.h, tt.maxSide)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fitBounds(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, tt.maxSide, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
