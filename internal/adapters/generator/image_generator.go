package generator

import (
	"context"
	"fmt"
	"image"
	"os"

	// Decoders for the image formats the library accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/torinwade/salib/internal/adapters/codec"
	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/pkg/vault"
)

// ImageGenerator produces thumbnails by decoding an asset's current
// file content and scaling it down. Because it reads the live file, a
// regenerated thumbnail reflects edits made after registration.
type ImageGenerator struct {
	vault   *vault.Vault
	maxSide int
}

// NewImageGenerator creates a generator that scales thumbnails to fit
// within a maxSide bounding box, preserving aspect ratio.
func NewImageGenerator(v *vault.Vault, maxSide int) *ImageGenerator {
	if maxSide < 1 {
		maxSide = 256
	}
	return &ImageGenerator{vault: v, maxSide: maxSide}
}

// Generate renders a fresh thumbnail from the stored asset file.
func (g *ImageGenerator) Generate(ctx context.Context, asset *domain.Asset) (*domain.Thumbnail, error) {
	path := g.vault.GetAssetPath(asset.Name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset content: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset content: %w", err)
	}

	width, height := fitBounds(img.Bounds().Dx(), img.Bounds().Dy(), g.maxSide)
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("asset %s has no drawable area", asset.Name)
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)

	return codec.FromImage(scaled)
}

// fitBounds scales (w, h) to fit inside a maxSide box without
// upscaling or distorting the aspect ratio.
func fitBounds(w, h, maxSide int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w > h {
		return maxSide, max(1, (h*maxSide)/w)
	}
	return max(1, (w*maxSide)/h), maxSide
}
