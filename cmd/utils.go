package cmd

import (
	"fmt"
	"os"
	"os/exec"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/torinwade/salib/internal/adapters/display"
	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/services"
)

// GetPreferredEditor returns the editor command from env, or default
func GetPreferredEditor() string {
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// openEditor runs the user's editor on a file, attached to the terminal.
func openEditor(path string) error {
	c := exec.Command(GetPreferredEditor(), path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// selectAsset resolves a query to a single registered asset. An empty
// query opens an interactive fuzzy finder; otherwise the first match
// wins.
func selectAsset(query string) (*domain.Asset, error) {
	ctx := getContext()

	resp, err := libraryService.Find(ctx, services.FindRequest{NameFilter: query})
	if err != nil {
		return nil, err
	}
	if resp.Total == 0 {
		if query == "" {
			return nil, fmt.Errorf("no assets registered")
		}
		return nil, fmt.Errorf("no assets matching: %s", query)
	}
	if resp.Total == 1 {
		return &resp.Assets[0], nil
	}
	if query != "" {
		return &resp.Assets[0], nil
	}

	idx, err := fuzzyfinder.Find(
		resp.Assets,
		func(i int) string { return resp.Assets[i].EffectiveDisplayName() },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			a := resp.Assets[i]
			return fmt.Sprintf("Name: %s\nType: %s\nCategory: %s\nAdded by: %s\nRegistered: %s",
				a.Name, a.Type, a.Category, a.AddedBy,
				a.RegisteredAt.Format("2006-01-02"))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("selection cancelled")
	}
	return &resp.Assets[idx], nil
}

// loadDefaultTexture provides the texture bound when resolution fails.
// Uses the configured default image when one is set, otherwise a flat
// gray placeholder.
func loadDefaultTexture() (*domain.Texture, error) {
	if appConfig.DefaultTexture != "" {
		data, err := os.ReadFile(appConfig.DefaultTexture)
		if err == nil {
			if thumb, err := pngCodec.Decode(data); err == nil {
				return display.FromThumbnail(texPool, thumb)
			}
		}
		// A broken default image is not fatal; fall through to gray.
	}

	size := 64
	thumb, err := domain.NewThumbnail(size, size)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(thumb.Pixels); i += domain.BytesPerPixel {
		thumb.Pixels[i+0] = 96
		thumb.Pixels[i+1] = 96
		thumb.Pixels[i+2] = 96
		thumb.Pixels[i+3] = 255
	}
	return display.FromThumbnail(texPool, thumb)
}

// resolveToMaterial runs the resolver for an asset and returns the
// material holding the bound texture, along with the resolution result.
func resolveToMaterial(name string, cachedOnly bool) (*display.Material, domain.ResolutionResult, error) {
	ctx := getContext()

	def, err := loadDefaultTexture()
	if err != nil {
		return nil, domain.ResolutionResult{}, fmt.Errorf("failed to prepare default texture: %w", err)
	}

	mat := display.NewMaterial(name, texPool)
	ref := domain.AssetRef{Name: name}

	var result domain.ResolutionResult
	if cachedOnly {
		result = resolverService.ResolveCached(ctx, ref, def, mat)
	} else {
		result = resolverService.Resolve(ctx, ref, def, mat)
	}
	return mat, result, nil
}

// boundThumbnail extracts the texture currently bound to the material's
// configured slot as a thumbnail.
func boundThumbnail(mat *display.Material) (*domain.Thumbnail, error) {
	tex := mat.BoundTexture(appConfig.TextureSlot)
	if tex == nil {
		return nil, fmt.Errorf("no texture bound")
	}
	thumb := &domain.Thumbnail{Width: tex.Width, Height: tex.Height, Pixels: tex.Pixels}
	if !thumb.Valid() {
		return nil, fmt.Errorf("bound texture has no pixel data")
	}
	return thumb, nil
}
