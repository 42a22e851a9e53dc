package services

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/ports/mocks"
	"github.com/torinwade/salib/pkg/config"
	"github.com/torinwade/salib/pkg/vault"
)

type libraryFixture struct {
	vault *vault.Vault
	repo  *mocks.MockAssetRepository
	cache *mocks.MockThumbnailCache
	tags  *TagService
	svc   *LibraryService
}

func newLibraryFixture(t *testing.T) *libraryFixture {
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

	f := &libraryFixture{
		vault: v,
		repo:  mocks.NewMockAssetRepository(),
		cache: mocks.NewMockThumbnailCache(),
		tags:  NewTagService(),
	}
	f.svc = NewLibraryService(v, f.repo, f.cache, f.tags, config.DefaultConfig())
	return f
}

// writePNG creates a valid PNG file so header sniffing passes.
func writePNG(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return path
}

func TestLibraryService_Register(t *testing.T) {
	f := newLibraryFixture(t)
	src := writePNG(t, t.TempDir(), "crate_source.png", color.NRGBA{R: 200, A: 255})

	asset, err := f.svc.Register(context.Background(), RegisterRequest{
		SourcePath:  src,
		Type:        "prop",
		Category:    "furniture",
		DisplayName: "Wooden Crate 02",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if asset.Name != "wooden-crate-02.png" {
		t.Errorf("asset name = %q, want wooden-crate-02.png", asset.Name)
	}
	if asset.OriginalName != "crate_source.png" {
		t.Errorf("original name = %q, want crate_source.png", asset.OriginalName)
	}
	if asset.Type != "prop" || asset.Category != "furniture" {
		t.Errorf("type/category = %q/%q", asset.Type, asset.Category)
	}
	if asset.Hash == "" {
		t.Error("expected content hash to be recorded")
	}
	if asset.RegisteredAt.IsZero() {
		t.Error("expected registration timestamp")
	}

	if _, err := os.Stat(f.vault.GetAssetPath(asset.Name)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	if _, err := f.repo.Get(context.Background(), asset.Name); err != nil {
		t.Errorf("record not saved: %v", err)
	}
	for _, tag := range domain.AllTagNames {
		if !f.tags.IsRegistered(tag) {
			t.Errorf("tag %s not registered after ingest", tag)
		}
	}
}

func TestLibraryService_RegisterValidation(t *testing.T) {
	f := newLibraryFixture(t)
	srcDir := t.TempDir()
	src := writePNG(t, srcDir, "ok.png", color.NRGBA{A: 255})

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{
			name: "empty display name",
			req:  RegisterRequest{SourcePath: src, Type: "prop", DisplayName: "   "},
		},
		{
			name: "missing type",
			req:  RegisterRequest{SourcePath: src, DisplayName: "Crate"},
		},
		{
			name: "wildcard type",
			req:  RegisterRequest{SourcePath: src, Type: "all", DisplayName: "Crate"},
		},
		{
			name: "missing source",
			req:  RegisterRequest{SourcePath: filepath.Join(srcDir, "nope.png"), Type: "prop", DisplayName: "Crate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Register(context.Background(), tt.req); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLibraryService_RegisterRejectsNonImage(t *testing.T) {
	f := newLibraryFixture(t)
	src := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(src, []byte("not an image at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Register(context.Background(), RegisterRequest{
		SourcePath:  src,
		Type:        "prop",
		DisplayName: "Notes",
	}); err == nil {
		t.Error("expected rejection of a non-image file")
	}
}

func TestLibraryService_RegisterDeduplicatesByHash(t *testing.T) {
	f := newLibraryFixture(t)
	src := writePNG(t, t.TempDir(), "crate.png", color.NRGBA{R: 10, A: 255})

	first, err := f.svc.Register(context.Background(), RegisterRequest{
		SourcePath: src, Type: "prop", Category: "crates", DisplayName: "Crate",
	})
	if err != nil {
		t.Fatalf("first Register() error: %v", err)
	}

	// Same content again, different metadata: refreshes the record
	// under the original storage name.
	second, err := f.svc.Register(context.Background(), RegisterRequest{
		SourcePath: src, Type: "envir", Category: "set-dressing", DisplayName: "Crate Redux",
	})
	if err != nil {
		t.Fatalf("second Register() error: %v", err)
	}

	if second.Name != first.Name {
		t.Errorf("expected reused storage name %q, got %q", first.Name, second.Name)
	}
	if second.Type != "envir" || second.DisplayName != "Crate Redux" {
		t.Errorf("record not refreshed: %+v", second)
	}

	assets, _ := f.repo.List(context.Background())
	if len(assets) != 1 {
		t.Errorf("expected a single record, got %d", len(assets))
	}
}

func TestLibraryService_RegisterNameCollision(t *testing.T) {
	f := newLibraryFixture(t)
	dir := t.TempDir()
	srcA := writePNG(t, dir, "a.png", color.NRGBA{R: 10, A: 255})
	srcB := writePNG(t, dir, "b.png", color.NRGBA{G: 20, A: 255})

	first, err := f.svc.Register(context.Background(), RegisterRequest{
		SourcePath: srcA, Type: "prop", DisplayName: "Crate",
	})
	if err != nil {
		t.Fatalf("first Register() error: %v", err)
	}
	second, err := f.svc.Register(context.Background(), RegisterRequest{
		SourcePath: srcB, Type: "prop", DisplayName: "Crate",
	})
	if err != nil {
		t.Fatalf("second Register() error: %v", err)
	}

	if first.Name != "crate.png" {
		t.Errorf("first name = %q, want crate.png", first.Name)
	}
	if second.Name != "crate-1.png" {
		t.Errorf("second name = %q, want crate-1.png", second.Name)
	}
}

func TestLibraryService_Unregister(t *testing.T) {
	f := newLibraryFixture(t)
	src := writePNG(t, t.TempDir(), "crate.png", color.NRGBA{R: 10, A: 255})
	asset, err := f.svc.Register(context.Background(), RegisterRequest{
		SourcePath: src, Type: "prop", DisplayName: "Crate",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	f.cache.Put(asset.Ref().FullName(), &domain.Thumbnail{
		Width: 1, Height: 1, Pixels: make([]byte, domain.BytesPerPixel),
	})

	if err := f.svc.Unregister(context.Background(), asset.Name); err != nil {
		t.Fatalf("Unregister() error: %v", err)
	}

	if _, err := f.repo.Get(context.Background(), asset.Name); err == nil {
		t.Error("record still present after unregister")
	}
	if _, err := os.Stat(f.vault.GetAssetPath(asset.Name)); !os.IsNotExist(err) {
		t.Error("stored file still present after unregister")
	}
	if _, err := f.cache.ReadCached(context.Background(), "", asset.Ref().FullName()); err == nil {
		t.Error("cached thumbnail still present after unregister")
	}
}

func TestLibraryService_UnregisterUnknown(t *testing.T) {
	f := newLibraryFixture(t)
	if err := f.svc.Unregister(context.Background(), "ghost.png"); err == nil {
		t.Error("expected an error for an unknown asset")
	}
}

func TestLibraryService_Find(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	seed := []domain.Asset{
		{Name: "barrel.png", Type: "prop", Category: "set-dressing", DisplayName: "Rusty Barrel"},
		{Name: "crate.png", Type: "prop", Category: "crates", DisplayName: "Wooden Crate"},
		{Name: "hill.png", Type: "envir", Category: "terrain", DisplayName: "Grassy Hill"},
		{Name: "smoke.png", Type: "FX", Category: "default", DisplayName: "Smoke Puff"},
	}
	for _, a := range seed {
		if err := f.repo.Save(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		req       FindRequest
		wantNames []string
	}{
		{
			name:      "no filters returns everything sorted by display name",
			req:       FindRequest{},
			wantNames: []string{"hill.png", "barrel.png", "smoke.png", "crate.png"},
		},
		{
			name:      "all wildcard matches everything",
			req:       FindRequest{Type: "all", Category: "all"},
			wantNames: []string{"hill.png", "barrel.png", "smoke.png", "crate.png"},
		},
		{
			name:      "type filter",
			req:       FindRequest{Type: "prop"},
			wantNames: []string{"barrel.png", "crate.png"},
		},
		{
			name:      "type filter is case insensitive",
			req:       FindRequest{Type: "fx"},
			wantNames: []string{"smoke.png"},
		},
		{
			name:      "category filter",
			req:       FindRequest{Category: "crates"},
			wantNames: []string{"crate.png"},
		},
		{
			name:      "name filter matches display name",
			req:       FindRequest{NameFilter: "rusty"},
			wantNames: []string{"barrel.png"},
		},
		{
			name:      "name filter matches storage name",
			req:       FindRequest{NameFilter: "hill.png"},
			wantNames: []string{"hill.png"},
		},
		{
			name:      "no matches",
			req:       FindRequest{Type: "char"},
			wantNames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.Find(ctx, tt.req)
			if err != nil {
				t.Fatalf("Find() error: %v", err)
			}
			if resp.Total != len(tt.wantNames) {
				t.Errorf("Total = %d, want %d", resp.Total, len(tt.wantNames))
			}
			var names []string
			for _, a := range resp.Assets {
				names = append(names, a.Name)
			}
			if len(names) != len(tt.wantNames) {
				t.Fatalf("got %v, want %v", names, tt.wantNames)
			}
			for i := range names {
				if names[i] != tt.wantNames[i] {
					t.Errorf("result[%d] = %q, want %q", i, names[i], tt.wantNames[i])
				}
			}
		})
	}
}

func TestLibraryService_Types(t *testing.T) {
	f := newLibraryFixture(t)

	types := f.svc.Types(false)
	want := []string{"char", "envir", "FX", "prop"}
	if len(types) != len(want) {
		t.Fatalf("Types(false) = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Types(false)[%d] = %q, want %q", i, types[i], want[i])
		}
	}

	withAll := f.svc.Types(true)
	if len(withAll) != len(want)+1 || withAll[0] != domain.FilterAll {
		t.Errorf("Types(true) = %v, want leading %q", withAll, domain.FilterAll)
	}
}

func TestLibraryService_Categories(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	seed := []domain.Asset{
		{Name: "a.png", Type: "prop", Category: "crates"},
		{Name: "b.png", Type: "prop", Category: "barrels"},
		{Name: "c.png", Type: "envir", Category: "terrain"},
	}
	for _, a := range seed {
		if err := f.repo.Save(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("per type includes configured defaults", func(t *testing.T) {
		got, err := f.svc.Categories(ctx, "prop", false)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"barrels", "crates", "default"}
		if len(got) != len(want) {
			t.Fatalf("Categories(prop) = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Categories(prop)[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("all aggregates without defaults", func(t *testing.T) {
		got, err := f.svc.Categories(ctx, "all", true)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"all", "barrels", "crates", "terrain"}
		if len(got) != len(want) {
			t.Fatalf("Categories(all) = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Categories(all)[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})
}

func TestLibraryService_TypeColor(t *testing.T) {
	f := newLibraryFixture(t)

	first := f.svc.TypeColor("char")
	if again := f.svc.TypeColor("char"); first != again {
		t.Error("expected stable color per type")
	}
	if f.svc.TypeColor("char") == f.svc.TypeColor("prop") {
		t.Error("expected distinct colors per type")
	}

	white := f.svc.TypeColor("all")
	if white.R != 1 || white.G != 1 || white.B != 1 {
		t.Errorf("expected white for the all filter, got %+v", white)
	}
}
