package display

import (
	"testing"

	"github.com/torinwade/salib/internal/core/domain"
)

func TestPool_AllocateRelease(t *testing.T) {
	pool := NewPool()

	tex, err := pool.Allocate(16, 8)
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if tex.Width != 16 || tex.Height != 8 {
		t.Errorf("texture is %dx%d, want 16x8", tex.Width, tex.Height)
	}
	if len(tex.Pixels) != 16*8*domain.BytesPerPixel {
		t.Errorf("pixel buffer is %d bytes, want %d", len(tex.Pixels), 16*8*domain.BytesPerPixel)
	}
	if tex.ID == "" {
		t.Error("expected a texture ID")
	}
	if !pool.Owns(tex) {
		t.Error("pool should own a texture it allocated")
	}
	if pool.LiveCount() != 1 {
		t.Errorf("LiveCount() = %d, want 1", pool.LiveCount())
	}

	pool.Release(tex)
	if pool.Owns(tex) {
		t.Error("pool should not own a released texture")
	}
	if pool.LiveCount() != 0 {
		t.Errorf("LiveCount() = %d, want 0", pool.LiveCount())
	}
}

func TestPool_AllocateInvalidDimensions(t *testing.T) {
	pool := NewPool()
	for _, dims := range [][2]int{{0, 4}, {4, 0}, {-1, 4}, {0, 0}} {
		if _, err := pool.Allocate(dims[0], dims[1]); err == nil {
			t.Errorf("Allocate(%d, %d) should fail", dims[0], dims[1])
		}
	}
}

func TestPool_ReleaseForeignTexture(t *testing.T) {
	pool := NewPool()
	mine, _ := pool.Allocate(2, 2)

	// Caller-owned textures pass through Release untouched.
	pool.Release(nil)
	pool.Release(&domain.Texture{ID: "caller-default", Width: 2, Height: 2})

	if !pool.Owns(mine) {
		t.Error("releasing foreign textures must not affect pool-owned ones")
	}
	if pool.LiveCount() != 1 {
		t.Errorf("LiveCount() = %d, want 1", pool.LiveCount())
	}
}

func TestMaterial_BindReleasesPreviousOccupant(t *testing.T) {
	pool := NewPool()
	mat := NewMaterial("preview", pool)

	first, _ := pool.Allocate(4, 4)
	second, _ := pool.Allocate(8, 8)

	mat.BindTexture("texture", first)
	if mat.BoundTexture("texture") != first {
		t.Fatal("first texture not bound")
	}

	mat.BindTexture("texture", second)
	if mat.BoundTexture("texture") != second {
		t.Fatal("second texture not bound")
	}
	if pool.Owns(first) {
		t.Error("rebinding must release the previous occupant back to the pool")
	}
	if !pool.Owns(second) {
		t.Error("bound texture must stay live")
	}
}

func TestMaterial_BindDefaultOverPoolTexture(t *testing.T) {
	pool := NewPool()
	mat := NewMaterial("preview", pool)

	pooled, _ := pool.Allocate(4, 4)
	def := &domain.Texture{ID: "default", Width: 1, Height: 1}

	mat.BindTexture("texture", pooled)
	mat.BindTexture("texture", def)

	if mat.BoundTexture("texture") != def {
		t.Error("default texture not bound")
	}
	if pool.Owns(pooled) {
		t.Error("displaced pool texture should have been released")
	}
	if pool.LiveCount() != 0 {
		t.Errorf("LiveCount() = %d, want 0", pool.LiveCount())
	}
}

func TestMaterial_SlotsAreIndependent(t *testing.T) {
	pool := NewPool()
	mat := NewMaterial("preview", pool)

	texA, _ := pool.Allocate(4, 4)
	texB, _ := pool.Allocate(8, 8)
	mat.BindTexture("texture", texA)
	mat.BindTexture("albedo", texB)

	if mat.BoundTexture("texture") != texA || mat.BoundTexture("albedo") != texB {
		t.Error("slots must hold independent bindings")
	}
	if pool.LiveCount() != 2 {
		t.Errorf("LiveCount() = %d, want 2", pool.LiveCount())
	}
}

func TestMaterial_Destroy(t *testing.T) {
	pool := NewPool()
	mat := NewMaterial("preview", pool)

	tex, _ := pool.Allocate(4, 4)
	mat.BindTexture("texture", tex)
	mat.Destroy()

	if mat.BoundTexture("texture") != nil {
		t.Error("destroyed material should have no bindings")
	}
	if pool.LiveCount() != 0 {
		t.Errorf("LiveCount() = %d, want 0 after destroy", pool.LiveCount())
	}
}

func TestFromThumbnail(t *testing.T) {
	pool := NewPool()
	thumb, err := domain.NewThumbnail(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range thumb.Pixels {
		thumb.Pixels[i] = byte(i)
	}

	tex, err := FromThumbnail(pool, thumb)
	if err != nil {
		t.Fatalf("FromThumbnail() error: %v", err)
	}
	if tex.Width != 3 || tex.Height != 2 {
		t.Errorf("texture is %dx%d, want 3x2", tex.Width, tex.Height)
	}
	for i := range thumb.Pixels {
		if tex.Pixels[i] != thumb.Pixels[i] {
			t.Fatalf("pixel %d = %d, want %d", i, tex.Pixels[i], thumb.Pixels[i])
		}
	}

	if _, err := FromThumbnail(pool, &domain.Thumbnail{Width: 0, Height: 0}); err == nil {
		t.Error("expected error for an invalid thumbnail")
	}
}
