package display

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/torinwade/salib/internal/core/domain"
)

// Pool owns the transient textures bound to display surfaces. A texture
// allocated here stays alive until it is released back, which happens
// when a material slot is rebound or the material is destroyed. The
// pool never reclaims textures on its own.
type Pool struct {
	mu   sync.Mutex
	live map[string]*domain.Texture
}

// NewPool creates an empty texture pool.
func NewPool() *Pool {
	return &Pool{live: make(map[string]*domain.Texture)}
}

// Allocate creates a transient texture surface of the given size.
func (p *Pool) Allocate(width, height int) (*domain.Texture, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid texture dimensions %dx%d", width, height)
	}

	tex := &domain.Texture{
		ID:     uuid.NewString(),
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*domain.BytesPerPixel),
	}

	p.mu.Lock()
	p.live[tex.ID] = tex
	p.mu.Unlock()
	return tex, nil
}

// Release returns a texture to the pool. Textures the pool does not
// own, such as caller-supplied defaults, are ignored, as is nil.
func (p *Pool) Release(tex *domain.Texture) {
	if tex == nil {
		return
	}
	p.mu.Lock()
	delete(p.live, tex.ID)
	p.mu.Unlock()
}

// Owns reports whether the pool currently tracks the texture.
func (p *Pool) Owns(tex *domain.Texture) bool {
	if tex == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.live[tex.ID]
	return ok
}

// LiveCount returns the number of textures currently allocated.
func (p *Pool) LiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// Material is a runtime-configurable display surface exposing named
// texture parameter slots. Rebinding a slot releases the previously
// bound texture back to the pool, so resolver output never outlives
// its display.
type Material struct {
	name string
	pool *Pool

	mu    sync.Mutex
	slots map[string]*domain.Texture
}

// NewMaterial creates a material drawing its textures from pool.
func NewMaterial(name string, pool *Pool) *Material {
	return &Material{
		name:  name,
		pool:  pool,
		slots: make(map[string]*domain.Texture),
	}
}

// Name returns the material's display name.
func (m *Material) Name() string {
	return m.name
}

// BindTexture sets the texture for the named parameter slot. The
// previous occupant, if any, goes back to the pool.
func (m *Material) BindTexture(slot string, tex *domain.Texture) {
	m.mu.Lock()
	prev := m.slots[slot]
	m.slots[slot] = tex
	m.mu.Unlock()

	if prev != nil && prev != tex {
		m.pool.Release(prev)
	}
}

// BoundTexture returns the texture currently bound to the slot, or nil
// when the slot is empty.
func (m *Material) BoundTexture(slot string) *domain.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[slot]
}

// Destroy releases every bound texture back to the pool and clears the
// material's slots.
func (m *Material) Destroy() {
	m.mu.Lock()
	slots := m.slots
	m.slots = make(map[string]*domain.Texture)
	m.mu.Unlock()

	for _, tex := range slots {
		m.pool.Release(tex)
	}
}

// FromThumbnail allocates a pool texture carrying the thumbnail's
// pixels. Used for default textures loaded from disk.
func FromThumbnail(pool *Pool, thumb *domain.Thumbnail) (*domain.Texture, error) {
	if !thumb.Valid() {
		return nil, fmt.Errorf("cannot create texture from invalid thumbnail")
	}
	tex, err := pool.Allocate(thumb.Width, thumb.Height)
	if err != nil {
		return nil, err
	}
	copy(tex.Pixels, thumb.Pixels)
	return tex, nil
}
