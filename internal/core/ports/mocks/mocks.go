package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/ports"
)

// MockStorage is an in-memory implementation of the AssetStorage port.
type MockStorage struct {
	mu     sync.RWMutex
	assets map[string]*domain.Asset
}

// NewMockStorage creates an empty mock storage backend.
func NewMockStorage() *MockStorage {
	return &MockStorage{assets: make(map[string]*domain.Asset)}
}

// Put registers an asset with the mock backend.
func (m *MockStorage) Put(asset *domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.Name] = asset
}

func (m *MockStorage) Exists(ctx context.Context, ref domain.AssetRef) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ref.IsZero() {
		return "", false
	}
	if _, ok := m.assets[ref.Name]; !ok {
		return "", false
	}
	return "/mock/assets/" + ref.Name, true
}

func (m *MockStorage) Load(ctx context.Context, ref domain.AssetRef) (*domain.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	asset, ok := m.assets[ref.Name]
	if !ok {
		return nil, fmt.Errorf("asset not found: %s", ref.Name)
	}
	return asset, nil
}

// --- MockThumbnailCache ---

// MockThumbnailCache is an in-memory implementation of the
// ThumbnailCache port, keyed by asset full name.
type MockThumbnailCache struct {
	mu     sync.RWMutex
	thumbs map[string]*domain.Thumbnail
	reads  []string
}

// NewMockThumbnailCache creates an empty mock thumbnail cache.
func NewMockThumbnailCache() *MockThumbnailCache {
	return &MockThumbnailCache{thumbs: make(map[string]*domain.Thumbnail)}
}

// Put seeds the cache with a thumbnail for fullName.
func (m *MockThumbnailCache) Put(fullName string, thumb *domain.Thumbnail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thumbs[fullName] = thumb
}

func (m *MockThumbnailCache) ReadCached(ctx context.Context, location, fullName string) (*domain.Thumbnail, error) {
	m.mu.Lock()
	m.reads = append(m.reads, fullName)
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	thumb, ok := m.thumbs[fullName]
	if !ok {
		return nil, ports.ErrThumbNotFound
	}
	return thumb, nil
}

func (m *MockThumbnailCache) WriteCached(ctx context.Context, location, fullName string, thumb *domain.Thumbnail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thumbs[fullName] = thumb
	return nil
}

func (m *MockThumbnailCache) RemoveCached(ctx context.Context, location, fullName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.thumbs, fullName)
	return nil
}

// Reads returns the full names looked up so far, in call order.
func (m *MockThumbnailCache) Reads() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reads := make([]string, len(m.reads))
	copy(reads, m.reads)
	return reads
}

// --- MockGenerator ---

// MockGenerator is a configurable implementation of the
// ThumbnailGenerator port.
type MockGenerator struct {
	mu         sync.Mutex
	thumb      *domain.Thumbnail
	shouldFail bool
	failError  error
	calls      []string
}

// NewMockGenerator creates a generator that returns the given thumbnail.
func NewMockGenerator(thumb *domain.Thumbnail) *MockGenerator {
	return &MockGenerator{thumb: thumb}
}

func (m *MockGenerator) Generate(ctx context.Context, asset *domain.Asset) (*domain.Thumbnail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, asset.Name)
	if m.shouldFail {
		if m.failError != nil {
			return nil, m.failError
		}
		return nil, fmt.Errorf("generation failed for %s", asset.Name)
	}
	return m.thumb, nil
}

// SetShouldFail makes subsequent Generate calls return an error.
func (m *MockGenerator) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

// SetThumbnail replaces the thumbnail returned by Generate.
func (m *MockGenerator) SetThumbnail(thumb *domain.Thumbnail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thumb = thumb
}

// GetCalls returns the asset names generated so far.
func (m *MockGenerator) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// --- MockCodec ---

// MockCodec is a pass-through implementation of the ImageCodec port.
// Encode captures the pixel buffer; Decode replays it.
type MockCodec struct {
	mu      sync.Mutex
	encoded *domain.Thumbnail
}

// NewMockCodec creates a pass-through codec.
func NewMockCodec() *MockCodec {
	return &MockCodec{}
}

func (m *MockCodec) Encode(thumb *domain.Thumbnail) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !thumb.Valid() {
		return nil, fmt.Errorf("cannot encode invalid thumbnail")
	}
	m.encoded = thumb
	return append([]byte(nil), thumb.Pixels...), nil
}

func (m *MockCodec) Decode(data []byte) (*domain.Thumbnail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.encoded == nil {
		return nil, fmt.Errorf("no image data to decode")
	}
	return &domain.Thumbnail{
		Width:  m.encoded.Width,
		Height: m.encoded.Height,
		Pixels: append([]byte(nil), data...),
	}, nil
}

// --- MockTexturePool ---

// MockTexturePool is a counting implementation of the TexturePool port.
type MockTexturePool struct {
	mu         sync.Mutex
	nextID     int
	allocated  int
	released   int
	shouldFail bool
}

// NewMockTexturePool creates an empty mock pool.
func NewMockTexturePool() *MockTexturePool {
	return &MockTexturePool{}
}

func (m *MockTexturePool) Allocate(width, height int) (*domain.Texture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return nil, fmt.Errorf("texture allocation failed")
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid texture dimensions %dx%d", width, height)
	}
	m.nextID++
	m.allocated++
	return &domain.Texture{
		ID:     fmt.Sprintf("mock-tex-%d", m.nextID),
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*domain.BytesPerPixel),
	}, nil
}

func (m *MockTexturePool) Release(tex *domain.Texture) {
	if tex == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released++
}

// SetShouldFail makes subsequent Allocate calls return an error.
func (m *MockTexturePool) SetShouldFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
}

// Counts returns the number of allocations and releases so far.
func (m *MockTexturePool) Counts() (allocated, released int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocated, m.released
}

// --- MockDisplayTarget ---

// MockDisplayTarget records texture bindings per parameter slot.
type MockDisplayTarget struct {
	mu    sync.Mutex
	slots map[string]*domain.Texture
	binds int
}

// NewMockDisplayTarget creates a display target with no bound slots.
func NewMockDisplayTarget() *MockDisplayTarget {
	return &MockDisplayTarget{slots: make(map[string]*domain.Texture)}
}

func (m *MockDisplayTarget) BindTexture(slot string, tex *domain.Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = tex
	m.binds++
}

func (m *MockDisplayTarget) BoundTexture(slot string) *domain.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[slot]
}

// BindCount returns how many times any slot was bound.
func (m *MockDisplayTarget) BindCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.binds
}

// --- MockAssetRepository ---

// MockAssetRepository is an in-memory implementation of the
// AssetRepository port.
type MockAssetRepository struct {
	mu     sync.Mutex
	assets map[string]domain.Asset
}

// NewMockAssetRepository creates an empty mock repository.
func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{assets: make(map[string]domain.Asset)}
}

func (m *MockAssetRepository) Save(ctx context.Context, asset domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.Name] = asset
	return nil
}

func (m *MockAssetRepository) Get(ctx context.Context, name string) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	asset, ok := m.assets[name]
	if !ok {
		return nil, fmt.Errorf("asset not found: %s", name)
	}
	return &asset, nil
}

func (m *MockAssetRepository) GetByHash(ctx context.Context, hash string) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, asset := range m.assets {
		if asset.Hash == hash {
			return &asset, nil
		}
	}
	return nil, fmt.Errorf("asset not found")
}

func (m *MockAssetRepository) List(ctx context.Context) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assets := make([]domain.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		assets = append(assets, a)
	}
	return assets, nil
}

func (m *MockAssetRepository) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[name]; !ok {
		return fmt.Errorf("asset not found: %s", name)
	}
	delete(m.assets, name)
	return nil
}
