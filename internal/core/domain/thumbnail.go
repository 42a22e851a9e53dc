package domain

import "fmt"

// BytesPerPixel is the fixed pixel stride of thumbnail buffers.
// Pixels are stored uncompressed in blue-green-red-alpha order.
const BytesPerPixel = 4

// Thumbnail is an uncompressed preview bitmap for an asset.
type Thumbnail struct {
	Width  int
	Height int
	Pixels []byte // BGRA, Width*Height*BytesPerPixel bytes
}

// NewThumbnail allocates a zeroed thumbnail buffer for the given dimensions.
func NewThumbnail(width, height int) (*Thumbnail, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid thumbnail dimensions %dx%d", width, height)
	}
	return &Thumbnail{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*BytesPerPixel),
	}, nil
}

// Valid reports whether the thumbnail has positive dimensions and a
// pixel buffer of exactly the expected size.
func (t *Thumbnail) Valid() bool {
	if t == nil || t.Width < 1 || t.Height < 1 {
		return false
	}
	return len(t.Pixels) == t.Width*t.Height*BytesPerPixel
}

// Texture is a transient bound bitmap owned by a display surface's
// resource pool. It is released when its slot is rebound or the pool
// is destroyed, never by the resolver.
type Texture struct {
	ID     string
	Width  int
	Height int
	Pixels []byte // BGRA
}

// ResolutionResult describes what a thumbnail resolution wrote into its
// display target. Valid is false when the caller's default texture was
// bound instead of an asset thumbnail.
type ResolutionResult struct {
	Width  int
	Height int
	Valid  bool
}
