package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/torinwade/salib/internal/core/domain"
)

// PNGCodec converts between compressed PNG bytes and the uncompressed
// BGRA thumbnails the rest of the system works with.
type PNGCodec struct{}

// NewPNGCodec creates a PNG image codec.
func NewPNGCodec() *PNGCodec {
	return &PNGCodec{}
}

// Decode parses PNG data into a BGRA thumbnail.
func (c *PNGCodec) Decode(data []byte) (*domain.Thumbnail, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img)
}

// Encode compresses a thumbnail's raw BGRA pixels as PNG.
func (c *PNGCodec) Encode(thumb *domain.Thumbnail) ([]byte, error) {
	img, err := ToImage(thumb)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// FromImage converts any decoded image into a BGRA thumbnail.
func FromImage(img image.Image) (*domain.Thumbnail, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	thumb, err := domain.NewThumbnail(width, height)
	if err != nil {
		return nil, err
	}

	// Normalize through NRGBA so every source pixel format lands in
	// the same straight-alpha layout before the channel swap.
	nrgba, ok := img.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				nrgba.Set(x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := nrgba.PixOffset(x, y)
			dst := (y*width + x) * domain.BytesPerPixel
			thumb.Pixels[dst+0] = nrgba.Pix[src+2] // B
			thumb.Pixels[dst+1] = nrgba.Pix[src+1] // G
			thumb.Pixels[dst+2] = nrgba.Pix[src+0] // R
			thumb.Pixels[dst+3] = nrgba.Pix[src+3] // A
		}
	}
	return thumb, nil
}

// ToImage converts a BGRA thumbnail back into a standard image.
func ToImage(thumb *domain.Thumbnail) (*image.NRGBA, error) {
	if !thumb.Valid() {
		return nil, fmt.Errorf("cannot convert invalid thumbnail")
	}

	img := image.NewNRGBA(image.Rect(0, 0, thumb.Width, thumb.Height))
	for y := 0; y < thumb.Height; y++ {
		for x := 0; x < thumb.Width; x++ {
			src := (y*thumb.Width + x) * domain.BytesPerPixel
			dst := img.PixOffset(x, y)
			img.Pix[dst+0] = thumb.Pixels[src+2] // R
			img.Pix[dst+1] = thumb.Pixels[src+1] // G
			img.Pix[dst+2] = thumb.Pixels[src+0] // B
			img.Pix[dst+3] = thumb.Pixels[src+3] // A
		}
	}
	return img, nil
}
