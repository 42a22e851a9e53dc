package domain

import "testing"

func TestNewThumbnail(t *testing.T) {
	thumb, err := NewThumbnail(4, 3)
	if err != nil {
		t.Fatalf("NewThumbnail() error: %v", err)
	}
	if len(thumb.Pixels) != 4*3*BytesPerPixel {
		t.Errorf("buffer is %d bytes, want %d", len(thumb.Pixels), 4*3*BytesPerPixel)
	}
	if !thumb.Valid() {
		t.Error("fresh thumbnail should be valid")
	}

	for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, 3}} {
		if _, err := NewThumbnail(dims[0], dims[1]); err == nil {
			t.Errorf("NewThumbnail(%d, %d) should fail", dims[0], dims[1])
		}
	}
}

func TestThumbnail_Valid(t *testing.T) {
	tests := []struct {
		name  string
		thumb Thumbnail
		want  bool
	}{
		{"well formed", Thumbnail{Width: 2, Height: 2, Pixels: make([]byte, 16)}, true},
		{"zero width", Thumbnail{Width: 0, Height: 2, Pixels: make([]byte, 16)}, false},
		{"zero height", Thumbnail{Width: 2, Height: 0, Pixels: make([]byte, 16)}, false},
		{"short buffer", Thumbnail{Width: 2, Height: 2, Pixels: make([]byte, 15)}, false},
		{"nil buffer", Thumbnail{Width: 2, Height: 2}, false},
		{"zero value", Thumbnail{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.thumb.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
