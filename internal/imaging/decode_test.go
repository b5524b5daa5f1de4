package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// encodePNG renders a solid-color image as PNG bytes.
func encodePNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	data := encodePNG(t, 40, 30, color.Gray{Y: 128})

	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("bounds = %v, want 40x30", b)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode([]byte("not an image at all"))
	if err == nil {
		t.Fatal("expected error for garbage input")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error %v does not wrap ErrDecode", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, _, err := Decode(nil); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode for empty input, got %v", err)
	}
}

func TestAllowedFilename(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"site.png", true},
		{"site.jpg", true},
		{"site.jpeg", true},
		{"site.bmp", true},
		{"site.tiff", true},
		{"site.tif", true},
		{"SITE.PNG", true},
		{"site.gif", false},
		{"site.webp", false},
		{"site.txt", false},
		{"site", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllowedFilename(tt.name); got != tt.want {
				t.Errorf("AllowedFilename(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestAllowedExtensionsSorted(t *testing.T) {
	exts := AllowedExtensions()
	if len(exts) == 0 {
		t.Fatal("no extensions returned")
	}
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Errorf("extensions not sorted: %v", exts)
		}
	}
	for _, ext := range exts {
		if !AllowedFilename("x." + ext) {
			t.Errorf("returned extension %q not accepted by AllowedFilename", ext)
		}
	}
}

func TestNewMetadata(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	meta := NewMetadata(img, "png", "site.png")

	if meta.Width != 200 || meta.Height != 100 {
		t.Errorf("dimensions = %dx%d, want 200x100", meta.Width, meta.Height)
	}
	if meta.AspectRatio != 2.0 {
		t.Errorf("aspect ratio = %v, want 2.0", meta.AspectRatio)
	}
	if meta.TotalPixels != 20000 {
		t.Errorf("total pixels = %d, want 20000", meta.TotalPixels)
	}
	if meta.Format != "png" || meta.Filename != "site.png" {
		t.Errorf("format/filename = %q/%q", meta.Format, meta.Filename)
	}
}

func TestNewMetadataZeroHeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 0))
	meta := NewMetadata(img, "png", "degenerate.png")
	if meta.AspectRatio != 0 {
		t.Errorf("aspect ratio = %v, want 0 for zero height", meta.AspectRatio)
	}
}
