package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createSolidImage fills an RGBA image with one color.
func createSolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreprocessKeepsSmallImageSize(t *testing.T) {
	img := createSolidImage(320, 240, color.Gray{Y: 128})
	out := Preprocess(img)

	if b := out.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("small image resized to %dx%d", b.Dx(), b.Dy())
	}
}

func TestPreprocessDownscalesLargeImage(t *testing.T) {
	img := createSolidImage(3840, 2160, color.Gray{Y: 128})
	out := Preprocess(img)

	b := out.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		t.Errorf("long edge not capped: %dx%d", b.Dx(), b.Dy())
	}

	// Aspect ratio survives the downscale.
	inRatio := 3840.0 / 2160.0
	outRatio := float64(b.Dx()) / float64(b.Dy())
	if diff := inRatio - outRatio; diff > 0.01 || diff < -0.01 {
		t.Errorf("aspect ratio changed: in %.3f, out %.3f", inRatio, outRatio)
	}
}

func TestPreprocessDownscalesPortrait(t *testing.T) {
	img := createSolidImage(1080, 2400, color.Gray{Y: 128})
	out := Preprocess(img)

	if b := out.Bounds(); b.Dy() > MaxDimension {
		t.Errorf("portrait long edge not capped: %dx%d", b.Dx(), b.Dy())
	}
}

func TestPreprocessZeroArea(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	out := Preprocess(img)
	if b := out.Bounds(); b.Dx() != 0 || b.Dy() != 0 {
		t.Errorf("zero-area image changed to %v", b)
	}
}

func TestPreprocessKeepsThinDarkLines(t *testing.T) {
	// Geometry extraction depends on thin structural lines surviving the
	// denoise pass. A 2px line must stay dark against the background.
	img := createSolidImage(64, 64, color.White)
	for y := 0; y < 64; y++ {
		img.Set(20, y, color.Black)
		img.Set(21, y, color.Black)
	}

	out := Preprocess(img)

	lr, _, _, _ := out.At(20, 32).RGBA()
	if line := lr >> 8; line > 100 {
		t.Errorf("line pixel brightened to %d, want dark", line)
	}
	br, _, _, _ := out.At(40, 32).RGBA()
	if back := br >> 8; back < 200 {
		t.Errorf("background pixel darkened to %d, want bright", back)
	}
}

func TestPreprocessDoesNotMutateInput(t *testing.T) {
	img := createSolidImage(64, 64, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	orig := img.RGBAAt(10, 10)
	Preprocess(img)
	after := img.RGBAAt(10, 10)
	if orig != after {
		t.Errorf("input mutated: %v -> %v", orig, after)
	}
}

func TestEqualizeLuminanceUniformImage(t *testing.T) {
	// A perfectly flat image has nothing to equalize; output stays gray
	// rather than being stretched to extremes.
	img := createSolidImage(64, 64, color.Gray{Y: 128})
	out := equalizeLuminance(img)

	r, g, b, _ := out.At(32, 32).RGBA()
	for _, ch := range []uint32{r >> 8, g >> 8, b >> 8} {
		if ch < 100 || ch > 255 {
			t.Errorf("uniform image channel badly shifted: got %d", ch)
		}
	}
}

func TestTileLUTUniformTile(t *testing.T) {
	lum := make([][]float64, 16)
	for y := range lum {
		lum[y] = make([]float64, 16)
		for x := range lum[y] {
			lum[y][x] = 100
		}
	}
	lut := tileLUT(lum, 0, 0, 16, 16)
	if len(lut) != 256 {
		t.Fatalf("LUT length = %d, want 256", len(lut))
	}
	// A monotone LUT is required for the interpolation to be sane.
	for i := 1; i < 256; i++ {
		if lut[i] < lut[i-1] {
			t.Fatalf("LUT not monotone at bin %d: %v < %v", i, lut[i], lut[i-1])
		}
	}
}

func TestTileLUTEmptyTile(t *testing.T) {
	lum := [][]float64{}
	lut := tileLUT(lum, 0, 0, 0, 0)
	// Identity mapping for an empty tile.
	for i := 0; i < 256; i += 51 {
		if lut[i] != float64(i) {
			t.Errorf("empty tile LUT[%d] = %v, want %d", i, lut[i], i)
		}
	}
}
