package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Preprocessing parameters. MaxDimension bounds per-request work: with the
// long edge capped, every downstream pass is bounded too.
const (
	MaxDimension = 1920

	// Median radius 1 is a 3x3 window. Anything wider erases thin
	// structural lines before the geometric extractor sees them.
	denoiseRadius = 1.0

	claheTiles     = 8
	claheClipLimit = 3.0
)

// Preprocess normalizes a decoded image for feature extraction.
//
// Three passes run in order, each producing a new image:
//
//  1. Downscale so the long edge is at most MaxDimension pixels,
//     preserving aspect ratio. Smaller images pass through unchanged.
//  2. Median filtering to suppress sensor noise while keeping edges,
//     which matters for photographs of textured surfaces.
//  3. Adaptive local contrast equalization applied to the luminance
//     channel only, leaving chrominance ratios intact.
//
// The input image is never mutated. A zero-area image is returned as-is;
// feature extractors treat it as degenerate and yield neutral features.
func Preprocess(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return img
	}

	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		// Fit only ever shrinks; the aspect ratio is preserved.
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	denoised := effect.Median(img, denoiseRadius)

	return equalizeLuminance(denoised)
}

// equalizeLuminance applies CLAHE-style contrast equalization to the
// luminance channel and rescales RGB by the per-pixel luminance ratio so
// chrominance is preserved.
func equalizeLuminance(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Luminance plane, 0-255, ITU-R BT.601 weights.
	lum := make([][]float64, height)
	for y := 0; y < height; y++ {
		lum[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum[y][x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}

	mapped := claheMap(lum, width, height)

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			ratio := 1.0
			if lum[y][x] > 0 {
				ratio = mapped[y][x] / lum[y][x]
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: clampChannel(float64(r>>8) * ratio),
				G: clampChannel(float64(g>>8) * ratio),
				B: clampChannel(float64(b>>8) * ratio),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// claheMap computes the equalized luminance plane. The image is divided
// into claheTiles x claheTiles tiles; each tile gets a clipped-histogram
// equalization LUT, and per-pixel values bilinearly interpolate between
// the four surrounding tile LUTs to avoid visible tile seams.
func claheMap(lum [][]float64, width, height int) [][]float64 {
	tilesX := claheTiles
	tilesY := claheTiles
	if tilesX > width {
		tilesX = width
	}
	if tilesY > height {
		tilesY = height
	}

	tileW := (width + tilesX - 1) / tilesX
	tileH := (height + tilesY - 1) / tilesY

	// Per-tile LUT mapping input luminance bin (0-255) to output value.
	luts := make([][][]float64, tilesY)
	for ty := 0; ty < tilesY; ty++ {
		luts[ty] = make([][]float64, tilesX)
		for tx := 0; tx < tilesX; tx++ {
			x1 := tx * tileW
			y1 := ty * tileH
			x2 := minInt(x1+tileW, width)
			y2 := minInt(y1+tileH, height)
			luts[ty][tx] = tileLUT(lum, x1, y1, x2, y2)
		}
	}

	out := make([][]float64, height)
	for y := 0; y < height; y++ {
		out[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			bin := int(lum[y][x])
			if bin > 255 {
				bin = 255
			}

			// Position relative to tile centers.
			fx := (float64(x) - float64(tileW)/2) / float64(tileW)
			fy := (float64(y) - float64(tileH)/2) / float64(tileH)
			tx0 := clampInt(int(fx), 0, tilesX-1)
			ty0 := clampInt(int(fy), 0, tilesY-1)
			tx1 := clampInt(tx0+1, 0, tilesX-1)
			ty1 := clampInt(ty0+1, 0, tilesY-1)
			wx := fx - float64(tx0)
			wy := fy - float64(ty0)
			wx = clampFloat(wx, 0, 1)
			wy = clampFloat(wy, 0, 1)

			v00 := luts[ty0][tx0][bin]
			v01 := luts[ty0][tx1][bin]
			v10 := luts[ty1][tx0][bin]
			v11 := luts[ty1][tx1][bin]

			top := v00*(1-wx) + v01*wx
			bot := v10*(1-wx) + v11*wx
			out[y][x] = top*(1-wy) + bot*wy
		}
	}
	return out
}

// tileLUT builds a clipped-histogram equalization lookup table for one
// tile. Histogram counts above the clip limit are redistributed evenly so
// no single luminance level dominates the mapping.
func tileLUT(lum [][]float64, x1, y1, x2, y2 int) []float64 {
	var hist [256]float64
	total := 0.0
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			bin := int(lum[y][x])
			if bin > 255 {
				bin = 255
			}
			hist[bin]++
			total++
		}
	}

	lut := make([]float64, 256)
	if total == 0 {
		for i := range lut {
			lut[i] = float64(i)
		}
		return lut
	}

	clip := claheClipLimit * total / 256
	excess := 0.0
	for i := range hist {
		if hist[i] > clip {
			excess += hist[i] - clip
			hist[i] = clip
		}
	}
	redist := excess / 256
	for i := range hist {
		hist[i] += redist
	}

	cdf := 0.0
	for i := range hist {
		cdf += hist[i]
		lut[i] = cdf / total * 255
	}
	return lut
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func clampFloat(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
