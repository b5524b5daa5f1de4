package features

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// TextureType labels the overall surface character of an image.
type TextureType string

const (
	TextureSmooth          TextureType = "smooth"
	TextureModeratelyRough TextureType = "moderately_rough"
	TextureRough           TextureType = "rough"
	TextureMixed           TextureType = "mixed"
)

// TextureFeatures holds gradient statistics and the classified texture.
//
// Strength is the mean Sobel gradient magnitude over the image and
// Variance its variance; both are on the 0-255 luminance scale.
// EdgeDensity is the fraction of pixels the two-threshold edge detector
// marks, in [0,1].
type TextureFeatures struct {
	Strength    float64     `json:"strength"`
	Variance    float64     `json:"variance"`
	EdgeDensity float64     `json:"edge_density"`
	TextureType TextureType `json:"texture_type"`
}

// textureRule is one row of the texture decision table. Rules are
// evaluated in order; the first match wins.
type textureRule struct {
	matches func(strength, edgeDensity float64) bool
	result  TextureType
}

var textureRules = []textureRule{
	{func(s, e float64) bool { return s > 50 && e > 0.1 }, TextureRough},
	{func(s, e float64) bool { return s > 30 && e > 0.05 }, TextureModeratelyRough},
	{func(s, e float64) bool { return s < 20 && e < 0.03 }, TextureSmooth},
}

// classifyTexture walks the ordered rule table; anything unmatched is
// "mixed".
func classifyTexture(strength, edgeDensity float64) TextureType {
	for _, rule := range textureRules {
		if rule.matches(strength, edgeDensity) {
			return rule.result
		}
	}
	return TextureMixed
}

// ExtractTextureFeatures computes gradient-magnitude statistics and edge
// density, then classifies the texture.
//
// A degenerate image yields zero statistics and a "smooth" label, which
// is what the rule table produces for an all-zero signal.
func ExtractTextureFeatures(img image.Image) TextureFeatures {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return TextureFeatures{TextureType: classifyTexture(0, 0)}
	}

	gray := grayscale(img)
	magnitude, _ := sobelGradients(gray, width, height)

	flat := make([]float64, 0, width*height)
	for _, row := range magnitude {
		flat = append(flat, row...)
	}
	strength := stat.Mean(flat, nil)
	variance := popVariance(flat)

	density := detectEdges(gray, width, height).density()

	return TextureFeatures{
		Strength:    strength,
		Variance:    variance,
		EdgeDensity: density,
		TextureType: classifyTexture(strength, density),
	}
}
