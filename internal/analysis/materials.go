package analysis

import (
	"fmt"
	"math"

	"github.com/insightstudio/structsight/internal/catalog"
	"github.com/insightstudio/structsight/internal/features"
)

// A dominant color must cover strictly more than significantPercent of
// the image to produce a material. Confidence grows with coverage but is
// capped below certainty: these are heuristic identifications.
const (
	significantPercent = 10.0
	maxConfidence      = 0.95
)

// MatchMaterials maps the dominant colors onto catalog materials.
//
// Each significant dominant color is tested for containment against
// every range box of every catalog entry; among the boxes that contain
// it, the entry whose box center is Euclidean-nearest wins, with catalog
// order breaking ties. Colors contained by no box are simply skipped - a
// result with zero materials is legitimate, not an error.
func MatchMaterials(cat *catalog.Catalog, colors features.ColorFeatures, texture features.TextureFeatures) []Material {
	materials := make([]Material, 0, len(colors.DominantColors))

	for rank, dc := range colors.DominantColors {
		if dc.Percentage <= significantPercent {
			continue
		}
		name := matchMaterialByColor(cat, dc.RGB)
		if name == "" {
			continue
		}
		entry := cat.FindMaterial(name)

		props := make(map[string]string, len(entry.Properties))
		for k, v := range entry.Properties {
			props[k] = v
		}

		materials = append(materials, Material{
			Name:       name,
			Confidence: math.Min(maxConfidence, 0.5+dc.Percentage/100),
			Quantity:   fmt.Sprintf("%.1f%% of visible area", dc.Percentage),
			Location:   cat.LocationLabel(rank),
			Properties: props,
			ColorInfo:  fmt.Sprintf("RGB: [%d, %d, %d]", dc.RGB[0], dc.RGB[1], dc.RGB[2]),
			Texture:    string(texture.TextureType),
		})
	}

	return materials
}

// matchMaterialByColor returns the name of the catalog entry whose
// containing box center is nearest to rgb, or "" when no box contains
// it. The strict < comparison keeps the first entry in catalog order on
// exact distance ties.
func matchMaterialByColor(cat *catalog.Catalog, rgb [3]uint8) string {
	minDistance := math.Inf(1)
	matched := ""

	for _, entry := range cat.Materials {
		for _, box := range entry.Ranges {
			if !box.Contains(rgb) {
				continue
			}
			center := box.Center()
			dr := float64(rgb[0]) - center[0]
			dg := float64(rgb[1]) - center[1]
			db := float64(rgb[2]) - center[2]
			distance := math.Sqrt(dr*dr + dg*dg + db*db)
			if distance < minDistance {
				minDistance = distance
				matched = entry.Name
			}
		}
	}

	return matched
}

// primaryMaterial infers the material of the top dominant color,
// falling back to concrete when nothing matches.
func primaryMaterial(cat *catalog.Catalog, colors features.ColorFeatures) string {
	if len(colors.DominantColors) > 0 {
		if name := matchMaterialByColor(cat, colors.DominantColors[0].RGB); name != "" {
			return name
		}
	}
	return "concrete"
}
