package analysis

import (
	"github.com/insightstudio/structsight/internal/catalog"
	"github.com/insightstudio/structsight/internal/features"
)

// componentInputs gathers the signals the component rule table reads.
type componentInputs struct {
	numLines        int
	regularity      float64
	orientationBins int
	textureType     features.TextureType
	primaryMaterial string
}

// componentRule is one row of the component decision table. Rules are
// additive: every matching rule emits its components, so one image can
// yield several component types.
type componentRule struct {
	matches func(in componentInputs) bool
	emit    func(in componentInputs) []StructuralComponent
}

// componentRules encodes the classifier. Dimensions, conditions, and
// notable features are fixed illustrative values per component type -
// placeholders for a dimensional-estimation model, not measurements.
var componentRules = []componentRule{
	{
		// Many lines with strong horizontal/vertical alignment read as
		// a framed structure: spanning beams plus supporting columns.
		matches: func(in componentInputs) bool {
			return in.numLines > 50 && in.regularity > 0.5
		},
		emit: func(in componentInputs) []StructuralComponent {
			return []StructuralComponent{
				{
					ComponentType:      "beam",
					Material:           in.primaryMaterial,
					Dimensions:         map[string]float64{"length": 10.5, "width": 0.4, "height": 0.6},
					Location:           "horizontal spanning elements",
					ConstructionMethod: "cast-in-place concrete",
					Condition:          "good",
					Confidence:         0.75,
					NotableFeatures:    []string{"regular spacing", "load-bearing"},
				},
				{
					ComponentType:      "column",
					Material:           in.primaryMaterial,
					Dimensions:         map[string]float64{"height": 4.2, "width": 0.4, "depth": 0.4},
					Location:           "vertical support elements",
					ConstructionMethod: "reinforced concrete",
					Condition:          "excellent",
					Confidence:         0.80,
					NotableFeatures:    []string{"vertical alignment", "primary support"},
				},
			}
		},
	},
	{
		// Three or more distinct orientation families suggest
		// triangulated members.
		matches: func(in componentInputs) bool {
			return in.orientationBins > 2
		},
		emit: func(in componentInputs) []StructuralComponent {
			return []StructuralComponent{
				{
					ComponentType:      "truss",
					Material:           "structural steel",
					Dimensions:         map[string]float64{"span": 15.0, "depth": 2.5},
					Location:           "roof/bridge structural system",
					ConstructionMethod: "welded steel assembly",
					Condition:          "good",
					Confidence:         0.70,
					NotableFeatures:    []string{"triangulated pattern", "efficient load distribution"},
				},
			}
		},
	},
	{
		// Smooth or moderately rough continuous surface reads as a
		// wall or slab face.
		matches: func(in componentInputs) bool {
			return in.textureType == features.TextureSmooth || in.textureType == features.TextureModeratelyRough
		},
		emit: func(in componentInputs) []StructuralComponent {
			return []StructuralComponent{
				{
					ComponentType:      "wall",
					Material:           in.primaryMaterial,
					Dimensions:         map[string]float64{"length": 8.0, "height": 3.5, "thickness": 0.25},
					Location:           "vertical enclosure elements",
					ConstructionMethod: "masonry/concrete construction",
					Condition:          "good",
					Confidence:         0.72,
					NotableFeatures:    []string{"continuous surface", "load distribution"},
				},
			}
		},
	},
}

// ClassifyComponents applies the component decision table to the
// extracted features. The table is additive, so the output can be empty
// (featureless image) or carry several component types at once.
func ClassifyComponents(cat *catalog.Catalog, geo features.GeometricFeatures, texture features.TextureFeatures, colors features.ColorFeatures) []StructuralComponent {
	in := componentInputs{
		numLines:        geo.NumLines,
		regularity:      geo.StructuralRegularity,
		orientationBins: len(geo.DominantOrientations),
		textureType:     texture.TextureType,
		primaryMaterial: primaryMaterial(cat, colors),
	}

	components := make([]StructuralComponent, 0, 4)
	for _, rule := range componentRules {
		if rule.matches(in) {
			components = append(components, rule.emit(in)...)
		}
	}
	return components
}
