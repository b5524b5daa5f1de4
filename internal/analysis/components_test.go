package analysis

import (
	"testing"

	"github.com/insightstudio/structsight/internal/catalog"
	"github.com/insightstudio/structsight/internal/features"
)

func componentTypes(components []StructuralComponent) map[string]StructuralComponent {
	byType := make(map[string]StructuralComponent, len(components))
	for _, c := range components {
		byType[c.ComponentType] = c
	}
	return byType
}

func TestClassifyComponentsFramedStructure(t *testing.T) {
	cat := catalog.Default()
	geo := features.GeometricFeatures{
		NumLines:             80,
		StructuralRegularity: 0.9,
		DominantOrientations: []features.Orientation{{AngleDeg: 0, Count: 40}, {AngleDeg: 90, Count: 40}},
	}
	texture := features.TextureFeatures{TextureType: features.TextureRough}
	colors := features.ColorFeatures{
		DominantColors: []features.DominantColor{{RGB: [3]uint8{130, 130, 130}, Percentage: 60}},
	}

	components := ClassifyComponents(cat, geo, texture, colors)
	byType := componentTypes(components)

	beam, ok := byType["beam"]
	if !ok {
		t.Fatal("no beam detected for framed structure")
	}
	if beam.Confidence != 0.75 {
		t.Errorf("beam confidence = %v, want 0.75", beam.Confidence)
	}
	if beam.Material != "concrete" {
		t.Errorf("beam material = %q, want concrete", beam.Material)
	}

	column, ok := byType["column"]
	if !ok {
		t.Fatal("no column detected for framed structure")
	}
	if column.Confidence != 0.80 {
		t.Errorf("column confidence = %v, want 0.80", column.Confidence)
	}

	// Rough texture and two orientation families: no truss, no wall.
	if _, ok := byType["truss"]; ok {
		t.Error("unexpected truss with only two orientation families")
	}
	if _, ok := byType["wall"]; ok {
		t.Error("unexpected wall with rough texture")
	}
}

func TestClassifyComponentsTruss(t *testing.T) {
	cat := catalog.Default()
	geo := features.GeometricFeatures{
		NumLines: 30,
		DominantOrientations: []features.Orientation{
			{AngleDeg: 0, Count: 10},
			{AngleDeg: 45, Count: 10},
			{AngleDeg: 90, Count: 10},
		},
	}
	texture := features.TextureFeatures{TextureType: features.TextureRough}

	components := ClassifyComponents(cat, geo, texture, features.ColorFeatures{})
	byType := componentTypes(components)

	truss, ok := byType["truss"]
	if !ok {
		t.Fatal("no truss for three orientation families")
	}
	if truss.Confidence != 0.70 {
		t.Errorf("truss confidence = %v, want 0.70", truss.Confidence)
	}
	if truss.Material != "structural steel" {
		t.Errorf("truss material = %q, want structural steel", truss.Material)
	}
}

func TestClassifyComponentsWall(t *testing.T) {
	cat := catalog.Default()

	for _, tt := range []features.TextureType{features.TextureSmooth, features.TextureModeratelyRough} {
		t.Run(string(tt), func(t *testing.T) {
			texture := features.TextureFeatures{TextureType: tt}
			components := ClassifyComponents(cat, features.GeometricFeatures{}, texture, features.ColorFeatures{})
			byType := componentTypes(components)

			wall, ok := byType["wall"]
			if !ok {
				t.Fatal("no wall for continuous surface texture")
			}
			if wall.Confidence != 0.72 {
				t.Errorf("wall confidence = %v, want 0.72", wall.Confidence)
			}
		})
	}
}

func TestClassifyComponentsRulesAreAdditive(t *testing.T) {
	cat := catalog.Default()
	geo := features.GeometricFeatures{
		NumLines:             100,
		StructuralRegularity: 0.8,
		DominantOrientations: []features.Orientation{
			{AngleDeg: 0, Count: 50},
			{AngleDeg: 45, Count: 25},
			{AngleDeg: 90, Count: 25},
		},
	}
	texture := features.TextureFeatures{TextureType: features.TextureSmooth}

	components := ClassifyComponents(cat, geo, texture, features.ColorFeatures{})
	byType := componentTypes(components)

	for _, want := range []string{"beam", "column", "truss", "wall"} {
		if _, ok := byType[want]; !ok {
			t.Errorf("missing %s when all rules match", want)
		}
	}
}

func TestClassifyComponentsFeatureless(t *testing.T) {
	cat := catalog.Default()
	texture := features.TextureFeatures{TextureType: features.TextureMixed}

	components := ClassifyComponents(cat, features.GeometricFeatures{}, texture, features.ColorFeatures{})
	if len(components) != 0 {
		t.Errorf("featureless input produced components: %v", components)
	}
}

func TestClassifyComponentsBoundaries(t *testing.T) {
	cat := catalog.Default()
	texture := features.TextureFeatures{TextureType: features.TextureRough}

	// Exactly 50 lines or exactly 0.5 regularity: not a framed structure.
	tests := []struct {
		name       string
		numLines   int
		regularity float64
		wantFrame  bool
	}{
		{"at line threshold", 50, 0.9, false},
		{"at regularity threshold", 80, 0.5, false},
		{"just above both", 51, 0.51, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := features.GeometricFeatures{
				NumLines:             tt.numLines,
				StructuralRegularity: tt.regularity,
			}
			components := ClassifyComponents(cat, geo, texture, features.ColorFeatures{})
			_, hasBeam := componentTypes(components)["beam"]
			if hasBeam != tt.wantFrame {
				t.Errorf("beam detected = %v, want %v", hasBeam, tt.wantFrame)
			}
		})
	}
}
