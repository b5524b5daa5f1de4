package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/insightstudio/structsight/internal/catalog"
	"github.com/insightstudio/structsight/internal/features"
)

func colorFeature(rgb [3]uint8, pct float64) features.DominantColor {
	return features.DominantColor{RGB: rgb, Percentage: pct}
}

func TestMatchMaterialsConcrete(t *testing.T) {
	cat := catalog.Default()
	colors := features.ColorFeatures{
		DominantColors: []features.DominantColor{
			colorFeature([3]uint8{130, 130, 130}, 65),
		},
	}
	texture := features.TextureFeatures{TextureType: features.TextureSmooth}

	materials := MatchMaterials(cat, colors, texture)
	if len(materials) != 1 {
		t.Fatalf("got %d materials, want 1", len(materials))
	}

	m := materials[0]
	if m.Name != "concrete" {
		t.Errorf("matched %q, want concrete", m.Name)
	}
	want := math.Min(0.95, 0.5+65.0/100)
	if math.Abs(m.Confidence-want) > 1e-9 {
		t.Errorf("confidence = %v, want %v", m.Confidence, want)
	}
	if m.Quantity != "65.0% of visible area" {
		t.Errorf("quantity = %q", m.Quantity)
	}
	if m.ColorInfo != "RGB: [130, 130, 130]" {
		t.Errorf("color info = %q", m.ColorInfo)
	}
	if m.Texture != "smooth" {
		t.Errorf("texture = %q, want smooth", m.Texture)
	}
	if m.Location != cat.LocationLabel(0) {
		t.Errorf("location = %q, want first label", m.Location)
	}
	if len(m.Properties) == 0 {
		t.Error("properties not copied from catalog")
	}
}

func TestMatchMaterialsConfidenceCapped(t *testing.T) {
	cat := catalog.Default()
	colors := features.ColorFeatures{
		DominantColors: []features.DominantColor{
			colorFeature([3]uint8{130, 130, 130}, 99),
		},
	}

	materials := MatchMaterials(cat, colors, features.TextureFeatures{})
	if len(materials) != 1 {
		t.Fatalf("got %d materials, want 1", len(materials))
	}
	if materials[0].Confidence != 0.95 {
		t.Errorf("confidence = %v, want capped at 0.95", materials[0].Confidence)
	}
}

func TestMatchMaterialsSignificanceThreshold(t *testing.T) {
	cat := catalog.Default()
	colors := features.ColorFeatures{
		DominantColors: []features.DominantColor{
			colorFeature([3]uint8{130, 130, 130}, 10), // exactly at threshold: excluded
			colorFeature([3]uint8{160, 75, 55}, 10.1), // just above: included
		},
	}

	materials := MatchMaterials(cat, colors, features.TextureFeatures{})
	if len(materials) != 1 {
		t.Fatalf("got %d materials, want 1", len(materials))
	}
	if materials[0].Name != "brick" {
		t.Errorf("matched %q, want brick", materials[0].Name)
	}
	// Location keeps the color's original rank, not its filtered position.
	if materials[0].Location != cat.LocationLabel(1) {
		t.Errorf("location = %q, want second label", materials[0].Location)
	}
}

func TestMatchMaterialsUnmatchedColorSkipped(t *testing.T) {
	cat := catalog.Default()
	colors := features.ColorFeatures{
		DominantColors: []features.DominantColor{
			colorFeature([3]uint8{0, 80, 255}, 90), // vivid blue: no catalog box
		},
	}

	materials := MatchMaterials(cat, colors, features.TextureFeatures{})
	if len(materials) != 0 {
		t.Errorf("got %v, want no materials", materials)
	}
}

func TestMatchMaterialByColorNearestCenter(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name string
		rgb  [3]uint8
		want string
	}{
		// Inside both concrete [100,180] and steel [150,200] boxes;
		// concrete center (140) is nearer than steel center (175).
		{"overlap resolved by distance", [3]uint8{155, 155, 155}, "concrete"},
		// Near the steel center.
		{"steel range", [3]uint8{178, 178, 178}, "steel"},
		{"brick range", [3]uint8{150, 75, 55}, "brick"},
		{"glass range", [3]uint8{230, 230, 230}, "glass"},
		{"no match", [3]uint8{10, 10, 10}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchMaterialByColor(cat, tt.rgb); got != tt.want {
				t.Errorf("matchMaterialByColor(%v) = %q, want %q", tt.rgb, got, tt.want)
			}
		})
	}
}

func TestPrimaryMaterialFallback(t *testing.T) {
	cat := catalog.Default()

	if got := primaryMaterial(cat, features.ColorFeatures{}); got != "concrete" {
		t.Errorf("empty features primary = %q, want concrete fallback", got)
	}

	colors := features.ColorFeatures{
		DominantColors: []features.DominantColor{colorFeature([3]uint8{0, 80, 255}, 50)},
	}
	if got := primaryMaterial(cat, colors); got != "concrete" {
		t.Errorf("unmatched color primary = %q, want concrete fallback", got)
	}

	colors = features.ColorFeatures{
		DominantColors: []features.DominantColor{colorFeature([3]uint8{178, 178, 178}, 50)},
	}
	if got := primaryMaterial(cat, colors); got != "steel" {
		t.Errorf("steel color primary = %q, want steel", got)
	}
}

func TestMatchMaterialsPropertiesCopied(t *testing.T) {
	cat := catalog.Default()
	colors := features.ColorFeatures{
		DominantColors: []features.DominantColor{colorFeature([3]uint8{130, 130, 130}, 50)},
	}

	materials := MatchMaterials(cat, colors, features.TextureFeatures{})
	if len(materials) != 1 {
		t.Fatalf("got %d materials, want 1", len(materials))
	}

	// Mutating the returned map must not reach the catalog.
	materials[0].Properties["tampered"] = "yes"
	entry := cat.FindMaterial("concrete")
	if _, ok := entry.Properties["tampered"]; ok {
		t.Error("material properties alias the catalog map")
	}
}

func TestMatchMaterialsQuantityFormat(t *testing.T) {
	cat := catalog.Default()
	colors := features.ColorFeatures{
		DominantColors: []features.DominantColor{colorFeature([3]uint8{130, 130, 130}, 33.333)},
	}

	materials := MatchMaterials(cat, colors, features.TextureFeatures{})
	if len(materials) != 1 {
		t.Fatalf("got %d materials, want 1", len(materials))
	}
	if !strings.HasPrefix(materials[0].Quantity, "33.3%") {
		t.Errorf("quantity = %q, want one decimal place", materials[0].Quantity)
	}
}
