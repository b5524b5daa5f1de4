package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/insightstudio/structsight/internal/catalog"
	"github.com/insightstudio/structsight/internal/features"
)

// Completion estimates are clamped to [10,95]: a photographed site is
// never fresh ground and never quite finished. The jitter amplitude
// bounds the symmetric perturbation applied on top of the deterministic
// estimate.
const (
	completionFloor   = 10.0
	completionCeiling = 95.0
	completionJitter  = 5.0
)

// phaseRule is one row of the phase ladder, evaluated top to bottom.
type phaseRule struct {
	matches func(numLines int, regularity float64) bool
	phase   string
}

var phaseRules = []phaseRule{
	{func(n int, _ float64) bool { return n < 20 }, "foundation"},
	{func(n int, _ float64) bool { return n < 50 }, "framing"},
	{func(_ int, r float64) bool { return r > 0.6 }, "structural_work"},
	{func(_ int, r float64) bool { return r > 0.4 }, "exterior_finishing"},
	{func(_ int, _ float64) bool { return true }, "interior_work"},
}

// completedElementTiers maps regularity thresholds to the element
// categories considered complete. Higher regularity unlocks strictly
// more categories, so the output is monotonic in regularity.
var completedElementTiers = []struct {
	minRegularity float64
	elements      []string
}{
	{0.3, []string{"foundation", "structural frame"}},
	{0.5, []string{"primary beams", "column assembly"}},
	{0.7, []string{"floor slabs", "roof structure"}},
}

// EstimateProgress derives the project phase, completion percentage,
// and planning element lists from the extracted features.
//
// The completion percentage blends structural regularity with edge
// density and adds a bounded symmetric jitter when enabled; the jitter
// draws from rng so seeded pipelines stay reproducible, and disabling it
// makes the estimate fully deterministic regardless of seed.
func EstimateProgress(cat *catalog.Catalog, geo features.GeometricFeatures, texture features.TextureFeatures, materials []Material, rng *rand.Rand, jitter bool) ProjectProgress {
	reg := geo.StructuralRegularity

	completion := (reg*0.6 + math.Min(texture.EdgeDensity*10, 1.0)*0.4) * 100
	if jitter {
		completion += (rng.Float64()*2 - 1) * completionJitter
	}
	completion = math.Max(completionFloor, math.Min(completionCeiling, completion))

	phase := identifyPhase(geo.NumLines, reg)

	return ProjectProgress{
		Phase:                phase,
		CompletionPercentage: completion,
		CompletedElements:    completedElements(reg),
		PlannedElements:      plannedElements(cat, phase),
		MaterialsUsed:        materials,
		ConstructionMethods:  constructionMethods(reg, texture.TextureType),
		Timeline:             phaseTimeline(cat, phase),
		Challenges:           identifyChallenges(reg, texture.Strength),
	}
}

func identifyPhase(numLines int, regularity float64) string {
	for _, rule := range phaseRules {
		if rule.matches(numLines, regularity) {
			return rule.phase
		}
	}
	return "interior_work"
}

func completedElements(regularity float64) []string {
	elements := []string{}
	for _, tier := range completedElementTiers {
		if regularity > tier.minRegularity {
			elements = append(elements, tier.elements...)
		}
	}
	return elements
}

func plannedElements(cat *catalog.Catalog, phase string) []string {
	if p := cat.FindPhase(phase); p != nil && len(p.Planned) > 0 {
		return append([]string(nil), p.Planned...)
	}
	return []string{"final inspections"}
}

func constructionMethods(regularity float64, texture features.TextureType) []string {
	methods := []string{"standard construction practices"}
	if regularity > 0.6 {
		methods = append(methods, "cast-in-place concrete")
	}
	if texture == features.TextureSmooth {
		methods = append(methods, "formwork and finishing")
	}
	methods = append(methods, "reinforcement installation", "structural connections")
	return methods
}

func phaseTimeline(cat *catalog.Catalog, phase string) string {
	weeks := 5
	if p := cat.FindPhase(phase); p != nil && p.DurationWeeks > 0 {
		weeks = p.DurationWeeks
	}
	return fmt.Sprintf("Estimated phase duration: %d weeks", weeks)
}

func identifyChallenges(regularity, textureStrength float64) []string {
	challenges := []string{}
	if regularity < 0.4 {
		challenges = append(challenges, "Complex geometry requiring specialized formwork")
	}
	if textureStrength > 60 {
		challenges = append(challenges, "Surface preparation and finishing requirements")
	}
	if len(challenges) == 0 {
		challenges = append(challenges, "Standard construction considerations")
	}
	return challenges
}
