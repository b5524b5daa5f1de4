package analysis

import (
	"image"
	"math/rand"
	"time"

	"github.com/insightstudio/structsight/internal/catalog"
	"github.com/insightstudio/structsight/internal/features"
	"github.com/insightstudio/structsight/internal/imaging"
	"github.com/insightstudio/structsight/internal/logger"
)

// Base confidence scores for analysis types whose confidence is not
// derived from individual detections.
const (
	progressConfidence      = 0.75
	comprehensiveConfidence = 0.70
)

// Analyzer runs the assessment pipeline for a single deployment. It is
// safe for concurrent use: each Analyze call derives its state from its
// arguments and the immutable catalog.
type Analyzer struct {
	cat *catalog.Catalog
	log *logger.Logger
	now func() time.Time
}

// Options tunes a single analysis run.
//
// Rand seeds every stochastic step (k-means restarts, completion
// jitter). Passing the same source yields byte-identical results for
// the same image. A nil Rand falls back to a time-seeded source.
// DisableJitter removes the completion perturbation entirely, which is
// what tests and repeatable batch jobs want.
type Options struct {
	Rand          *rand.Rand
	DisableJitter bool
}

// New returns an Analyzer backed by the given catalog. A nil logger is
// replaced with a no-op one.
func New(cat *catalog.Catalog, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Analyzer{cat: cat, log: log, now: time.Now}
}

// WithClock overrides the timestamp source. Tests use this to produce
// stable report timestamps.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Analyze runs the requested analysis type over a decoded image and
// returns the structured result.
func (a *Analyzer) Analyze(img image.Image, meta imaging.Metadata, typ Type, opts Options) *AnalysisResult {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	start := time.Now()
	processed := imaging.Preprocess(img)
	builder := NewResultBuilder(typ, a.now()).SetImageInfo(meta)

	var result *AnalysisResult
	switch typ {
	case TypeMaterialIdentification:
		result = a.analyzeMaterials(processed, builder, rng)
	case TypeProjectProgress:
		result = a.analyzeProgress(processed, builder, rng, !opts.DisableJitter)
	case TypeStructuralAnalysis:
		result = a.analyzeStructure(processed, builder, rng)
	default:
		result = a.analyzeComprehensive(processed, builder, rng)
	}

	a.log.Info("analysis complete",
		"type", string(typ),
		"filename", meta.Filename,
		"confidence", result.ConfidenceScore,
		"elapsed", time.Since(start).String(),
	)
	return result
}

func (a *Analyzer) analyzeMaterials(img image.Image, builder *ResultBuilder, rng *rand.Rand) *AnalysisResult {
	colors := features.ExtractColorFeatures(img, rng)
	texture := features.ExtractTextureFeatures(img)

	materials := MatchMaterials(a.cat, colors, texture)
	for _, m := range materials {
		builder.AddMaterial(m)
	}

	in := summaryInput{analysisType: TypeMaterialIdentification, materials: materials}
	builder.SetSummary(generateSummary(in))
	builder.SetDetailedDescription(generateMaterialReport(materials))
	builder.SetConfidenceScore(averageMaterialConfidence(materials))

	for _, rec := range materialRecommendations(materials) {
		builder.AddRecommendation(rec)
	}
	return builder.Build()
}

func (a *Analyzer) analyzeProgress(img image.Image, builder *ResultBuilder, rng *rand.Rand, jitter bool) *AnalysisResult {
	geo := features.ExtractGeometricFeatures(img)
	texture := features.ExtractTextureFeatures(img)
	colors := features.ExtractColorFeatures(img, rng)

	materials := MatchMaterials(a.cat, colors, texture)
	progress := EstimateProgress(a.cat, geo, texture, materials, rng, jitter)
	builder.SetProjectProgress(progress)

	in := summaryInput{analysisType: TypeProjectProgress, materials: materials, progress: &progress}
	builder.SetSummary(generateSummary(in))
	builder.SetDetailedDescription(generateProgressDescription(progress))
	builder.SetConfidenceScore(progressConfidence)

	for _, rec := range progressRecommendations(progress.Phase) {
		builder.AddRecommendation(rec)
	}
	return builder.Build()
}

func (a *Analyzer) analyzeStructure(img image.Image, builder *ResultBuilder, rng *rand.Rand) *AnalysisResult {
	geo := features.ExtractGeometricFeatures(img)
	texture := features.ExtractTextureFeatures(img)
	colors := features.ExtractColorFeatures(img, rng)

	components := ClassifyComponents(a.cat, geo, texture, colors)
	for _, c := range components {
		builder.AddStructuralComponent(c)
	}

	materials := MatchMaterials(a.cat, colors, texture)
	for _, m := range materials {
		builder.AddMaterial(m)
	}

	methods := make([]string, 0, len(components))
	for _, c := range components {
		methods = append(methods, c.ConstructionMethod)
	}

	in := summaryInput{
		analysisType: TypeStructuralAnalysis,
		materials:    materials,
		components:   components,
		methods:      methods,
	}
	builder.SetSummary(generateSummary(in))
	builder.SetDetailedDescription(generateDetailedDescription(in))

	if len(components) > 0 {
		var sum float64
		for _, c := range components {
			sum += c.Confidence
		}
		builder.SetConfidenceScore(sum / float64(len(components)))
	}

	for _, rec := range structuralRecommendations(in) {
		builder.AddRecommendation(rec)
	}
	return builder.Build()
}

func (a *Analyzer) analyzeComprehensive(img image.Image, builder *ResultBuilder, rng *rand.Rand) *AnalysisResult {
	colors := features.ExtractColorFeatures(img, rng)
	texture := features.ExtractTextureFeatures(img)
	geo := features.ExtractGeometricFeatures(img)

	materials := MatchMaterials(a.cat, colors, texture)
	for _, m := range materials {
		builder.AddMaterial(m)
	}

	components := ClassifyComponents(a.cat, geo, texture, colors)
	for _, c := range components {
		builder.AddStructuralComponent(c)
	}

	in := summaryInput{
		analysisType: TypeComprehensive,
		materials:    materials,
		components:   components,
	}
	builder.SetSummary(generateSummary(in))
	builder.SetDetailedDescription(generateDetailedDescription(in))
	builder.SetConfidenceScore(comprehensiveConfidence)

	return builder.Build()
}

func averageMaterialConfidence(materials []Material) float64 {
	if len(materials) == 0 {
		return 0
	}
	var sum float64
	for _, m := range materials {
		sum += m.Confidence
	}
	return sum / float64(len(materials))
}
