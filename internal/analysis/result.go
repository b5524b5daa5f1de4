package analysis

import (
	"encoding/json"
	"time"

	"github.com/insightstudio/structsight/internal/imaging"
)

// Type selects which classifiers run and which result fields are
// populated. All types share the same feature-extraction stages.
type Type string

const (
	TypeMaterialIdentification Type = "material_identification"
	TypeProjectProgress        Type = "project_progress"
	TypeStructuralAnalysis     Type = "structural_analysis"
	TypeComprehensive          Type = "comprehensive"
)

// ParseType maps a request selector to a Type. Unknown selectors fall
// back to comprehensive.
func ParseType(s string) Type {
	switch Type(s) {
	case TypeMaterialIdentification, TypeProjectProgress, TypeStructuralAnalysis, TypeComprehensive:
		return Type(s)
	default:
		return TypeComprehensive
	}
}

// DisplayName returns the human-readable name used in report headings.
func (t Type) DisplayName() string {
	switch t {
	case TypeMaterialIdentification:
		return "Material Identification"
	case TypeProjectProgress:
		return "Project Progress"
	case TypeStructuralAnalysis:
		return "Structural Analysis"
	default:
		return "Comprehensive"
	}
}

// Material is one identified construction material. Confidence is in
// [0,1]; Quantity and Location are descriptive labels, not measurements.
type Material struct {
	Name       string            `json:"name"`
	Confidence float64           `json:"confidence"`
	Quantity   string            `json:"quantity"`
	Location   string            `json:"location"`
	Properties map[string]string `json:"properties"`
	ColorInfo  string            `json:"color_info,omitempty"`
	Texture    string            `json:"texture,omitempty"`
}

// StructuralComponent is one classified structural element.
//
// Dimensions carry fixed illustrative values appropriate to the
// component type; they stand in for a dimensional-estimation model and
// must not be read as measurements.
type StructuralComponent struct {
	ComponentType      string             `json:"component_type"`
	Material           string             `json:"material"`
	Dimensions         map[string]float64 `json:"dimensions"`
	Location           string             `json:"location"`
	ConstructionMethod string             `json:"construction_method"`
	Condition          string             `json:"condition"`
	Confidence         float64            `json:"confidence"`
	NotableFeatures    []string           `json:"notable_features"`
}

// ProjectProgress describes the estimated state of the construction
// project visible in the image.
type ProjectProgress struct {
	Phase                string     `json:"phase"`
	CompletionPercentage float64    `json:"completion_percentage"`
	CompletedElements    []string   `json:"completed_elements"`
	PlannedElements      []string   `json:"planned_elements"`
	MaterialsUsed        []Material `json:"materials_used"`
	ConstructionMethods  []string   `json:"construction_methods"`
	Timeline             string     `json:"timeline,omitempty"`
	Challenges           []string   `json:"challenges"`
}

// AnalysisResult aggregates everything one analysis produced. Optional
// sections (materials, components, progress) are omitted from JSON when
// empty; scalar fields are always present.
type AnalysisResult struct {
	AnalysisType         Type                  `json:"analysis_type"`
	Timestamp            string                `json:"timestamp"`
	ImageInfo            imaging.Metadata      `json:"image_info"`
	Summary              string                `json:"summary"`
	DetailedDescription  string                `json:"detailed_description"`
	Recommendations      []string              `json:"recommendations"`
	ConfidenceScore      float64               `json:"confidence_score"`
	Materials            []Material            `json:"materials,omitempty"`
	StructuralComponents []StructuralComponent `json:"structural_components,omitempty"`
	ProjectProgress      *ProjectProgress      `json:"project_progress,omitempty"`
}

// ToJSON serializes the result with indentation for readability.
func (r *AnalysisResult) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ResultBuilder accumulates an AnalysisResult incrementally.
//
// Setters overwrite scalar fields and append to list fields. Build
// returns an immutable snapshot: repeated calls return the same value,
// and later setter calls do not alter a snapshot already returned.
type ResultBuilder struct {
	result AnalysisResult
	built  *AnalysisResult
}

// NewResultBuilder starts a builder for the given analysis type. The
// timestamp is supplied by the caller so tests can pin it.
func NewResultBuilder(analysisType Type, timestamp time.Time) *ResultBuilder {
	return &ResultBuilder{
		result: AnalysisResult{
			AnalysisType:    analysisType,
			Timestamp:       timestamp.Format(time.RFC3339),
			Recommendations: []string{},
		},
	}
}

func (b *ResultBuilder) SetImageInfo(info imaging.Metadata) *ResultBuilder {
	b.result.ImageInfo = info
	return b
}

func (b *ResultBuilder) AddMaterial(m Material) *ResultBuilder {
	b.result.Materials = append(b.result.Materials, m)
	return b
}

func (b *ResultBuilder) AddStructuralComponent(c StructuralComponent) *ResultBuilder {
	b.result.StructuralComponents = append(b.result.StructuralComponents, c)
	return b
}

func (b *ResultBuilder) SetProjectProgress(p ProjectProgress) *ResultBuilder {
	b.result.ProjectProgress = &p
	return b
}

func (b *ResultBuilder) SetSummary(s string) *ResultBuilder {
	b.result.Summary = s
	return b
}

func (b *ResultBuilder) SetDetailedDescription(d string) *ResultBuilder {
	b.result.DetailedDescription = d
	return b
}

func (b *ResultBuilder) AddRecommendation(rec string) *ResultBuilder {
	b.result.Recommendations = append(b.result.Recommendations, rec)
	return b
}

func (b *ResultBuilder) SetConfidenceScore(score float64) *ResultBuilder {
	b.result.ConfidenceScore = score
	return b
}

// Build returns the accumulated result. The first call freezes a deep
// copy; subsequent calls return the same snapshot.
func (b *ResultBuilder) Build() *AnalysisResult {
	if b.built != nil {
		return b.built
	}
	snapshot := b.result
	snapshot.Recommendations = append([]string(nil), b.result.Recommendations...)
	snapshot.Materials = append([]Material(nil), b.result.Materials...)
	snapshot.StructuralComponents = append([]StructuralComponent(nil), b.result.StructuralComponents...)
	if b.result.ProjectProgress != nil {
		progress := *b.result.ProjectProgress
		snapshot.ProjectProgress = &progress
	}
	if snapshot.Recommendations == nil {
		snapshot.Recommendations = []string{}
	}
	b.built = &snapshot
	return b.built
}
