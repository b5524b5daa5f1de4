package analysis

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

var testTime = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"material_identification", TypeMaterialIdentification},
		{"project_progress", TypeProjectProgress},
		{"structural_analysis", TypeStructuralAnalysis},
		{"comprehensive", TypeComprehensive},
		{"", TypeComprehensive},
		{"bogus", TypeComprehensive},
		{"MATERIAL_IDENTIFICATION", TypeComprehensive},
	}

	for _, tt := range tests {
		if got := ParseType(tt.in); got != tt.want {
			t.Errorf("ParseType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResultBuilderTimestamp(t *testing.T) {
	result := NewResultBuilder(TypeComprehensive, testTime).Build()
	if result.Timestamp != "2025-06-15T10:30:00Z" {
		t.Errorf("timestamp = %q", result.Timestamp)
	}
}

func TestResultBuilderAccumulates(t *testing.T) {
	result := NewResultBuilder(TypeStructuralAnalysis, testTime).
		AddMaterial(Material{Name: "concrete", Confidence: 0.9}).
		AddMaterial(Material{Name: "steel", Confidence: 0.8}).
		AddStructuralComponent(StructuralComponent{ComponentType: "beam"}).
		SetSummary("summary text").
		SetDetailedDescription("detail text").
		AddRecommendation("first").
		AddRecommendation("second").
		SetConfidenceScore(0.85).
		Build()

	if len(result.Materials) != 2 {
		t.Errorf("materials = %d, want 2", len(result.Materials))
	}
	if len(result.StructuralComponents) != 1 {
		t.Errorf("components = %d, want 1", len(result.StructuralComponents))
	}
	if result.Summary != "summary text" || result.DetailedDescription != "detail text" {
		t.Error("descriptions not stored")
	}
	if len(result.Recommendations) != 2 || result.Recommendations[0] != "first" {
		t.Errorf("recommendations = %v", result.Recommendations)
	}
	if result.ConfidenceScore != 0.85 {
		t.Errorf("confidence = %v", result.ConfidenceScore)
	}
}

func TestResultBuilderBuildIsIdempotent(t *testing.T) {
	b := NewResultBuilder(TypeComprehensive, testTime).
		AddRecommendation("keep this")

	first := b.Build()
	second := b.Build()
	if first != second {
		t.Error("repeated Build returned different snapshots")
	}

	// Mutations after Build must not leak into the snapshot.
	b.AddRecommendation("post-build")
	b.SetConfidenceScore(0.99)
	if len(first.Recommendations) != 1 {
		t.Errorf("snapshot recommendations = %v, want 1 entry", first.Recommendations)
	}
	if first.ConfidenceScore != 0 {
		t.Errorf("snapshot confidence mutated to %v", first.ConfidenceScore)
	}
}

func TestResultBuilderEmptyRecommendations(t *testing.T) {
	result := NewResultBuilder(TypeComprehensive, testTime).Build()
	if result.Recommendations == nil {
		t.Error("recommendations should be an empty slice, not nil")
	}
}

func TestAnalysisResultJSONShape(t *testing.T) {
	result := NewResultBuilder(TypeMaterialIdentification, testTime).
		AddMaterial(Material{
			Name:       "concrete",
			Confidence: 0.9,
			Properties: map[string]string{"durability": "high"},
		}).
		SetSummary("s").
		Build()

	data, err := result.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}

	for _, key := range []string{"analysis_type", "timestamp", "image_info", "summary",
		"detailed_description", "recommendations", "confidence_score", "materials"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing JSON key %q", key)
		}
	}

	// Absent sections are omitted, not emitted as null.
	if _, ok := decoded["structural_components"]; ok {
		t.Error("empty structural_components serialized")
	}
	if _, ok := decoded["project_progress"]; ok {
		t.Error("empty project_progress serialized")
	}
	if strings.Contains(string(data), `"color_info"`) {
		t.Error("empty color_info serialized")
	}
}
