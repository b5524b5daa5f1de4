package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// summaryInput carries the subset of a result that the summary and
// detailed-description generators read. Callers populate only the
// fields relevant to their analysis type.
type summaryInput struct {
	analysisType Type
	materials    []Material
	components   []StructuralComponent
	progress     *ProjectProgress
	methods      []string
}

const summaryItemLimit = 5

// generateSummary renders the sectioned plain-text summary attached to
// every result. Sections are emitted only for the data present, so a
// materials-only analysis produces a materials-only summary.
func generateSummary(in summaryInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s Analysis Summary ===\n\n", in.analysisType.DisplayName())

	if len(in.materials) > 0 {
		b.WriteString("Material Analysis:\n")
		fmt.Fprintf(&b, "Identified %d distinct material types:\n", len(in.materials))
		for i, m := range in.materials {
			if i == summaryItemLimit {
				break
			}
			fmt.Fprintf(&b, "  - %s - %s\n", m.Name, m.Location)
		}
		b.WriteString("\n")
	}

	if len(in.components) > 0 {
		b.WriteString("Structural Components:\n")
		fmt.Fprintf(&b, "Detected %d structural elements:\n", len(in.components))
		for i, c := range in.components {
			if i == summaryItemLimit {
				break
			}
			fmt.Fprintf(&b, "  - %s - %s\n", c.ComponentType, c.Material)
		}
		b.WriteString("\n")
	}

	if in.progress != nil {
		b.WriteString("Project Progress:\n")
		fmt.Fprintf(&b, "Phase: %s\n", in.progress.Phase)
		fmt.Fprintf(&b, "Completion: %.1f%%\n", in.progress.CompletionPercentage)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// generateDetailedDescription renders the multi-paragraph technical
// narrative used by the structural and comprehensive analyses.
func generateDetailedDescription(in summaryInput) string {
	paragraphs := []string{fmt.Sprintf(
		"This %s analysis provides comprehensive insights into the construction "+
			"characteristics, materials composition, and structural elements present "+
			"in the examined structure.",
		strings.ToLower(in.analysisType.DisplayName()),
	)}

	if len(in.materials) > 0 {
		names := make([]string, 0, len(in.materials))
		for _, m := range in.materials {
			names = append(names, m.Name)
		}
		if len(names) > 3 {
			names = names[:3]
		}
		paragraphs = append(paragraphs, fmt.Sprintf(
			"Material analysis reveals a composition primarily consisting of %s. "+
				"Each material contributes distinct structural and aesthetic properties "+
				"to the overall construction.",
			strings.Join(names, ", "),
		))
	}

	if len(in.components) > 0 {
		types := uniqueComponentTypes(in.components)
		if len(types) > 3 {
			types = types[:3]
		}
		paragraphs = append(paragraphs, fmt.Sprintf(
			"The structural system incorporates %d identifiable components, including %s. "+
				"These elements work in concert to provide load-bearing capacity and "+
				"structural stability.",
			len(in.components), strings.Join(types, ", "),
		))
	}

	if len(in.methods) > 0 {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"Construction methodology analysis indicates the use of %s. These techniques "+
				"are standard in modern civil engineering practice and ensure structural "+
				"integrity and longevity.",
			strings.Join(in.methods, ", "),
		))
	}

	return strings.Join(paragraphs, "\n\n")
}

// generateMaterialReport renders the line-oriented material breakdown
// used as the detailed description of a material identification run.
// Property keys are sorted so the report is stable across runs.
func generateMaterialReport(materials []Material) string {
	var b strings.Builder

	b.WriteString("MATERIAL ANALYSIS REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, m := range materials {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.ToUpper(m.Name))
		fmt.Fprintf(&b, "   Confidence: %.1f%%\n", m.Confidence*100)
		fmt.Fprintf(&b, "   Quantity: %s\n", m.Quantity)
		fmt.Fprintf(&b, "   Location: %s\n", m.Location)

		if len(m.Properties) > 0 {
			b.WriteString("   Properties:\n")
			keys := make([]string, 0, len(m.Properties))
			for k := range m.Properties {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, "     - %s: %s\n", k, m.Properties[k])
			}
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// generateProgressDescription renders the progress narrative as one
// sentence-joined paragraph.
func generateProgressDescription(p ProjectProgress) string {
	parts := []string{
		fmt.Sprintf("The project is currently in the %s phase", p.Phase),
		fmt.Sprintf("with an estimated %.1f%% completion rate", p.CompletionPercentage),
	}
	if len(p.CompletedElements) > 0 {
		parts = append(parts, "Completed work includes: "+strings.Join(p.CompletedElements, ", "))
	}
	if len(p.PlannedElements) > 0 {
		parts = append(parts, "Upcoming work involves: "+strings.Join(p.PlannedElements, ", "))
	}
	if len(p.ConstructionMethods) > 0 {
		parts = append(parts, "Construction methods employed: "+strings.Join(p.ConstructionMethods, ", "))
	}
	if len(p.Challenges) > 0 {
		parts = append(parts, "Identified challenges: "+strings.Join(p.Challenges, ", "))
	}
	return strings.Join(parts, ". ") + "."
}

// materialRecommendations flags low-confidence identifications for
// physical verification and appends the standing documentation advice.
func materialRecommendations(materials []Material) []string {
	recs := []string{}
	for _, m := range materials {
		if m.Confidence < 0.7 {
			recs = append(recs, fmt.Sprintf("Verify %s identification through physical testing", m.Name))
		}
	}
	recs = append(recs,
		"Ensure all materials meet project specifications and codes",
		"Maintain material certification documentation",
	)
	return recs
}

// progressRecommendations returns the standing advice attached to a
// progress analysis.
func progressRecommendations(phase string) []string {
	return []string{
		fmt.Sprintf("Continue monitoring %s phase progression", phase),
		"Maintain quality control for completed elements",
		"Prepare resources for upcoming planned elements",
	}
}

// structuralRecommendations derives engineering advice from the
// aggregated analysis data.
func structuralRecommendations(in summaryInput) []string {
	recs := []string{}

	if n := len(in.materials); n > 0 {
		var sum float64
		for _, m := range in.materials {
			sum += m.Confidence
		}
		if sum/float64(n) < 0.7 {
			recs = append(recs, "Consider performing additional material testing for more accurate identification and characterization.")
		}
	}

	for _, c := range in.components {
		cond := strings.ToLower(c.Condition)
		if cond == "poor" || cond == "deteriorated" {
			recs = append(recs, "Schedule detailed structural inspection for components showing signs of deterioration or distress.")
			break
		}
	}

	if in.progress != nil && len(in.progress.Challenges) > 0 {
		recs = append(recs, "Address identified construction challenges through engineering review and potential design modifications.")
	}

	recs = append(recs,
		"Maintain comprehensive documentation of all construction phases and material specifications.",
		"Ensure compliance with relevant building codes and engineering standards.",
	)
	return recs
}

// uniqueComponentTypes returns component types in first-seen order.
func uniqueComponentTypes(components []StructuralComponent) []string {
	seen := make(map[string]bool, len(components))
	types := []string{}
	for _, c := range components {
		if !seen[c.ComponentType] {
			seen[c.ComponentType] = true
			types = append(types, c.ComponentType)
		}
	}
	return types
}
