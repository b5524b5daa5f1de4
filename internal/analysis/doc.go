// Package analysis turns extracted image features into structured
// engineering assessments.
//
// # Pipeline
//
// An Analyzer preprocesses the decoded image, extracts color, texture,
// and geometric features, and then runs the classifiers selected by the
// analysis Type: material matching against the catalog, rule-based
// structural component detection, and project progress estimation. The
// result is assembled through a ResultBuilder and serialized as JSON.
//
// # Determinism
//
// Every stochastic step draws from the *rand.Rand supplied in Options.
// Two runs over the same image with equally seeded sources produce
// identical results; Options.DisableJitter additionally removes the
// completion-percentage perturbation so the estimate is a pure function
// of the image.
package analysis
