// Package features turns a preprocessed image into quantitative feature
// sets: color composition, texture statistics, and line geometry.
//
// The three extractors are independent and stateless; each takes an
// image and returns a plain value. They share internal plumbing (the
// luminance conversion, Sobel gradients, and the two-threshold edge
// detector), so texture and geometry report edge density from the same
// detector.
//
// # Determinism
//
// Color clustering is the only randomized step. It takes an explicit
// *rand.Rand so callers can pin the seed; identical (image, seed) pairs
// produce identical features. Nothing in this package reads ambient
// global randomness.
//
// # Degenerate input
//
// A zero-area or featureless image never causes an error here. Each
// extractor returns neutral values (no dominant colors, zero gradient
// statistics, zero lines) and classification downstream simply emits
// fewer entities.
package features
