// Package imaging owns the decode boundary and preprocessing stage of the
// analysis pipeline.
//
// Decode turns uploaded bytes into an image.Image and is the only place a
// bad image aborts a request: everything past it degrades gracefully on
// weak signal instead of failing. Preprocess then normalizes the decoded
// image (size cap, denoise, local contrast equalization) so the feature
// extractors see consistent input regardless of camera or lighting.
//
// # Ownership
//
// Each analysis request decodes its own image; nothing in this package
// shares or caches pixel data between requests. The preprocessed image is
// treated as immutable from here on - every transform allocates a new
// image and the original is never written to.
//
// # Error Handling
//
// Decode wraps failures with ErrDecode so the HTTP layer can distinguish
// a client problem (unreadable upload, 400) from a server fault (500). A
// zero-area image is not an error at this layer: Preprocess passes it
// through and extractors yield neutral features for it.
package imaging
