// Package server exposes the analysis pipeline over HTTP.
//
// Routes live under /api/v1. The write endpoints accept a multipart
// upload in the "image" field, validate the extension and size at the
// boundary, archive the raw bytes, and hand the decoded image to the
// analyzer. Decode failures are client errors; only unexpected internal
// failures surface as 500s.
package server
