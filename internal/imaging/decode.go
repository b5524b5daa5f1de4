package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// ErrDecode indicates that the supplied bytes could not be interpreted as
// an image. It aborts the whole analysis; nothing downstream runs.
var ErrDecode = errors.New("image cannot be decoded")

// allowedExtensions lists the upload extensions accepted at the boundary.
// Decode support is wider (GIF decodes fine) but uploads are restricted to
// common photographic and bitmap formats.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// AllowedFilename reports whether the filename carries an accepted image
// extension. The check is case-insensitive.
func AllowedFilename(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// AllowedExtensions returns the accepted upload extensions in sorted
// order, without the leading dot.
func AllowedExtensions() []string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(exts)
	return exts
}

// Decode interprets raw bytes as an image.
//
// Returns the decoded image and the format name reported by the registered
// decoder ("png", "jpeg", "bmp", ...). A failure wraps ErrDecode so callers
// can map it to a client error rather than a server fault.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}

// Metadata describes a decoded image for inclusion in analysis results.
type Metadata struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Format      string  `json:"format"`
	Filename    string  `json:"filename"`
	AspectRatio float64 `json:"aspect_ratio"`
	TotalPixels int     `json:"total_pixels"`
}

// NewMetadata derives Metadata from a decoded image. AspectRatio is zero
// for a zero-height image rather than NaN.
func NewMetadata(img image.Image, format, filename string) Metadata {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	ratio := 0.0
	if h > 0 {
		ratio = float64(w) / float64(h)
	}
	return Metadata{
		Width:       w,
		Height:      h,
		Format:      format,
		Filename:    filename,
		AspectRatio: ratio,
		TotalPixels: w * h,
	}
}
