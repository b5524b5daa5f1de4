package server

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/insightstudio/structsight/internal/analysis"
	"github.com/insightstudio/structsight/internal/imaging"
	"github.com/insightstudio/structsight/internal/logger"
)

const (
	serviceName    = "Civil Engineering Insight Studio"
	serviceVersion = "1.0.0"

	uploadFormField = "image"
	typeFormField   = "analysis_type"
)

// Handler serves the analysis API. Uploaded images are archived under
// uploadDir before analysis; archiving failures are logged but do not
// fail the request.
type Handler struct {
	analyzer       *analysis.Analyzer
	log            *logger.Logger
	uploadDir      string
	maxUploadBytes int64
	now            func() time.Time
	newRand        func() *rand.Rand
	disableJitter  bool
}

// HandlerConfig collects the knobs a Handler needs from the process
// configuration.
type HandlerConfig struct {
	UploadDir      string
	MaxUploadBytes int64
	Now            func() time.Time
	NewRand        func() *rand.Rand
	DisableJitter  bool
}

func NewHandler(analyzer *analysis.Analyzer, log *logger.Logger, cfg HandlerConfig) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newRand := cfg.NewRand
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &Handler{
		analyzer:       analyzer,
		log:            log,
		uploadDir:      cfg.UploadDir,
		maxUploadBytes: cfg.MaxUploadBytes,
		now:            now,
		newRand:        newRand,
		disableJitter:  cfg.DisableJitter,
	}
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	respondOK(c, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": h.now().Format(time.RFC3339),
	})
}

// AnalysisTypes lists the analysis types the service offers.
func (h *Handler) AnalysisTypes(c *gin.Context) {
	respondOK(c, gin.H{
		"analysis_types": []gin.H{
			{
				"id":          string(analysis.TypeMaterialIdentification),
				"name":        "Material Identification",
				"description": "Identify construction materials like concrete, steel, bricks",
			},
			{
				"id":          string(analysis.TypeProjectProgress),
				"name":        "Project Progress Documentation",
				"description": "Document construction progress and phases",
			},
			{
				"id":          string(analysis.TypeStructuralAnalysis),
				"name":        "Structural Analysis",
				"description": "Analyze structural components like beams, columns, trusses",
			},
			{
				"id":          string(analysis.TypeComprehensive),
				"name":        "Comprehensive Analysis",
				"description": "Complete analysis covering materials, progress, and structure",
			},
		},
	})
}

// Analyze runs the analysis type named in the form, defaulting to
// comprehensive for missing or unknown selectors.
func (h *Handler) Analyze(c *gin.Context) {
	typ := analysis.ParseType(c.PostForm(typeFormField))
	result, ok := h.runAnalysis(c, typ, "Analysis failed")
	if !ok {
		return
	}
	respondOK(c, gin.H{
		"success":  true,
		"analysis": result,
		"message":  "Analysis completed successfully",
	})
}

// IdentifyMaterials runs a material identification pass and returns the
// material-centric slice of the result.
func (h *Handler) IdentifyMaterials(c *gin.Context) {
	result, ok := h.runAnalysis(c, analysis.TypeMaterialIdentification, "Material identification failed")
	if !ok {
		return
	}
	respondOK(c, gin.H{
		"success":              true,
		"materials":            result.Materials,
		"summary":              result.Summary,
		"detailed_description": result.DetailedDescription,
		"recommendations":      result.Recommendations,
		"confidence_score":     result.ConfidenceScore,
	})
}

// DocumentProgress runs a project progress pass.
func (h *Handler) DocumentProgress(c *gin.Context) {
	result, ok := h.runAnalysis(c, analysis.TypeProjectProgress, "Progress documentation failed")
	if !ok {
		return
	}
	var materials []analysis.Material
	if result.ProjectProgress != nil {
		materials = result.ProjectProgress.MaterialsUsed
	}
	respondOK(c, gin.H{
		"success":              true,
		"project_progress":     result.ProjectProgress,
		"summary":              result.Summary,
		"detailed_description": result.DetailedDescription,
		"recommendations":      result.Recommendations,
		"materials":            materials,
	})
}

// StructuralAnalysis runs a structural component pass.
func (h *Handler) StructuralAnalysis(c *gin.Context) {
	result, ok := h.runAnalysis(c, analysis.TypeStructuralAnalysis, "Structural analysis failed")
	if !ok {
		return
	}
	respondOK(c, gin.H{
		"success":               true,
		"structural_components": result.StructuralComponents,
		"materials":             result.Materials,
		"summary":               result.Summary,
		"detailed_description":  result.DetailedDescription,
		"recommendations":       result.Recommendations,
		"confidence_score":      result.ConfidenceScore,
	})
}

// runAnalysis performs the shared upload-validate-decode-analyze flow.
// On failure it writes the error response and returns ok=false.
func (h *Handler) runAnalysis(c *gin.Context, typ analysis.Type, failLabel string) (*analysis.AnalysisResult, bool) {
	file, header, err := c.Request.FormFile(uploadFormField)
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image file provided", "Please upload an image file")
		return nil, false
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(c, http.StatusBadRequest, "No file selected", "Please select a file to upload")
		return nil, false
	}
	if !imaging.AllowedFilename(header.Filename) {
		respondError(c, http.StatusBadRequest, "Invalid file type",
			"Allowed types: "+strings.Join(imaging.AllowedExtensions(), ", "))
		return nil, false
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "File too large",
			fmt.Sprintf("Maximum upload size is %d bytes", h.maxUploadBytes))
		return nil, false
	}

	var reader io.Reader = file
	if h.maxUploadBytes > 0 {
		reader = io.LimitReader(file, h.maxUploadBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		respondError(c, http.StatusInternalServerError, failLabel, "could not read upload")
		return nil, false
	}
	if h.maxUploadBytes > 0 && int64(len(data)) > h.maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "File too large",
			fmt.Sprintf("Maximum upload size is %d bytes", h.maxUploadBytes))
		return nil, false
	}

	img, format, err := imaging.Decode(data)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid file",
			"The uploaded file could not be decoded as an image")
		return nil, false
	}

	h.archiveUpload(header, data)

	meta := imaging.NewMetadata(img, format, header.Filename)
	result := h.analyzer.Analyze(img, meta, typ, analysis.Options{
		Rand:          h.newRand(),
		DisableJitter: h.disableJitter,
	})
	return result, true
}

// archiveUpload writes the raw upload to the configured directory under
// a collision-free name.
func (h *Handler) archiveUpload(header *multipart.FileHeader, data []byte) {
	if h.uploadDir == "" {
		return
	}
	name := fmt.Sprintf("%s_%s%s",
		h.now().Format("20060102_150405"),
		uuid.NewString(),
		strings.ToLower(filepath.Ext(header.Filename)),
	)
	path := filepath.Join(h.uploadDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		h.log.Warn("failed to archive upload", "path", path, "error", err)
		return
	}
	h.log.Debug("archived upload", "path", path, "bytes", len(data))
}
