package server

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the API routes onto a gin engine. The handler owns
// all route logic; this function only lays out the URL space.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = h.maxUploadBytes

	api := r.Group("/api/v1")
	{
		api.GET("/health", h.Health)
		api.GET("/analysis-types", h.AnalysisTypes)

		api.POST("/analyze", h.Analyze)
		api.POST("/identify-materials", h.IdentifyMaterials)
		api.POST("/document-progress", h.DocumentProgress)
		api.POST("/structural-analysis", h.StructuralAnalysis)
	}

	return r
}
