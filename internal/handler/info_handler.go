package handler

import (
	"net/http"
	"time"

	"github.com/clipsave/tiktok-download-service-go/internal/models"
	"github.com/clipsave/tiktok-download-service-go/internal/service"
	"github.com/clipsave/tiktok-download-service-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InfoHandler handles video info requests.
type InfoHandler struct {
	metadata *service.MetadataService
}

// NewInfoHandler creates a new InfoHandler instance.
func NewInfoHandler(metadata *service.MetadataService) *InfoHandler {
	return &InfoHandler{
		metadata: metadata,
	}
}

// HandleInfo resolves a pasted URL into video metadata. Upstream failures
// are absorbed into degraded metadata by the service, so this endpoint only
// errors on malformed input.
func (h *InfoHandler) HandleInfo(c *gin.Context) {
	var body models.InfoRequestDTO

	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Log.Warn("invalid info request payload",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:    http.StatusBadRequest,
			Error:     "Bad Request",
			Message:   "Invalid request payload: " + err.Error(),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	meta, err := h.metadata.FetchMetadata(c.Request.Context(), body.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, meta)
}
