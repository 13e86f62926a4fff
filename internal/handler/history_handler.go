package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/clipsave/tiktok-download-service-go/internal/models"
	"github.com/clipsave/tiktok-download-service-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryLister lists recent download history rows. *repository.Repository
// satisfies it.
type HistoryLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.DownloadHistoryRecord, error)
}

// HistoryHandler handles download-history queries.
type HistoryHandler struct {
	history HistoryLister
}

// NewHistoryHandler creates a new HistoryHandler instance.
func NewHistoryHandler(history HistoryLister) *HistoryHandler {
	return &HistoryHandler{
		history: history,
	}
}

// HandleRecent returns the most recent download history rows, newest first.
func (h *HistoryHandler) HandleRecent(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(c, http.StatusBadRequest, "Bad Request", "limit must be a positive integer", "")
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.history.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logger.Log.Error("failed to list download history",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		writeError(c, http.StatusInternalServerError, "Internal Server Error", "Failed to load download history", "")
		return
	}

	if records == nil {
		records = []models.DownloadHistoryRecord{}
	}
	c.JSON(http.StatusOK, records)
}
