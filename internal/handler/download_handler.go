package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clipsave/tiktok-download-service-go/internal/models"
	"github.com/clipsave/tiktok-download-service-go/internal/service"
	"github.com/clipsave/tiktok-download-service-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DownloadHandler handles download requests.
type DownloadHandler struct {
	downloads *service.DownloadService
}

// NewDownloadHandler creates a new DownloadHandler instance.
func NewDownloadHandler(downloads *service.DownloadService) *DownloadHandler {
	return &DownloadHandler{
		downloads: downloads,
	}
}

// HandleDownload produces (or reuses) the transcoded artifact and streams
// it as an attachment. Errors after the headers are written can only be
// logged; the client sees a truncated body.
func (h *DownloadHandler) HandleDownload(c *gin.Context) {
	req := models.DownloadRequestDTO{
		VideoID:      c.Query("videoId"),
		Format:       c.Query("format"),
		Quality:      c.Query("quality"),
		SourceURL:    c.Query("sourceUrl"),
		ThumbnailURL: c.Query("thumbnailUrl"),
		Title:        c.Query("title"),
		Author:       c.Query("author"),
	}

	artifact, err := h.downloads.Serve(c.Request.Context(), &req, h.getClientIP(c), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Log.Info("streaming download",
		zap.String("videoId", req.VideoID),
		zap.String("format", req.Format),
		zap.String("quality", req.Quality),
		zap.Int64("sizeBytes", artifact.FileSizeBytes),
	)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	c.Header("Content-Type", artifact.ContentType)
	c.Header("Content-Length", strconv.FormatInt(artifact.FileSizeBytes, 10))
	c.File(artifact.FilePath)
}

func (h *DownloadHandler) getClientIP(c *gin.Context) string {
	// Check X-Forwarded-For header
	xff := c.GetHeader("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	xri := c.GetHeader("X-Real-IP")
	if xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	return c.ClientIP()
}
