// Package handler provides HTTP request handlers for the application.
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

// respondError translates a service-layer error into the stable error
// envelope. Internal details are never leaked; the ffmpeg stderr excerpt is
// the one diagnostic deliberately passed through.
func respondError(c *gin.Context, err error) {
	path := c.Request.URL.Path

	switch e := err.(type) {
	case *service.InvalidURLError, *service.ValidationError:
		logger.Log.Warn("request rejected",
			zap.Error(err),
			zap.String("path", path),
		)
		writeError(c, http.StatusBadRequest, "Bad Request", err.Error(), "")
	case *service.NotFoundError:
		logger.Log.Warn("artifact vanished before streaming",
			zap.Error(err),
			zap.String("path", path),
		)
		writeError(c, http.StatusNotFound, "Not Found", "The requested file is no longer available, please retry", "")
	case *service.UpstreamError:
		logger.Log.Error("upstream failure",
			zap.Error(err),
			zap.String("path", path),
		)
		writeError(c, http.StatusBadGateway, "Bad Gateway", "The video source could not be reached", "")
	case *service.UpstreamTimeoutError:
		logger.Log.Error("upstream timeout",
			zap.Error(err),
			zap.String("path", path),
		)
		writeError(c, http.StatusGatewayTimeout, "Gateway Timeout", "The video source took too long to respond", "")
	case *service.TranscodeTimeoutError:
		logger.Log.Error("transcode timeout",
			zap.Error(err),
			zap.String("path", path),
		)
		writeError(c, http.StatusGatewayTimeout, "Gateway Timeout", "Media processing took too long", "")
	case *service.TranscodeError:
		logger.Log.Error("transcode failure",
			zap.Error(err),
			zap.String("path", path),
		)
		writeError(c, http.StatusInternalServerError, "Internal Server Error", "Media processing failed", e.Stderr)
	default:
		logger.Log.Error("unexpected error",
			zap.Error(err),
			zap.String("path", path),
		)
		writeError(c, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", "")
	}
}

func writeError(c *gin.Context, status int, title, message, details string) {
	c.JSON(status, models.ErrorResponse{
		Status:    status,
		Error:     title,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}
