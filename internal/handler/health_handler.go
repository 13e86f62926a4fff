package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks datastore connectivity. *repository.Repository satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BrokerChecker reports message broker connectivity.
// *service.DownloadEventPublisher satisfies it.
type BrokerChecker interface {
	IsHealthy() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	repo Pinger
	// publisher is nil when event publishing is disabled.
	publisher BrokerChecker
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(repo Pinger, publisher BrokerChecker) *HealthHandler {
	return &HealthHandler{
		repo:      repo,
		publisher: publisher,
	}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks if the application is ready to serve traffic.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"database": "unhealthy",
			"error":    err.Error(),
			"time":     time.Now(),
		})
		return
	}

	if h.publisher != nil && !h.publisher.IsHealthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"database": "healthy",
			"rabbitmq": "unhealthy",
			"time":     time.Now(),
		})
		return
	}

	response := gin.H{
		"status":   "UP",
		"database": "healthy",
		"time":     time.Now(),
	}
	if h.publisher != nil {
		response["rabbitmq"] = "healthy"
	}
	c.JSON(http.StatusOK, response)
}
