package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory-service/pkg/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	service string
	backend Pinger
	timeout time.Duration
	log     *zap.Logger
}

// NewHealthHandler creates a health handler probing backend.
func NewHealthHandler(service string, backend Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		backend: backend,
		timeout: 2 * time.Second,
		log:     log,
	}
}

// Check pings the storage backend.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.backend.Ping(ctx); err != nil {
		logger.WithContext(ctx, h.log).Warn("health check failed", zap.Error(err))
		c.Header("Retry-After", RetryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": h.service,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}
