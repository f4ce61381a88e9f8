package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// storePinger reports session store connectivity.
type storePinger interface {
	Ping(ctx context.Context) error
}

// aiHealth reports the AI collaborator's readiness.
type aiHealth interface {
	Health(ctx context.Context) (bool, error)
}

// HealthHandler implements the health check endpoint.
type HealthHandler struct {
	store  storePinger
	ai     aiHealth
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store storePinger, ai aiHealth, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		ai:     ai,
		logger: logger,
	}
}

// Check reports service health. The session store is required; the AI
// collaborator is reported but only degrades the status.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("health check failed: session store unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":        "unhealthy",
			"session_store": "disconnected",
			"error":         err.Error(),
		})
		return
	}

	status := "healthy"
	symptoms := "ready"
	if loaded, err := h.ai.Health(ctx); err != nil {
		status = "degraded"
		symptoms = "unreachable"
	} else if !loaded {
		status = "degraded"
		symptoms = "model not loaded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          status,
		"session_store":   "connected",
		"symptom_service": symptoms,
		"service":         "medibridge-backend",
		"version":         "1.0.0",
	})
}
