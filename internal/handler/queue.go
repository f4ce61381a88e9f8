package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/service"
	"go.uber.org/zap"
)

// QueueHandler implements the doctor-side patient queue endpoints.
type QueueHandler struct {
	queue  *service.QueueService
	logger *zap.Logger
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(queue *service.QueueService, logger *zap.Logger) *QueueHandler {
	return &QueueHandler{
		queue:  queue,
		logger: logger,
	}
}

// List returns the provider's queue, optionally filtered by status, with
// the per-status counters recomputed from the full entry list.
func (h *QueueHandler) List(c *gin.Context) {
	providerID := c.GetString("session_provider_id")

	entries, err := h.queue.Load(c.Request.Context(), providerID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	status := c.DefaultQuery("status", "all")

	c.JSON(http.StatusOK, gin.H{
		"patients": service.FilterQueue(entries, status),
		"summary":  service.SummarizeQueue(entries),
	})
}

// Start moves a waiting consultation to in-progress.
func (h *QueueHandler) Start(c *gin.Context) {
	providerID := c.GetString("session_provider_id")

	entry, err := h.queue.Start(c.Request.Context(), providerID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Complete moves an in-progress consultation to completed.
func (h *QueueHandler) Complete(c *gin.Context) {
	providerID := c.GetString("session_provider_id")

	entry, err := h.queue.Complete(c.Request.Context(), providerID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
