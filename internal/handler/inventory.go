package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/service"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// InventoryHandler implements the pharmacy inventory endpoints.
type InventoryHandler struct {
	inventory *service.InventoryService
	logger    *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// inventoryItemView is one item with its derived stock classification. The
// classification is recomputed on every response, never stored.
type inventoryItemView struct {
	model.InventoryItem
	Status model.StockLevel `json:"status"`
}

func toViews(items []model.InventoryItem) []inventoryItemView {
	views := make([]inventoryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, inventoryItemView{InventoryItem: item, Status: service.Classify(item)})
	}
	return views
}

// List returns the inventory with the simultaneous search/category/status
// filters applied.
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	filtered := service.Filter(items, service.InventoryFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Level:    model.StockLevel(c.Query("status")),
	})

	c.JSON(http.StatusOK, gin.H{"medicines": toViews(filtered)})
}

// Summary returns the aggregate inventory metrics.
func (h *InventoryHandler) Summary(c *gin.Context) {
	summary, err := h.inventory.Summary(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Add creates an item and returns the re-fetched list.
func (h *InventoryHandler) Add(c *gin.Context) {
	var item model.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	items, err := h.inventory.Add(c.Request.Context(), item)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"medicines": toViews(items)})
}

// Update modifies an item by name and returns the re-fetched list.
func (h *InventoryHandler) Update(c *gin.Context) {
	var item model.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	items, err := h.inventory.Update(c.Request.Context(), c.Param("name"), item)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medicines": toViews(items)})
}
