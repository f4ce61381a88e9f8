package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/pdf"
	"github.com/medibridge/backend/internal/service"
	"go.uber.org/zap"
)

// ReportHandler generates the pharmacy stock report.
type ReportHandler struct {
	inventory *service.InventoryService
	generator *pdf.PDFGenerator
	logger    *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(inventory *service.InventoryService, generator *pdf.PDFGenerator, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		inventory: inventory,
		generator: generator,
		logger:    logger,
	}
}

// Inventory streams the current stock report as a PDF.
func (h *ReportHandler) Inventory(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	report, err := h.generator.Generate(&pdf.ReportData{
		PharmacyName: c.Query("pharmacy"),
		Items:        items,
		Summary:      service.Summarize(items, time.Now()),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="inventory-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", report)
}
