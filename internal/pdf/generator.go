package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/medibridge/backend/internal/service"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator generates the pharmacy stock report
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for report generation
type ReportData struct {
	PharmacyName string
	Items        []model.InventoryItem
	Summary      model.InventorySummary
}

// Generate creates a PDF stock report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating inventory report",
		zap.String("pharmacy_name", data.PharmacyName),
		zap.Int("item_count", len(data.Items)),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	g.addTitle(pdf, "Inventory Stock Report", data.PharmacyName)
	g.addSummary(pdf, data.Summary)
	g.addLowStockAlerts(pdf, data.Items)
	g.addItemList(pdf, data.Items)

	// Generate PDF bytes
	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("inventory report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, pharmacyName string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	if pharmacyName != "" {
		pdf.CellFormat(0, 8, fmt.Sprintf("Pharmacy: %s", pharmacyName), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addSummary adds the aggregate metrics section
func (g *PDFGenerator) addSummary(pdf *gofpdf.Fpdf, summary model.InventorySummary) {
	g.addSectionHeader(pdf, "Summary")

	pdf.CellFormat(0, 6, fmt.Sprintf("Total items: %d", summary.TotalItems), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Low stock items: %d", summary.LowStockCount), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total inventory value: %.2f", summary.TotalValue), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Expiring within 90 days: %d", summary.ExpiringSoonCount), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

// addLowStockAlerts adds the low stock section
func (g *PDFGenerator) addLowStockAlerts(pdf *gofpdf.Fpdf, items []model.InventoryItem) {
	g.addSectionHeader(pdf, "Low Stock Alerts")

	low := 0
	for _, item := range items {
		if service.Classify(item) != model.StockLow {
			continue
		}
		low++
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, item.Name, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Current stock: %d (minimum %d)", item.CurrentStock, item.MinStock), "", 1, "L", false, 0, "")
		if item.Supplier != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Supplier: %s", item.Supplier), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	if low == 0 {
		pdf.CellFormat(0, 8, "No items below their minimum stock level.", "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addItemList adds the full inventory listing
func (g *PDFGenerator) addItemList(pdf *gofpdf.Fpdf, items []model.InventoryItem) {
	g.addSectionHeader(pdf, "Inventory")

	if len(items) == 0 {
		pdf.CellFormat(0, 8, "No items in inventory.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, item := range items {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s)", item.Name, service.Classify(item)), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Category: %s", item.Category), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("  Stock: %d (min %d / max %d)", item.CurrentStock, item.MinStock, item.MaxStock), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("  Price: %.2f", item.Price), "", 1, "L", false, 0, "")
		if !item.ExpiryDate.IsZero() {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Expires: %s", item.ExpiryDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}
	pdf.Ln(5)
}
