package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// Threshold defaults applied when the inventory backend omits them.
const (
	DefaultMinStock = 50
	DefaultMaxStock = 200
)

// InventoryClient talks to the pharmacy inventory backend.
type InventoryClient struct {
	baseClient
}

// NewInventoryClient creates a client against the inventory base URL.
func NewInventoryClient(baseURL string, timeout time.Duration, logger *zap.Logger) *InventoryClient {
	return &InventoryClient{baseClient: newBaseClient(baseURL, timeout, logger)}
}

// medicineWire is the inventory backend's wire format. Field names are
// lower-cased by that backend, and thresholds may be absent.
type medicineWire struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	CurrentStock int      `json:"currentstock"`
	MinStock     int      `json:"minstock"`
	MaxStock     int      `json:"maxstock"`
	Disease      []string `json:"disease"`
	ExpiryDate   string   `json:"expirydate"`
	Price        float64  `json:"price"`
	Supplier     string   `json:"supplier"`
	LastRestock  string   `json:"lastrestock"`
}

type medicinesResponse struct {
	Success bool           `json:"success"`
	Data    []medicineWire `json:"data"`
}

// dateLayouts covers the formats the inventory backend has been seen using.
var dateLayouts = []string{time.RFC3339, "2006-01-02", "02-01-2006"}

func parseWireDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (w medicineWire) toModel() model.InventoryItem {
	category := w.Category
	if category == "" && len(w.Disease) > 0 {
		// Category falls back to the first listed condition
		category = w.Disease[0]
	}

	minStock := w.MinStock
	if minStock <= 0 {
		minStock = DefaultMinStock
	}
	maxStock := w.MaxStock
	if maxStock <= 0 {
		maxStock = DefaultMaxStock
	}

	return model.InventoryItem{
		Name:          w.Name,
		Category:      category,
		CurrentStock:  w.CurrentStock,
		MinStock:      minStock,
		MaxStock:      maxStock,
		Price:         w.Price,
		Supplier:      w.Supplier,
		ExpiryDate:    parseWireDate(w.ExpiryDate),
		LastRestocked: parseWireDate(w.LastRestock),
	}
}

func toWire(item model.InventoryItem) medicineWire {
	w := medicineWire{
		Name:         item.Name,
		Category:     item.Category,
		CurrentStock: item.CurrentStock,
		MinStock:     item.MinStock,
		MaxStock:     item.MaxStock,
		Price:        item.Price,
		Supplier:     item.Supplier,
	}
	if !item.ExpiryDate.IsZero() {
		w.ExpiryDate = item.ExpiryDate.Format("2006-01-02")
	}
	if !item.LastRestocked.IsZero() {
		w.LastRestock = item.LastRestocked.Format("2006-01-02")
	}
	return w
}

// ListMedicines fetches the full inventory, applying threshold and category
// defaults for records where the backend omits them.
func (c *InventoryClient) ListMedicines(ctx context.Context) ([]model.InventoryItem, error) {
	var resp medicinesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/medicines", nil, nil, &resp, "inventory.ListMedicines"); err != nil {
		return nil, err
	}

	items := make([]model.InventoryItem, 0, len(resp.Data))
	for _, w := range resp.Data {
		items = append(items, w.toModel())
	}

	c.logger.Debug("inventory fetched", zap.Int("count", len(items)))

	return items, nil
}

// AddMedicine creates a new inventory record.
func (c *InventoryClient) AddMedicine(ctx context.Context, item model.InventoryItem) error {
	return c.doJSON(ctx, http.MethodPost, "/medicines/add", nil, toWire(item), nil, "inventory.AddMedicine")
}

// UpdateMedicine updates an existing inventory record by name.
func (c *InventoryClient) UpdateMedicine(ctx context.Context, name string, item model.InventoryItem) error {
	return c.doJSON(ctx, http.MethodPut, "/medicines/"+url.PathEscape(name), nil, toWire(item), nil, "inventory.UpdateMedicine")
}
