package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// expiringSoonWindow is the forward window for the expiring-soon counter.
const expiringSoonWindow = 90 * 24 * time.Hour

// inventoryAPI is the slice of the inventory backend the engine consumes.
type inventoryAPI interface {
	ListMedicines(ctx context.Context) ([]model.InventoryItem, error)
	AddMedicine(ctx context.Context, item model.InventoryItem) error
	UpdateMedicine(ctx context.Context, name string, item model.InventoryItem) error
}

// InventoryService classifies stock levels, aggregates collection metrics
// and fronts the inventory backend for writes.
type InventoryService struct {
	inventory inventoryAPI
	logger    *zap.Logger
	now       func() time.Time
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(inventory inventoryAPI, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		logger:    logger,
		now:       time.Now,
	}
}

// Classify derives the stock level from the item's numeric fields. It is a
// pure, total function: derived on every call, never stored.
func Classify(item model.InventoryItem) model.StockLevel {
	if item.CurrentStock <= item.MinStock {
		return model.StockLow
	}
	if float64(item.CurrentStock) >= 0.9*float64(item.MaxStock) {
		return model.StockHigh
	}
	return model.StockNormal
}

// Summarize computes the aggregate metrics over the full collection in a
// single pass. Items expiring within 90 days of now count as expiring soon.
func Summarize(items []model.InventoryItem, now time.Time) model.InventorySummary {
	cutoff := now.Add(expiringSoonWindow)

	summary := model.InventorySummary{TotalItems: len(items)}
	for _, item := range items {
		if Classify(item) == model.StockLow {
			summary.LowStockCount++
		}
		summary.TotalValue += float64(item.CurrentStock) * item.Price
		if !item.ExpiryDate.IsZero() && !item.ExpiryDate.After(cutoff) && item.ExpiryDate.After(now) {
			summary.ExpiringSoonCount++
		}
	}
	return summary
}

// InventoryFilter is the simultaneous filter set over the visible list.
// Empty fields match everything; the populated ones compose with AND.
type InventoryFilter struct {
	Search   string
	Category string
	Level    model.StockLevel
}

// Filter returns the items matching every populated criterion.
func Filter(items []model.InventoryItem, f InventoryFilter) []model.InventoryItem {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	matched := make([]model.InventoryItem, 0, len(items))
	for _, item := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Category), search) {
			continue
		}
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if f.Level != "" && Classify(item) != f.Level {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

// List fetches the inventory from the backend.
func (s *InventoryService) List(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := s.inventory.ListMedicines(ctx)
	if err != nil {
		s.logger.Error("failed to list inventory", zap.Error(err))
		return nil, err
	}
	return items, nil
}

// Summary fetches the inventory and aggregates it.
func (s *InventoryService) Summary(ctx context.Context) (model.InventorySummary, error) {
	items, err := s.List(ctx)
	if err != nil {
		return model.InventorySummary{}, err
	}
	return Summarize(items, s.now()), nil
}

func validateItem(item model.InventoryItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("medicine name is required")
	}
	if item.CurrentStock < 0 {
		return fmt.Errorf("current stock must not be negative")
	}
	if item.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

// Add creates an item in the backend, then re-fetches the full list so the
// caller sees backend-computed fields rather than an optimistic local patch.
// The re-fetch is issued only after the write response is observed.
func (s *InventoryService) Add(ctx context.Context, item model.InventoryItem) ([]model.InventoryItem, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.inventory.AddMedicine(ctx, item); err != nil {
		s.logger.Error("failed to add medicine", zap.Error(err), zap.String("name", item.Name))
		return nil, err
	}

	s.logger.Info("medicine added", zap.String("name", item.Name))

	return s.List(ctx)
}

// Update modifies an item in the backend and re-fetches, with the same
// ordering guarantee as Add.
func (s *InventoryService) Update(ctx context.Context, name string, item model.InventoryItem) ([]model.InventoryItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("medicine name is required")
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.inventory.UpdateMedicine(ctx, name, item); err != nil {
		s.logger.Error("failed to update medicine", zap.Error(err), zap.String("name", name))
		return nil, err
	}

	s.logger.Info("medicine updated", zap.String("name", name))

	return s.List(ctx)
}
