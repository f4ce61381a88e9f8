package service

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/medibridge/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockInventoryAPI struct {
	mock.Mock
}

func (m *MockInventoryAPI) ListMedicines(ctx context.Context) ([]model.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryItem), args.Error(1)
}

func (m *MockInventoryAPI) AddMedicine(ctx context.Context, item model.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryAPI) UpdateMedicine(ctx context.Context, name string, item model.InventoryItem) error {
	args := m.Called(ctx, name, item)
	return args.Error(0)
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		item model.InventoryItem
		want model.StockLevel
	}{
		{"below minimum is low", model.InventoryItem{CurrentStock: 15, MinStock: 50, MaxStock: 200}, model.StockLow},
		{"exactly at minimum is low", model.InventoryItem{CurrentStock: 50, MinStock: 50, MaxStock: 200}, model.StockLow},
		{"just above minimum is normal", model.InventoryItem{CurrentStock: 51, MinStock: 50, MaxStock: 200}, model.StockNormal},
		{"just under 90 percent is normal", model.InventoryItem{CurrentStock: 179, MinStock: 50, MaxStock: 200}, model.StockNormal},
		{"exactly 90 percent is high", model.InventoryItem{CurrentStock: 180, MinStock: 50, MaxStock: 200}, model.StockHigh},
		{"at maximum is high", model.InventoryItem{CurrentStock: 200, MinStock: 50, MaxStock: 200}, model.StockHigh},
		{"over maximum is high", model.InventoryItem{CurrentStock: 250, MinStock: 50, MaxStock: 200}, model.StockHigh},
		{"zero stock is low", model.InventoryItem{CurrentStock: 0, MinStock: 50, MaxStock: 200}, model.StockLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.item))
		})
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	items := []model.InventoryItem{
		{Name: "Paracetamol", CurrentStock: 15, MinStock: 50, MaxStock: 200, Price: 10, ExpiryDate: now.AddDate(0, 0, 30)},
		{Name: "Ibuprofen", CurrentStock: 100, MinStock: 50, MaxStock: 200, Price: 5, ExpiryDate: now.AddDate(1, 0, 0)},
		{Name: "Amoxicillin", CurrentStock: 40, MinStock: 50, MaxStock: 200, Price: 20, ExpiryDate: now.AddDate(0, 0, -5)},
	}

	summary := Summarize(items, now)

	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 2, summary.LowStockCount)
	assert.InDelta(t, 15*10.0+100*5.0+40*20.0, summary.TotalValue, 0.001)
	// The already-expired item does not count as expiring soon
	assert.Equal(t, 1, summary.ExpiringSoonCount)
}

func TestSummarize_EmptyCollection(t *testing.T) {
	summary := Summarize(nil, time.Now())
	assert.Equal(t, model.InventorySummary{}, summary)
}

func TestSummarize_ExpiringSoonWindowEdge(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	inside := model.InventoryItem{Name: "A", CurrentStock: 100, MinStock: 50, MaxStock: 200, ExpiryDate: now.AddDate(0, 0, 90)}
	outside := model.InventoryItem{Name: "B", CurrentStock: 100, MinStock: 50, MaxStock: 200, ExpiryDate: now.AddDate(0, 0, 91)}

	summary := Summarize([]model.InventoryItem{inside, outside}, now)
	assert.Equal(t, 1, summary.ExpiringSoonCount)
}

func TestFilter_Composition(t *testing.T) {
	items := []model.InventoryItem{
		{Name: "Paracetamol", Category: "Fever", CurrentStock: 15, MinStock: 50, MaxStock: 200},
		{Name: "Ibuprofen", Category: "Fever", CurrentStock: 100, MinStock: 50, MaxStock: 200},
		{Name: "Cetirizine", Category: "Allergy", CurrentStock: 190, MinStock: 50, MaxStock: 200},
	}

	tests := []struct {
		name   string
		filter InventoryFilter
		want   []string
	}{
		{"empty filter matches everything", InventoryFilter{}, []string{"Paracetamol", "Ibuprofen", "Cetirizine"}},
		{"search matches name case-insensitively", InventoryFilter{Search: "PARA"}, []string{"Paracetamol"}},
		{"search matches category", InventoryFilter{Search: "allergy"}, []string{"Cetirizine"}},
		{"category filter", InventoryFilter{Category: "Fever"}, []string{"Paracetamol", "Ibuprofen"}},
		{"level filter", InventoryFilter{Level: model.StockLow}, []string{"Paracetamol"}},
		{"criteria compose with AND", InventoryFilter{Category: "Fever", Level: model.StockNormal}, []string{"Ibuprofen"}},
		{"no match yields empty", InventoryFilter{Search: "Insulin"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.filter)
			names := make([]string, 0, len(got))
			for _, item := range got {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestInventoryService_AddValidatesBeforeNetwork(t *testing.T) {
	api := new(MockInventoryAPI)
	service := NewInventoryService(api, zap.NewNop())

	tests := []struct {
		name string
		item model.InventoryItem
	}{
		{"missing name", model.InventoryItem{CurrentStock: 10, Price: 5}},
		{"negative stock", model.InventoryItem{Name: "X", CurrentStock: -1, Price: 5}},
		{"negative price", model.InventoryItem{Name: "X", CurrentStock: 10, Price: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Add(context.Background(), tt.item)
			assert.Error(t, err)
		})
	}

	// No backend call was ever made for an invalid item
	api.AssertNotCalled(t, "AddMedicine", mock.Anything, mock.Anything)
}

func TestInventoryService_AddRefetchesAfterWrite(t *testing.T) {
	api := new(MockInventoryAPI)
	service := NewInventoryService(api, zap.NewNop())

	item := model.InventoryItem{Name: "Paracetamol", CurrentStock: 100, Price: 10}
	refreshed := []model.InventoryItem{{Name: "Paracetamol", CurrentStock: 100, MinStock: 50, MaxStock: 200, Price: 10}}

	api.On("AddMedicine", mock.Anything, item).Return(nil)
	api.On("ListMedicines", mock.Anything).Return(refreshed, nil)

	got, err := service.Add(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, refreshed, got)

	api.AssertExpectations(t)
}

func TestInventoryService_UpdateRequiresName(t *testing.T) {
	api := new(MockInventoryAPI)
	service := NewInventoryService(api, zap.NewNop())

	_, err := service.Update(context.Background(), "  ", model.InventoryItem{Name: "X", CurrentStock: 1})
	assert.Error(t, err)
	api.AssertNotCalled(t, "UpdateMedicine", mock.Anything, mock.Anything, mock.Anything)
}

func TestProperty_ClassifyIsTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every item gets exactly one of the three levels", prop.ForAll(
		func(current, min, max int) bool {
			level := Classify(model.InventoryItem{CurrentStock: current, MinStock: min, MaxStock: max})
			switch level {
			case model.StockLow:
				return current <= min
			case model.StockHigh:
				return current > min && float64(current) >= 0.9*float64(max)
			case model.StockNormal:
				return current > min && float64(current) < 0.9*float64(max)
			}
			return false
		},
		gen.IntRange(0, 1000),
		gen.IntRange(0, 500),
		gen.IntRange(1, 1000),
	))

	properties.Property("filtered output is always a subset preserving order", prop.ForAll(
		func(stocks []int, level string) bool {
			items := make([]model.InventoryItem, len(stocks))
			for i, s := range stocks {
				items[i] = model.InventoryItem{Name: "Item", CurrentStock: s, MinStock: 50, MaxStock: 200}
			}
			got := Filter(items, InventoryFilter{Level: model.StockLevel(level)})
			if len(got) > len(items) {
				return false
			}
			for _, item := range got {
				if Classify(item) != model.StockLevel(level) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 300)),
		gen.OneConstOf("low", "normal", "high"),
	))

	properties.TestingRun(t)
}
