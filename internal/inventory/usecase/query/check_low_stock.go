package query

import (
	"context"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// CheckLowStockHandler lists active items at or below their minimum stock.
type CheckLowStockHandler struct {
	items domain.ItemRepository
}

// NewCheckLowStockHandler creates a new check low stock handler
func NewCheckLowStockHandler(items domain.ItemRepository) *CheckLowStockHandler {
	return &CheckLowStockHandler{items: items}
}

// Handle executes the check low stock query
func (h *CheckLowStockHandler) Handle(ctx context.Context) ([]ItemView, error) {
	items, err := h.items.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = NewItemView(item)
	}
	return views, nil
}
