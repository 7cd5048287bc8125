package query

import (
	"context"
	"fmt"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// ItemView is an item together with its derived fields.
type ItemView struct {
	domain.InventoryItem
	AvailableStock int     `json:"available_stock"`
	TotalValue     float64 `json:"total_value"`
	StockStatus    string  `json:"stock_status"`
}

// NewItemView computes the derived fields for an item.
func NewItemView(item domain.InventoryItem) ItemView {
	return ItemView{
		InventoryItem:  item,
		AvailableStock: item.AvailableStock(),
		TotalValue:     item.TotalValue(),
		StockStatus:    item.StockStatus(),
	}
}

// GetItemHandler handles get item query
type GetItemHandler struct {
	items domain.ItemRepository
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(items domain.ItemRepository) *GetItemHandler {
	return &GetItemHandler{items: items}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(ctx context.Context, id uint) (*ItemView, error) {
	if id == 0 {
		return nil, fmt.Errorf("item id is required")
	}

	item, err := h.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := NewItemView(*item)
	return &view, nil
}
