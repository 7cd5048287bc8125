package query

import (
	"context"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// StockValueHandler reports the total value of active on-hand stock.
type StockValueHandler struct {
	items domain.ItemRepository
}

// NewStockValueHandler creates a new stock value handler
func NewStockValueHandler(items domain.ItemRepository) *StockValueHandler {
	return &StockValueHandler{items: items}
}

// Handle executes the stock value query
func (h *StockValueHandler) Handle(ctx context.Context) (float64, error) {
	return h.items.StockValue(ctx)
}
