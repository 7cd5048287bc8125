package query

import (
	"context"
	"fmt"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// ListMovementsHandler reads the audit trail for one item, newest first.
type ListMovementsHandler struct {
	movements domain.MovementRepository
}

// NewListMovementsHandler creates a new list movements handler
func NewListMovementsHandler(movements domain.MovementRepository) *ListMovementsHandler {
	return &ListMovementsHandler{movements: movements}
}

// Handle executes the list movements query
func (h *ListMovementsHandler) Handle(ctx context.Context, itemID uint, limit, offset int) ([]domain.StockMovement, error) {
	if itemID == 0 {
		return nil, fmt.Errorf("item id is required")
	}

	return h.movements.FindByItem(ctx, itemID, limit, offset)
}
