package command

import (
	"context"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

// DeactivateItemHandler soft-deletes an item. The row and its movements stay;
// only is_active flips, and the ledger refuses further mutations.
type DeactivateItemHandler struct {
	items   domain.ItemRepository
	monitor monitoring.Monitor
}

// NewDeactivateItemHandler creates a new deactivate item handler
func NewDeactivateItemHandler(items domain.ItemRepository, monitor monitoring.Monitor) *DeactivateItemHandler {
	return &DeactivateItemHandler{items: items, monitor: monitor}
}

// Handle executes the deactivate item command
func (h *DeactivateItemHandler) Handle(ctx context.Context, itemID uint, actor domain.Actor) error {
	item, err := h.items.FindByID(ctx, itemID)
	if err != nil {
		h.monitor.RecordFailure("deactivate_item", err)
		return err
	}
	if !actor.CanAccess(item.LocationID) {
		h.monitor.RecordFailure("deactivate_item", domain.ErrUnauthorized)
		return domain.ErrUnauthorized
	}

	if err := h.items.Deactivate(ctx, itemID); err != nil {
		h.monitor.RecordFailure("deactivate_item", err)
		return err
	}

	h.monitor.RecordPatternSuccess("inventory.deactivate_item")
	return nil
}
