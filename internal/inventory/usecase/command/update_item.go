package command

import (
	"context"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/internal/inventory/validation"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

// UpdateItemCommand patches item metadata. Stock counters are deliberately
// absent: those change only through the ledger.
type UpdateItemCommand struct {
	ItemID          uint
	MinimumStock    *int
	MaximumStock    *int
	ReorderPoint    *int
	ReorderQuantity *int
	UnitCost        *float64
}

// UpdateItemHandler handles metadata updates.
type UpdateItemHandler struct {
	items   domain.ItemRepository
	gateway *validation.Gateway
	monitor monitoring.Monitor
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(items domain.ItemRepository, gateway *validation.Gateway, monitor monitoring.Monitor) *UpdateItemHandler {
	return &UpdateItemHandler{items: items, gateway: gateway, monitor: monitor}
}

// Handle executes the update item command
func (h *UpdateItemHandler) Handle(ctx context.Context, cmd UpdateItemCommand, actor domain.Actor) (*domain.InventoryItem, error) {
	item, err := h.items.FindByID(ctx, cmd.ItemID)
	if err != nil {
		h.monitor.RecordFailure("update_item", err)
		return nil, err
	}
	if !actor.CanAccess(item.LocationID) {
		h.monitor.RecordFailure("update_item", domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	if cmd.MinimumStock != nil {
		item.MinimumStock = *cmd.MinimumStock
	}
	if cmd.MaximumStock != nil {
		item.MaximumStock = *cmd.MaximumStock
	}
	if cmd.ReorderPoint != nil {
		item.ReorderPoint = *cmd.ReorderPoint
	}
	if cmd.ReorderQuantity != nil {
		item.ReorderQuantity = *cmd.ReorderQuantity
	}
	if cmd.UnitCost != nil {
		item.UnitCost = *cmd.UnitCost
	}

	if err := h.gateway.ItemThresholds(item.MinimumStock, item.MaximumStock, item.ReorderPoint, item.ReorderQuantity, item.UnitCost); err != nil {
		return nil, err
	}

	if err := h.items.Update(ctx, item); err != nil {
		h.monitor.RecordFailure("update_item", err)
		return nil, err
	}

	h.monitor.RecordPatternSuccess("inventory.update_item")
	return item, nil
}
