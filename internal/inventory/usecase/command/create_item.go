package command

import (
	"context"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/internal/inventory/validation"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

// CreateItemCommand represents the command to provision an inventory item.
// Creating the item at the destination location is the explicit prerequisite
// for transferring stock there.
type CreateItemCommand struct {
	ProductID       uint
	LocationID      uint
	CurrentStock    int
	ReservedStock   int
	MinimumStock    int
	MaximumStock    int
	ReorderPoint    int
	ReorderQuantity int
	UnitCost        float64
}

// CreateItemHandler handles item provisioning.
type CreateItemHandler struct {
	items   domain.ItemRepository
	gateway *validation.Gateway
	monitor monitoring.Monitor
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(items domain.ItemRepository, gateway *validation.Gateway, monitor monitoring.Monitor) *CreateItemHandler {
	return &CreateItemHandler{items: items, gateway: gateway, monitor: monitor}
}

// Handle executes the create item command
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand, actor domain.Actor) (*domain.InventoryItem, error) {
	item := &domain.InventoryItem{
		ProductID:       cmd.ProductID,
		LocationID:      cmd.LocationID,
		CurrentStock:    cmd.CurrentStock,
		ReservedStock:   cmd.ReservedStock,
		MinimumStock:    cmd.MinimumStock,
		MaximumStock:    cmd.MaximumStock,
		ReorderPoint:    cmd.ReorderPoint,
		ReorderQuantity: cmd.ReorderQuantity,
		UnitCost:        cmd.UnitCost,
		IsActive:        true,
	}

	if err := h.gateway.NewItem(item); err != nil {
		return nil, err
	}
	if !actor.CanAccess(cmd.LocationID) {
		h.monitor.RecordFailure("create_item", domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	if _, err := h.items.FindByProductAndLocation(ctx, cmd.ProductID, cmd.LocationID); err == nil {
		h.monitor.RecordFailure("create_item", domain.ErrDuplicateItem)
		return nil, domain.ErrDuplicateItem
	}

	if err := h.items.Create(ctx, item); err != nil {
		h.monitor.RecordFailure("create_item", err)
		return nil, err
	}

	h.monitor.RecordPatternSuccess("inventory.create_item")
	return item, nil
}
