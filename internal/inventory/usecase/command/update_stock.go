package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/internal/inventory/validation"
	"github.com/oakbarn/farmstand/pkg/logger"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

// UpdateStockCommand represents one ledger mutation.
type UpdateStockCommand struct {
	ItemID    uint
	Operation string
	Quantity  int
	Reason    string
}

// UpdateStockHandler is the stock ledger: the only writer of the per-item
// stock counter. Every successful mutation appends exactly one movement with
// the stock value before and after.
type UpdateStockHandler struct {
	items     domain.ItemRepository
	movements domain.MovementRepository
	gateway   *validation.Gateway
	monitor   monitoring.Monitor
	notifier  domain.WorkflowNotifier
}

// NewUpdateStockHandler creates a new update stock handler
func NewUpdateStockHandler(
	items domain.ItemRepository,
	movements domain.MovementRepository,
	gateway *validation.Gateway,
	monitor monitoring.Monitor,
	notifier domain.WorkflowNotifier,
) *UpdateStockHandler {
	return &UpdateStockHandler{
		items:     items,
		movements: movements,
		gateway:   gateway,
		monitor:   monitor,
		notifier:  notifier,
	}
}

// Handle executes the mutation. On a subtract that exceeds the current stock
// the item is left untouched and ErrInsufficientStock is returned. The ledger
// never retries internally; a retry could double-apply the mutation.
func (h *UpdateStockHandler) Handle(ctx context.Context, cmd UpdateStockCommand, actor domain.Actor) (*domain.InventoryItem, error) {
	if err := h.gateway.StockUpdate(cmd.Operation, cmd.Quantity, cmd.Reason, actor); err != nil {
		return nil, err
	}

	current, err := h.items.FindByID(ctx, cmd.ItemID)
	if err != nil {
		h.monitor.RecordFailure("update_stock", err)
		return nil, err
	}
	if !actor.CanAccess(current.LocationID) {
		h.monitor.RecordFailure("update_stock", domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	var (
		item     *domain.InventoryItem
		before   int
		expected int
	)

	switch cmd.Operation {
	case domain.OperationAdd:
		item, before, err = h.items.AdjustStock(ctx, cmd.ItemID, cmd.Quantity)
		expected = before + cmd.Quantity
	case domain.OperationSubtract:
		item, before, err = h.items.AdjustStock(ctx, cmd.ItemID, -cmd.Quantity)
		expected = before - cmd.Quantity
	case domain.OperationSet:
		item, before, err = h.items.SetStock(ctx, cmd.ItemID, cmd.Quantity)
		expected = cmd.Quantity
	}
	if err != nil {
		h.monitor.RecordFailure("update_stock", err)
		if errors.Is(err, domain.ErrInsufficientStock) {
			h.notifier.HandleError(ctx, domain.WorkflowError{
				Workflow:  "inventory",
				Operation: "update_stock",
				Severity:  domain.SeverityWarning,
				Message:   "stock mutation refused: insufficient stock",
				Context: map[string]interface{}{
					"item_id":   cmd.ItemID,
					"operation": cmd.Operation,
					"quantity":  cmd.Quantity,
				},
			})
		}
		return nil, err
	}

	if item.CurrentStock != expected {
		// The atomic mutation reported a different counter than the refreshed
		// row. Never accept this silently.
		h.monitor.RecordAnomaly("stock_mismatch")
		h.notifier.HandleError(ctx, domain.WorkflowError{
			Workflow:  "inventory",
			Operation: "update_stock",
			Severity:  domain.SeverityCritical,
			Message:   "refreshed stock disagrees with mutation result",
			Context: map[string]interface{}{
				"item_id":  item.ID,
				"expected": expected,
				"actual":   item.CurrentStock,
			},
		})
		logger.Error(ctx).
			Uint("item_id", item.ID).
			Int("expected", expected).
			Int("actual", item.CurrentStock).
			Msg("Stock mismatch after mutation")
	}

	movement := &domain.StockMovement{
		InventoryItemID: item.ID,
		MovementType:    cmd.Operation,
		Quantity:        cmd.Quantity,
		StockBefore:     before,
		StockAfter:      item.CurrentStock,
		Reason:          cmd.Reason,
		PerformedBy:     actor.Username,
	}
	if err := h.movements.Append(ctx, movement); err != nil {
		auditErr := &domain.AuditWriteError{ItemID: item.ID, Movement: movement, Err: err}
		h.monitor.RecordAnomaly("audit_write_failed")
		h.notifier.HandleError(ctx, domain.WorkflowError{
			Workflow:  "inventory",
			Operation: "update_stock",
			Kind:      domain.WorkflowKindAuditInconsistency,
			Severity:  domain.SeverityCritical,
			Message:   "stock changed but audit trail is incomplete",
			Context: map[string]interface{}{
				"item_id":      item.ID,
				"stock_before": before,
				"stock_after":  item.CurrentStock,
			},
		})
		logger.Error(ctx).
			Err(err).
			Uint("item_id", item.ID).
			Msg("Movement append failed after committed mutation")
		return item, auditErr
	}

	if item.CurrentStock == 0 {
		h.notifier.HandleError(ctx, domain.WorkflowError{
			Workflow:  "inventory",
			Operation: "update_stock",
			Kind:      domain.WorkflowKindLowStock,
			Severity:  domain.SeverityCritical,
			Message:   fmt.Sprintf("item %d is out of stock", item.ID),
			Context:   map[string]interface{}{"item_id": item.ID, "product_id": item.ProductID},
		})
	}

	h.monitor.RecordPatternSuccess("inventory.update_stock")
	return item, nil
}
