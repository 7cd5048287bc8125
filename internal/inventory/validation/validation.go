// Package validation is the single gate every boundary input passes through
// before any side effect. Failures carry the offending field and are counted
// by the telemetry monitor without changing the caller's control flow.
package validation

import (
	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

// Gateway validates and normalizes boundary inputs.
type Gateway struct {
	monitor monitoring.Monitor
}

func NewGateway(monitor monitoring.Monitor) *Gateway {
	return &Gateway{monitor: monitor}
}

func (g *Gateway) fail(boundary string, err *domain.ValidationError) error {
	g.monitor.RecordValidationError(boundary, err)
	return err
}

// StockUpdate validates a single ledger mutation request.
func (g *Gateway) StockUpdate(operation string, quantity int, reason string, actor domain.Actor) error {
	const boundary = "stock_update"

	switch operation {
	case domain.OperationAdd, domain.OperationSubtract, domain.OperationSet:
	default:
		return g.fail(boundary, &domain.ValidationError{
			Field:    "operation",
			Message:  "unknown operation",
			Expected: "add, subtract or set",
		})
	}

	if operation == domain.OperationSet {
		if quantity < 0 {
			return g.fail(boundary, &domain.ValidationError{
				Field:    "quantity",
				Message:  "negative stock level",
				Expected: "integer >= 0",
			})
		}
	} else if quantity <= 0 {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "quantity",
			Message:  "non-positive quantity",
			Expected: "integer > 0",
		})
	}

	if reason == "" {
		return g.fail(boundary, &domain.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if actor.Username == "" {
		return g.fail(boundary, &domain.ValidationError{
			Field:   "performed_by",
			Message: "acting user is required",
		})
	}

	return nil
}

// NewItem validates an item at creation time, including the counter
// invariants the ledger will maintain afterwards.
func (g *Gateway) NewItem(item *domain.InventoryItem) error {
	const boundary = "create_item"

	if item.ProductID == 0 {
		return g.fail(boundary, &domain.ValidationError{Field: "product_id", Message: "product is required"})
	}
	if item.LocationID == 0 {
		return g.fail(boundary, &domain.ValidationError{Field: "location_id", Message: "location is required"})
	}
	if item.CurrentStock < 0 {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "current_stock",
			Message:  "negative stock",
			Expected: "integer >= 0",
		})
	}
	if item.ReservedStock < 0 || item.ReservedStock > item.CurrentStock {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "reserved_stock",
			Message:  "reserved stock out of range",
			Expected: "0 <= reserved_stock <= current_stock",
		})
	}
	if item.MinimumStock < 0 {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "minimum_stock",
			Message:  "negative threshold",
			Expected: "integer >= 0",
		})
	}
	if item.MaximumStock != 0 && item.MaximumStock < item.MinimumStock {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "maximum_stock",
			Message:  "maximum below minimum",
			Expected: "maximum_stock >= minimum_stock",
		})
	}
	if item.UnitCost < 0 {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "unit_cost",
			Message:  "negative unit cost",
			Expected: "decimal >= 0",
		})
	}

	return nil
}

// ItemThresholds validates a non-stock metadata patch.
func (g *Gateway) ItemThresholds(minimum, maximum, reorderPoint, reorderQuantity int, unitCost float64) error {
	const boundary = "update_item"

	if minimum < 0 || reorderPoint < 0 || reorderQuantity < 0 {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "thresholds",
			Message:  "negative threshold",
			Expected: "integer >= 0",
		})
	}
	if maximum != 0 && maximum < minimum {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "maximum_stock",
			Message:  "maximum below minimum",
			Expected: "maximum_stock >= minimum_stock",
		})
	}
	if unitCost < 0 {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "unit_cost",
			Message:  "negative unit cost",
			Expected: "decimal >= 0",
		})
	}

	return nil
}

// Transfer validates a cross-location transfer request.
func (g *Gateway) Transfer(req domain.TransferRequest) error {
	const boundary = "transfer"

	if req.ProductID == 0 {
		return g.fail(boundary, &domain.ValidationError{Field: "product_id", Message: "product is required"})
	}
	if req.FromLocationID == 0 || req.ToLocationID == 0 {
		return g.fail(boundary, &domain.ValidationError{Field: "location", Message: "both locations are required"})
	}
	if req.FromLocationID == req.ToLocationID {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "to_location_id",
			Message:  "source and destination are the same",
			Expected: "two distinct locations",
		})
	}
	if req.Quantity <= 0 {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "quantity",
			Message:  "non-positive quantity",
			Expected: "integer > 0",
		})
	}
	if req.Reason == "" {
		return g.fail(boundary, &domain.ValidationError{Field: "reason", Message: "reason is required"})
	}

	return nil
}

// Batch validates the batch envelope. Individual entries are validated by the
// ledger when each one is attempted, so one malformed entry cannot reject the
// whole batch.
func (g *Gateway) Batch(updates []domain.BatchStockUpdate) error {
	const boundary = "batch"

	if len(updates) == 0 {
		return g.fail(boundary, &domain.ValidationError{
			Field:   "updates",
			Message: "empty batch",
		})
	}
	if len(updates) > 500 {
		return g.fail(boundary, &domain.ValidationError{
			Field:    "updates",
			Message:  "batch too large",
			Expected: "at most 500 entries",
		})
	}

	return nil
}
