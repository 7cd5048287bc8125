package command

import (
	"context"
	"errors"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/internal/inventory/validation"
	"github.com/oakbarn/farmstand/pkg/logger"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

const (
	stepDebitSource       = "debit_source"
	stepCreditDestination = "credit_destination"
	stepRecordMovements   = "record_movements"
)

// transferStep is one stage of the transfer state machine. compensate, when
// set, undoes the step's applied effect; undoPrevious marks a step whose
// failure requires compensating everything before it.
type transferStep struct {
	name         string
	undoPrevious bool
	run          func(ctx context.Context) error
	compensate   func(ctx context.Context) error
}

// TransferStockHandler moves stock between two locations as a logically
// atomic pair of ledger operations. There is no database transaction across
// the pair: a failed destination credit triggers an explicit compensating
// re-credit of the source.
type TransferStockHandler struct {
	items     domain.ItemRepository
	movements domain.MovementRepository
	gateway   *validation.Gateway
	monitor   monitoring.Monitor
	notifier  domain.WorkflowNotifier
}

// NewTransferStockHandler creates a new transfer stock handler
func NewTransferStockHandler(
	items domain.ItemRepository,
	movements domain.MovementRepository,
	gateway *validation.Gateway,
	monitor monitoring.Monitor,
	notifier domain.WorkflowNotifier,
) *TransferStockHandler {
	return &TransferStockHandler{
		items:     items,
		movements: movements,
		gateway:   gateway,
		monitor:   monitor,
		notifier:  notifier,
	}
}

// Handle executes validate, debit source, credit destination, record
// movements. A missing destination item is a failure, not an implicit create;
// provisioning the destination is a separate explicit operation.
func (h *TransferStockHandler) Handle(ctx context.Context, req domain.TransferRequest, actor domain.Actor) (*domain.TransferResult, error) {
	if err := h.gateway.Transfer(req); err != nil {
		return nil, err
	}

	source, err := h.items.FindByProductAndLocation(ctx, req.ProductID, req.FromLocationID)
	if err != nil {
		h.monitor.RecordFailure("transfer_stock", err)
		return nil, err
	}
	destination, err := h.items.FindByProductAndLocation(ctx, req.ProductID, req.ToLocationID)
	if err != nil {
		h.monitor.RecordFailure("transfer_stock", err)
		return nil, err
	}
	if !actor.CanAccess(source.LocationID) || !actor.CanAccess(destination.LocationID) {
		h.monitor.RecordFailure("transfer_stock", domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	var (
		debited   *domain.InventoryItem
		credited  *domain.InventoryItem
		srcBefore int
		dstBefore int
	)

	steps := []transferStep{
		{
			name: stepDebitSource,
			run: func(ctx context.Context) error {
				item, before, err := h.items.AdjustStock(ctx, source.ID, -req.Quantity)
				if err != nil {
					return err
				}
				debited, srcBefore = item, before
				return nil
			},
			compensate: func(ctx context.Context) error {
				restored, restoredBefore, err := h.items.AdjustStock(ctx, source.ID, req.Quantity)
				if err != nil {
					return err
				}
				// Record the debit and its reversal so the audit trail shows
				// both sides of the aborted transfer.
				h.appendOrFlag(ctx, &domain.StockMovement{
					InventoryItemID: source.ID,
					MovementType:    domain.MovementTypeTransferOut,
					Quantity:        req.Quantity,
					StockBefore:     srcBefore,
					StockAfter:      debited.CurrentStock,
					Reason:          req.Reason,
					PerformedBy:     actor.Username,
				})
				h.appendOrFlag(ctx, &domain.StockMovement{
					InventoryItemID: source.ID,
					MovementType:    domain.MovementTypeTransferIn,
					Quantity:        req.Quantity,
					StockBefore:     restoredBefore,
					StockAfter:      restored.CurrentStock,
					Reason:          "transfer rollback: " + req.Reason,
					PerformedBy:     actor.Username,
				})
				debited = restored
				return nil
			},
		},
		{
			name:         stepCreditDestination,
			undoPrevious: true,
			run: func(ctx context.Context) error {
				item, before, err := h.items.AdjustStock(ctx, destination.ID, req.Quantity)
				if err != nil {
					return err
				}
				credited, dstBefore = item, before
				return nil
			},
		},
		{
			name: stepRecordMovements,
			run: func(ctx context.Context) error {
				out := &domain.StockMovement{
					InventoryItemID: source.ID,
					MovementType:    domain.MovementTypeTransferOut,
					Quantity:        req.Quantity,
					StockBefore:     srcBefore,
					StockAfter:      debited.CurrentStock,
					Reason:          req.Reason,
					PerformedBy:     actor.Username,
				}
				if err := h.movements.Append(ctx, out); err != nil {
					return &domain.AuditWriteError{ItemID: source.ID, Movement: out, Err: err}
				}
				in := &domain.StockMovement{
					InventoryItemID: destination.ID,
					MovementType:    domain.MovementTypeTransferIn,
					Quantity:        req.Quantity,
					StockBefore:     dstBefore,
					StockAfter:      credited.CurrentStock,
					Reason:          req.Reason,
					PerformedBy:     actor.Username,
				}
				if err := h.movements.Append(ctx, in); err != nil {
					return &domain.AuditWriteError{ItemID: destination.ID, Movement: in, Err: err}
				}
				return nil
			},
		},
	}

	for i, step := range steps {
		err := step.run(ctx)
		if err == nil {
			continue
		}
		return h.failStep(ctx, req, steps[:i], step, err)
	}

	h.monitor.RecordPatternSuccess("inventory.transfer_stock")
	return &domain.TransferResult{
		Source:      debited,
		Destination: credited,
		Quantity:    req.Quantity,
	}, nil
}

// failStep classifies a step failure and runs compensations when the step
// requires undoing already-applied effects.
func (h *TransferStockHandler) failStep(ctx context.Context, req domain.TransferRequest, done []transferStep, failed transferStep, err error) (*domain.TransferResult, error) {
	h.monitor.RecordFailure("transfer_stock", err)

	var auditErr *domain.AuditWriteError
	if errors.As(err, &auditErr) {
		// Both counters already moved; the movement log is short. Rolling
		// back committed stock is not automatic here.
		h.monitor.RecordAnomaly("audit_write_failed")
		h.notifier.HandleError(ctx, domain.WorkflowError{
			Workflow:  "inventory",
			Operation: "transfer_stock",
			Kind:      domain.WorkflowKindAuditInconsistency,
			Severity:  domain.SeverityCritical,
			Message:   "transfer applied but audit trail is incomplete",
			Context:   map[string]interface{}{"item_id": auditErr.ItemID, "product_id": req.ProductID},
		})
		return nil, err
	}

	if !failed.undoPrevious {
		if errors.Is(err, domain.ErrInsufficientStock) {
			h.notifier.HandleError(ctx, domain.WorkflowError{
				Workflow:  "inventory",
				Operation: "transfer_stock",
				Severity:  domain.SeverityWarning,
				Message:   "transfer refused: insufficient stock at source",
				Context:   map[string]interface{}{"product_id": req.ProductID, "from": req.FromLocationID, "quantity": req.Quantity},
			})
		}
		return nil, err
	}

	rollbackErr := h.rollback(ctx, done)
	terr := &domain.TransferError{
		Step:        failed.name,
		RolledBack:  rollbackErr == nil,
		RollbackErr: rollbackErr,
		Err:         err,
	}

	severity := domain.SeverityWarning
	if rollbackErr != nil {
		severity = domain.SeverityCritical
		h.monitor.RecordAnomaly("transfer_rollback_failed")
	}
	h.notifier.HandleError(ctx, domain.WorkflowError{
		Workflow:  "inventory",
		Operation: "transfer_stock",
		Severity:  severity,
		Message:   terr.Error(),
		Context: map[string]interface{}{
			"product_id": req.ProductID,
			"from":       req.FromLocationID,
			"to":         req.ToLocationID,
			"quantity":   req.Quantity,
		},
	})

	return nil, terr
}

// rollback compensates applied steps in reverse order.
func (h *TransferStockHandler) rollback(ctx context.Context, done []transferStep) error {
	for i := len(done) - 1; i >= 0; i-- {
		if done[i].compensate == nil {
			continue
		}
		if err := done[i].compensate(ctx); err != nil {
			logger.Error(ctx).
				Err(err).
				Str("step", done[i].name).
				Msg("Compensation failed")
			return err
		}
	}
	return nil
}

// appendOrFlag appends an audit record and downgrades a failure to an anomaly
// report. Used on rollback paths where the stock correction itself succeeded.
func (h *TransferStockHandler) appendOrFlag(ctx context.Context, movement *domain.StockMovement) {
	if err := h.movements.Append(ctx, movement); err != nil {
		h.monitor.RecordAnomaly("audit_write_failed")
		logger.Error(ctx).
			Err(err).
			Uint("item_id", movement.InventoryItemID).
			Str("movement_type", movement.MovementType).
			Msg("Movement append failed during rollback")
	}
}
