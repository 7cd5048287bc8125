package command

import (
	"context"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/internal/inventory/validation"
	"github.com/oakbarn/farmstand/pkg/logger"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

// BatchUpdateHandler drives a sequence of ledger mutations with per-item
// isolation: one entry failing never stops the entries after it.
type BatchUpdateHandler struct {
	ledger  *UpdateStockHandler
	gateway *validation.Gateway
	monitor monitoring.Monitor
}

// NewBatchUpdateHandler creates a new batch update handler
func NewBatchUpdateHandler(ledger *UpdateStockHandler, gateway *validation.Gateway, monitor monitoring.Monitor) *BatchUpdateHandler {
	return &BatchUpdateHandler{ledger: ledger, gateway: gateway, monitor: monitor}
}

// Handle attempts every update in input order and returns exactly one result
// per input, in that order. The aggregate succeeds when at least one entry
// did. Once an entry's mutation has been issued it runs to completion; the
// batch is not cancellable between entries.
func (h *BatchUpdateHandler) Handle(ctx context.Context, updates []domain.BatchStockUpdate, actor domain.Actor) (*domain.BatchOutcome, error) {
	if err := h.gateway.Batch(updates); err != nil {
		return nil, err
	}

	outcome := &domain.BatchOutcome{
		Results: make([]domain.BatchResult, 0, len(updates)),
	}

	for i, update := range updates {
		result := domain.BatchResult{Index: i, ItemID: update.ItemID}

		item, err := h.ledger.Handle(ctx, UpdateStockCommand{
			ItemID:    update.ItemID,
			Operation: update.Operation,
			Quantity:  update.Quantity,
			Reason:    update.Reason,
		}, actor)
		if err != nil {
			result.Error = err.Error()
			h.monitor.RecordFailure("batch_update_item", err)
			logger.Warn(ctx).
				Err(err).
				Int("index", i).
				Uint("item_id", update.ItemID).
				Str("operation", update.Operation).
				Int("quantity", update.Quantity).
				Msg("Batch entry failed, continuing")
		} else {
			result.Success = true
			result.Item = item
			outcome.Success = true
		}

		outcome.Results = append(outcome.Results, result)
	}

	if outcome.Success {
		h.monitor.RecordPatternSuccess("inventory.batch_update")
	}
	return outcome, nil
}
