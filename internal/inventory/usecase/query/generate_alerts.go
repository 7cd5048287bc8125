package query

import (
	"context"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/pkg/logger"
)

// alertScanPageSize bounds a single repository read while the scan itself
// covers every active item.
const alertScanPageSize = 200

// GenerateAlertsHandler recomputes alerts from current item state on every
// call and merges in the persisted acknowledgment flags. Nothing here writes.
type GenerateAlertsHandler struct {
	items domain.ItemRepository
	acks  domain.AlertAckStore
}

// NewGenerateAlertsHandler creates a new generate alerts handler
func NewGenerateAlertsHandler(items domain.ItemRepository, acks domain.AlertAckStore) *GenerateAlertsHandler {
	return &GenerateAlertsHandler{items: items, acks: acks}
}

// Handle executes the generate alerts query. The scan pages through the whole
// active inventory; stopping at one page would silently drop alerts for items
// past it.
func (h *GenerateAlertsHandler) Handle(ctx context.Context) ([]domain.StockAlert, error) {
	var items []domain.InventoryItem
	for offset := 0; ; offset += alertScanPageSize {
		page, err := h.items.FindAll(ctx, domain.ItemFilter{ActiveOnly: true, Limit: alertScanPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		if len(page) < alertScanPageSize {
			break
		}
	}

	alerts := domain.GenerateAlerts(items)
	if len(alerts) == 0 {
		return alerts, nil
	}

	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	acked, err := h.acks.Acknowledged(ctx, ids)
	if err != nil {
		// Acks are cosmetic; serve the alerts without flags rather than fail.
		logger.Warn(ctx).Err(err).Msg("Could not load alert acknowledgments")
		return alerts, nil
	}
	for i := range alerts {
		alerts[i].Acknowledged = acked[alerts[i].ID]
	}

	return alerts, nil
}
