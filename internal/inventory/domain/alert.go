package domain

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Alert types
const (
	AlertTypeOutOfStock    = "out_of_stock"
	AlertTypeLowStock      = "low_stock"
	AlertTypeReorderNeeded = "reorder_needed"
	AlertTypeOverstock     = "overstock"
)

// Alert severities, ordered critical > warning > low.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityLow      = "low"
)

// overstockRatio is the domain-wide overstock trigger: at or above 90% of the
// item's maximum stock.
const overstockRatio = 0.9

var alertNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// AlertID derives a stable alert identifier from the item and alert type, so
// regenerated alerts keep their identity and acknowledgment flags survive.
func AlertID(itemID uint, alertType string) string {
	return uuid.NewSHA1(alertNamespace, []byte(fmt.Sprintf("stock-alert:%d:%s", itemID, alertType))).String()
}

// StockAlert is a point-in-time alert derived from current item state. Alerts
// are never stored; only the acknowledgment flag is persisted, keyed by the
// deterministic alert ID.
type StockAlert struct {
	ID              string `json:"id"`
	InventoryItemID uint   `json:"inventory_item_id"`
	AlertType       string `json:"alert_type"`
	Severity        string `json:"severity"`
	ThresholdValue  int    `json:"threshold_value"`
	CurrentValue    int    `json:"current_value"`
	Acknowledged    bool   `json:"acknowledged"`
}

var severityRank = map[string]int{
	SeverityCritical: 0,
	SeverityWarning:  1,
	SeverityLow:      2,
}

// EvaluateAlert returns the alert for a single item, or nil when stock is
// healthy. Rules are checked in order and the first match wins: out of stock,
// low stock, reorder needed, overstock.
func EvaluateAlert(item *InventoryItem) *StockAlert {
	alert := func(alertType, severity string, threshold int) *StockAlert {
		return &StockAlert{
			ID:              AlertID(item.ID, alertType),
			InventoryItemID: item.ID,
			AlertType:       alertType,
			Severity:        severity,
			ThresholdValue:  threshold,
			CurrentValue:    item.CurrentStock,
		}
	}

	switch {
	case item.CurrentStock == 0:
		return alert(AlertTypeOutOfStock, SeverityCritical, 0)
	case item.CurrentStock <= item.MinimumStock:
		return alert(AlertTypeLowStock, SeverityWarning, item.MinimumStock)
	case item.ReorderPoint > 0 && item.CurrentStock <= item.ReorderPoint:
		return alert(AlertTypeReorderNeeded, SeverityLow, item.ReorderPoint)
	case item.MaximumStock > 0 && float64(item.CurrentStock) >= overstockRatio*float64(item.MaximumStock):
		return alert(AlertTypeOverstock, SeverityLow, item.MaximumStock)
	}
	return nil
}

// GenerateAlerts derives alerts for the given items, sorted by severity
// (critical, warning, low) and ascending current stock within a tier. It is a
// pure function of the item states.
func GenerateAlerts(items []InventoryItem) []StockAlert {
	alerts := make([]StockAlert, 0, len(items))
	for i := range items {
		if a := EvaluateAlert(&items[i]); a != nil {
			alerts = append(alerts, *a)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if severityRank[alerts[i].Severity] != severityRank[alerts[j].Severity] {
			return severityRank[alerts[i].Severity] < severityRank[alerts[j].Severity]
		}
		return alerts[i].CurrentValue < alerts[j].CurrentValue
	})

	return alerts
}

// AlertAckStore persists acknowledgment flags keyed by alert ID.
// Acknowledgment never suppresses regeneration; it only travels with the
// regenerated alert.
type AlertAckStore interface {
	Acknowledge(ctx context.Context, alertID, acknowledgedBy string) error
	Acknowledged(ctx context.Context, alertIDs []string) (map[string]bool, error)
}
