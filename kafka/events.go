package kafka

import (
	"time"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// InventoryAlertEvent carries a business-relevant inventory failure to other
// workflows (marketing, executive reporting).
type InventoryAlertEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	Workflow  string                 `json:"workflow"`
	Operation string                 `json:"operation"`
	Severity  string                 `json:"severity"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Event types
const (
	EventTypeWorkflowError      = "inventory.workflow_error"
	EventTypeLowStock           = "inventory.low_stock"
	EventTypeAuditInconsistency = "inventory.audit_inconsistency"
)

// Kafka topics
const (
	TopicInventoryAlerts = "inventory-alerts"
)

// EventTypeFor maps a workflow error kind to its published event type.
func EventTypeFor(kind string) string {
	switch kind {
	case domain.WorkflowKindLowStock:
		return EventTypeLowStock
	case domain.WorkflowKindAuditInconsistency:
		return EventTypeAuditInconsistency
	default:
		return EventTypeWorkflowError
	}
}
