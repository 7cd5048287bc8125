package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

// AcknowledgeAlertHandler persists an acknowledgment flag for a derived
// alert. The alert itself keeps regenerating; only the flag is stored.
type AcknowledgeAlertHandler struct {
	acks    domain.AlertAckStore
	monitor monitoring.Monitor
}

// NewAcknowledgeAlertHandler creates a new acknowledge alert handler
func NewAcknowledgeAlertHandler(acks domain.AlertAckStore, monitor monitoring.Monitor) *AcknowledgeAlertHandler {
	return &AcknowledgeAlertHandler{acks: acks, monitor: monitor}
}

// Handle executes the acknowledge alert command
func (h *AcknowledgeAlertHandler) Handle(ctx context.Context, alertID string, actor domain.Actor) error {
	if _, err := uuid.Parse(alertID); err != nil {
		verr := &domain.ValidationError{
			Field:    "alert_id",
			Message:  "malformed alert id",
			Expected: "UUID",
		}
		h.monitor.RecordValidationError("acknowledge_alert", verr)
		return verr
	}

	if err := h.acks.Acknowledge(ctx, alertID, actor.Username); err != nil {
		h.monitor.RecordFailure("acknowledge_alert", err)
		return err
	}

	h.monitor.RecordPatternSuccess("inventory.acknowledge_alert")
	return nil
}
