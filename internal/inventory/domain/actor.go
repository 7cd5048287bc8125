package domain

import "context"

// Actor is the acting user, resolved once at the delivery boundary and
// threaded explicitly through every command. There is no ambient current-user
// context anywhere below the HTTP layer.
type Actor struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	LocationID uint   `json:"location_id"`
}

// Roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// CanAccess reports whether the actor may mutate items owned by the given
// location. Admins may touch every location, staff only their own.
func (a Actor) CanAccess(locationID uint) bool {
	return a.Role == RoleAdmin || a.LocationID == locationID
}

// Workflow error kinds. Downstream consumers subscribe by kind, so stock-out
// events and audit gaps must stay distinguishable from generic failures.
const (
	WorkflowKindLowStock           = "low_stock"
	WorkflowKindAuditInconsistency = "audit_inconsistency"
)

// WorkflowError is a business-relevant failure that other subsystems
// (marketing, reporting) may care about. Kind is empty for generic failures.
type WorkflowError struct {
	Workflow  string                 `json:"workflow"`
	Operation string                 `json:"operation"`
	Kind      string                 `json:"kind,omitempty"`
	Severity  string                 `json:"severity"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// WorkflowNotifier fans business failures out to interested subsystems.
// Implementations are fire-and-forget and must never block the caller on
// delivery problems.
type WorkflowNotifier interface {
	HandleError(ctx context.Context, e WorkflowError)
}

// NopNotifier discards every notification. Used when no broker is configured
// and in tests.
type NopNotifier struct{}

func (NopNotifier) HandleError(ctx context.Context, e WorkflowError) {}
