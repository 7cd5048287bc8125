package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for business-rule and lookup failures. These are
// domain-meaningful: callers render them as explanations, not generic
// failures, and never retry them automatically.
var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemInactive      = errors.New("inventory item is inactive")
	ErrDuplicateItem     = errors.New("inventory item already exists for product and location")
	ErrUnauthorized      = errors.New("not authorized for this location")
)

// ValidationError carries the offending field and the expected shape.
type ValidationError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("validation failed on %s: %s (expected %s)", e.Field, e.Message, e.Expected)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// AuditWriteError reports that a stock mutation committed but the movement
// record could not be appended. The stock change is NOT rolled back; the
// ledger and audit trail disagree until reconciled, which is why this error
// is distinct from ordinary mutation failures.
type AuditWriteError struct {
	ItemID   uint
	Movement *StockMovement
	Err      error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("stock mutated but audit write failed for item %d: %v", e.ItemID, e.Err)
}

func (e *AuditWriteError) Unwrap() error { return e.Err }

// TransferError reports a failed transfer step together with the rollback
// outcome. RollbackErr is non-nil when the compensating re-credit itself
// failed, which leaves the source item debited with no matching credit.
type TransferError struct {
	Step        string
	RolledBack  bool
	RollbackErr error
	Err         error
}

func (e *TransferError) Error() string {
	switch {
	case e.RollbackErr != nil:
		return fmt.Sprintf("transfer failed at %s and rollback failed: %v (rollback: %v)", e.Step, e.Err, e.RollbackErr)
	case e.RolledBack:
		return fmt.Sprintf("transfer failed at %s, source rolled back: %v", e.Step, e.Err)
	default:
		return fmt.Sprintf("transfer failed at %s: %v", e.Step, e.Err)
	}
}

func (e *TransferError) Unwrap() error { return e.Err }
