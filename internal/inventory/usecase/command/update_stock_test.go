package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/internal/inventory/validation"
)

var (
	admin = domain.Actor{UserID: 1, Username: "boss", Role: domain.RoleAdmin}
	staff = domain.Actor{UserID: 2, Username: "worker", Role: domain.RoleStaff, LocationID: 1}
)

type ledgerFixture struct {
	items     *fakeItemRepo
	movements *fakeMovementRepo
	monitor   *recordMonitor
	notifier  *captureNotifier
	handler   *UpdateStockHandler
}

func newLedgerFixture(items ...*domain.InventoryItem) *ledgerFixture {
	f := &ledgerFixture{
		items:     newFakeItemRepo(items...),
		movements: &fakeMovementRepo{failErr: errors.New("movement store down")},
		monitor:   newRecordMonitor(),
		notifier:  &captureNotifier{},
	}
	f.handler = NewUpdateStockHandler(f.items, f.movements, validation.NewGateway(f.monitor), f.monitor, f.notifier)
	return f
}

func TestUpdateStockAdd(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, ProductID: 7, LocationID: 1, CurrentStock: 100, IsActive: true})

	item, err := f.handler.Handle(context.Background(), UpdateStockCommand{
		ItemID: 1, Operation: domain.OperationAdd, Quantity: 50, Reason: "delivery",
	}, staff)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.CurrentStock != 150 {
		t.Errorf("stock = %d, want 150", item.CurrentStock)
	}

	movements := f.movements.byItem(1)
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	m := movements[0]
	if m.MovementType != domain.MovementTypeAdd || m.Quantity != 50 || m.StockBefore != 100 || m.StockAfter != 150 {
		t.Errorf("movement = %+v, want add 50 from 100 to 150", m)
	}
	if m.PerformedBy != "worker" {
		t.Errorf("performed by = %s, want worker", m.PerformedBy)
	}
}

func TestUpdateStockSubtractInsufficient(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, LocationID: 1, CurrentStock: 20, IsActive: true})

	_, err := f.handler.Handle(context.Background(), UpdateStockCommand{
		ItemID: 1, Operation: domain.OperationSubtract, Quantity: 50, Reason: "sale",
	}, staff)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	if got := f.items.get(1).CurrentStock; got != 20 {
		t.Errorf("stock after refused subtract = %d, want 20 unchanged", got)
	}
	if f.movements.count() != 0 {
		t.Errorf("refused mutation appended %d movements, want none", f.movements.count())
	}
	if warnings := f.notifier.bySeverity(domain.SeverityWarning); len(warnings) != 1 {
		t.Errorf("expected 1 warning notification, got %d", len(warnings))
	}
}

func TestUpdateStockSubtractGuardsReserved(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, LocationID: 1, CurrentStock: 20, ReservedStock: 15, IsActive: true})

	_, err := f.handler.Handle(context.Background(), UpdateStockCommand{
		ItemID: 1, Operation: domain.OperationSubtract, Quantity: 10, Reason: "sale",
	}, staff)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("subtract into reserved stock should be refused, got %v", err)
	}
	if got := f.items.get(1).CurrentStock; got != 20 {
		t.Errorf("stock = %d, want 20 unchanged", got)
	}
}

func TestUpdateStockSet(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, LocationID: 1, CurrentStock: 100, IsActive: true})

	item, err := f.handler.Handle(context.Background(), UpdateStockCommand{
		ItemID: 1, Operation: domain.OperationSet, Quantity: 75, Reason: "recount",
	}, staff)
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if item.CurrentStock != 75 {
		t.Errorf("stock = %d, want 75", item.CurrentStock)
	}

	movements := f.movements.byItem(1)
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	if movements[0].StockBefore != 100 || movements[0].StockAfter != 75 {
		t.Errorf("movement before/after = %d/%d, want 100/75", movements[0].StockBefore, movements[0].StockAfter)
	}
}

func TestUpdateStockValidation(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, LocationID: 1, CurrentStock: 100, IsActive: true})

	tests := []struct {
		name string
		cmd  UpdateStockCommand
	}{
		{"unknown operation", UpdateStockCommand{ItemID: 1, Operation: "multiply", Quantity: 2, Reason: "r"}},
		{"zero quantity", UpdateStockCommand{ItemID: 1, Operation: domain.OperationAdd, Quantity: 0, Reason: "r"}},
		{"missing reason", UpdateStockCommand{ItemID: 1, Operation: domain.OperationAdd, Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.handler.Handle(context.Background(), tt.cmd, staff)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if f.items.get(1).CurrentStock != 100 {
		t.Error("rejected commands changed stock")
	}
}

func TestUpdateStockUnauthorizedLocation(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, LocationID: 2, CurrentStock: 100, IsActive: true})

	_, err := f.handler.Handle(context.Background(), UpdateStockCommand{
		ItemID: 1, Operation: domain.OperationAdd, Quantity: 5, Reason: "delivery",
	}, staff)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("staff from another location should be refused, got %v", err)
	}

	// Admins may touch any location.
	if _, err := f.handler.Handle(context.Background(), UpdateStockCommand{
		ItemID: 1, Operation: domain.OperationAdd, Quantity: 5, Reason: "delivery",
	}, admin); err != nil {
		t.Errorf("admin mutation failed: %v", err)
	}
}

func TestUpdateStockInactiveItem(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, LocationID: 1, CurrentStock: 100, IsActive: false})

	_, err := f.handler.Handle(context.Background(), UpdateStockCommand{
		ItemID: 1, Operation: domain.OperationAdd, Quantity: 5, Reason: "delivery",
	}, staff)
	if !errors.Is(err, domain.ErrItemInactive) {
		t.Fatalf("expected inactive item refusal, got %v", err)
	}
}

func TestUpdateStockAuditWriteFailure(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, LocationID: 1, CurrentStock: 100, IsActive: true})
	f.movements.failNext = 1

	item, err := f.handler.Handle(context.Background(), UpdateStockCommand{
		ItemID: 1, Operation: domain.OperationAdd, Quantity: 50, Reason: "delivery",
	}, staff)

	var auditErr *domain.AuditWriteError
	if !errors.As(err, &auditErr) {
		t.Fatalf("expected audit write error, got %v", err)
	}
	if item == nil || item.CurrentStock != 150 {
		t.Fatal("mutated item must be returned alongside the audit write error")
	}
	// The stock change is not rolled back.
	if got := f.items.get(1).CurrentStock; got != 150 {
		t.Errorf("stock = %d, want 150 committed despite audit failure", got)
	}
	if f.monitor.anomalyCount("audit_write_failed") != 1 {
		t.Error("audit write failure was not recorded as an anomaly")
	}
	if critical := f.notifier.bySeverity(domain.SeverityCritical); len(critical) != 1 {
		t.Errorf("expected 1 critical notification, got %d", len(critical))
	} else if critical[0].Kind != domain.WorkflowKindAuditInconsistency {
		t.Errorf("notification kind = %q, want audit inconsistency", critical[0].Kind)
	}
}

func TestUpdateStockOutOfStockNotification(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, LocationID: 1, CurrentStock: 5, IsActive: true})

	if _, err := f.handler.Handle(context.Background(), UpdateStockCommand{
		ItemID: 1, Operation: domain.OperationSubtract, Quantity: 5, Reason: "sale",
	}, staff); err != nil {
		t.Fatalf("subtract to zero failed: %v", err)
	}

	if critical := f.notifier.bySeverity(domain.SeverityCritical); len(critical) != 1 {
		t.Errorf("expected 1 out-of-stock notification, got %d", len(critical))
	} else if critical[0].Kind != domain.WorkflowKindLowStock {
		t.Errorf("notification kind = %q, want low stock", critical[0].Kind)
	}
}

func TestUpdateStockConcurrentSubtract(t *testing.T) {
	f := newLedgerFixture(&domain.InventoryItem{ID: 1, LocationID: 1, CurrentStock: 20, IsActive: true})

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, refused := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.handler.Handle(context.Background(), UpdateStockCommand{
				ItemID: 1, Operation: domain.OperationSubtract, Quantity: 1, Reason: "sale",
			}, staff)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 20 || refused != 30 {
		t.Errorf("succeeded=%d refused=%d, want 20/30", succeeded, refused)
	}
	if got := f.items.get(1).CurrentStock; got != 0 {
		t.Errorf("final stock = %d, want 0", got)
	}
	if f.movements.count() != 20 {
		t.Errorf("movements = %d, want exactly one per successful subtract", f.movements.count())
	}
}
