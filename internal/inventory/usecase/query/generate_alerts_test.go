package query

import (
	"context"
	"errors"
	"testing"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// stubItemRepo serves a fixed item list; only the read methods the queries use
// are live.
type stubItemRepo struct {
	items   []domain.InventoryItem
	findErr error
}

func (r *stubItemRepo) Create(ctx context.Context, item *domain.InventoryItem) error { return nil }

func (r *stubItemRepo) FindByID(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i], nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (r *stubItemRepo) FindByProductAndLocation(ctx context.Context, productID, locationID uint) (*domain.InventoryItem, error) {
	return nil, domain.ErrItemNotFound
}

// FindAll honors Limit and Offset the way the real repository does, so paged
// callers are tested against honest semantics.
func (r *stubItemRepo) FindAll(ctx context.Context, filter domain.ItemFilter) ([]domain.InventoryItem, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.InventoryItem
	for _, item := range r.items {
		if filter.ActiveOnly && !item.IsActive {
			continue
		}
		out = append(out, item)
	}
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *stubItemRepo) FindLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range r.items {
		if item.IsActive && item.CurrentStock <= item.MinimumStock {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubItemRepo) Update(ctx context.Context, item *domain.InventoryItem) error { return nil }
func (r *stubItemRepo) Deactivate(ctx context.Context, id uint) error                { return nil }

func (r *stubItemRepo) AdjustStock(ctx context.Context, id uint, delta int) (*domain.InventoryItem, int, error) {
	return nil, 0, domain.ErrItemNotFound
}

func (r *stubItemRepo) SetStock(ctx context.Context, id uint, quantity int) (*domain.InventoryItem, int, error) {
	return nil, 0, domain.ErrItemNotFound
}

func (r *stubItemRepo) StockValue(ctx context.Context) (float64, error) { return 0, nil }

// stubAckStore returns canned acknowledgment flags.
type stubAckStore struct {
	acked   map[string]bool
	loadErr error
}

func (s *stubAckStore) Acknowledge(ctx context.Context, alertID, acknowledgedBy string) error {
	if s.acked == nil {
		s.acked = make(map[string]bool)
	}
	s.acked[alertID] = true
	return nil
}

func (s *stubAckStore) Acknowledged(ctx context.Context, alertIDs []string) (map[string]bool, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make(map[string]bool, len(alertIDs))
	for _, id := range alertIDs {
		out[id] = s.acked[id]
	}
	return out, nil
}

func TestGenerateAlertsMergesAcknowledgments(t *testing.T) {
	items := &stubItemRepo{items: []domain.InventoryItem{
		{ID: 1, CurrentStock: 0, MinimumStock: 10, IsActive: true},
		{ID: 2, CurrentStock: 5, MinimumStock: 10, IsActive: true},
		{ID: 3, CurrentStock: 50, MinimumStock: 10, IsActive: true},
	}}
	acks := &stubAckStore{acked: map[string]bool{
		domain.AlertID(2, domain.AlertTypeLowStock): true,
	}}
	handler := NewGenerateAlertsHandler(items, acks)

	alerts, err := handler.Handle(context.Background())
	if err != nil {
		t.Fatalf("generate alerts failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}

	// Critical out-of-stock sorts first and is not acknowledged.
	if alerts[0].InventoryItemID != 1 || alerts[0].Acknowledged {
		t.Errorf("alerts[0] = %+v, want unacknowledged alert for item 1", alerts[0])
	}
	if alerts[1].InventoryItemID != 2 || !alerts[1].Acknowledged {
		t.Errorf("alerts[1] = %+v, want acknowledged alert for item 2", alerts[1])
	}
}

func TestGenerateAlertsAcknowledgmentSurvivesRegeneration(t *testing.T) {
	items := &stubItemRepo{items: []domain.InventoryItem{
		{ID: 1, CurrentStock: 5, MinimumStock: 10, IsActive: true},
	}}
	acks := &stubAckStore{}
	handler := NewGenerateAlertsHandler(items, acks)

	first, err := handler.Handle(context.Background())
	if err != nil {
		t.Fatalf("generate alerts failed: %v", err)
	}
	if len(first) != 1 || first[0].Acknowledged {
		t.Fatalf("expected one fresh alert, got %+v", first)
	}

	if err := acks.Acknowledge(context.Background(), first[0].ID, "worker"); err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}

	second, err := handler.Handle(context.Background())
	if err != nil {
		t.Fatalf("regeneration failed: %v", err)
	}
	if len(second) != 1 || !second[0].Acknowledged {
		t.Errorf("regenerated alert lost its acknowledgment: %+v", second)
	}
	if second[0].ID != first[0].ID {
		t.Errorf("regenerated alert changed identity: %s vs %s", second[0].ID, first[0].ID)
	}
}

func TestGenerateAlertsServesWithoutAckFlagsOnStoreFailure(t *testing.T) {
	items := &stubItemRepo{items: []domain.InventoryItem{
		{ID: 1, CurrentStock: 0, MinimumStock: 10, IsActive: true},
	}}
	acks := &stubAckStore{loadErr: errors.New("redis unreachable")}
	handler := NewGenerateAlertsHandler(items, acks)

	alerts, err := handler.Handle(context.Background())
	if err != nil {
		t.Fatalf("ack store failure must not fail the query: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Acknowledged {
		t.Error("alert served with a flag the store could not confirm")
	}
}

func TestGenerateAlertsScansBeyondFirstPage(t *testing.T) {
	var stock []domain.InventoryItem
	for i := 1; i <= 200; i++ {
		stock = append(stock, domain.InventoryItem{ID: uint(i), CurrentStock: 50, MinimumStock: 10, IsActive: true})
	}
	// Item 201 sits past the first repository page and is out of stock.
	stock = append(stock, domain.InventoryItem{ID: 201, CurrentStock: 0, MinimumStock: 10, IsActive: true})

	handler := NewGenerateAlertsHandler(&stubItemRepo{items: stock}, &stubAckStore{})

	alerts, err := handler.Handle(context.Background())
	if err != nil {
		t.Fatalf("generate alerts failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].InventoryItemID != 201 || alerts[0].AlertType != domain.AlertTypeOutOfStock {
		t.Errorf("alert = %+v, want out_of_stock for item 201", alerts[0])
	}
}

func TestGenerateAlertsSkipsInactiveItems(t *testing.T) {
	items := &stubItemRepo{items: []domain.InventoryItem{
		{ID: 1, CurrentStock: 0, MinimumStock: 10, IsActive: false},
	}}
	handler := NewGenerateAlertsHandler(items, &stubAckStore{})

	alerts, err := handler.Handle(context.Background())
	if err != nil {
		t.Fatalf("generate alerts failed: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("inactive items must not alert, got %d alerts", len(alerts))
	}
}
