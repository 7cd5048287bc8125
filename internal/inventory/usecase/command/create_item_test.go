package command

import (
	"context"
	"errors"
	"testing"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/internal/inventory/validation"
)

func newCreateFixture(items ...*domain.InventoryItem) (*CreateItemHandler, *ledgerFixture) {
	f := newLedgerFixture(items...)
	gateway := validation.NewGateway(f.monitor)
	return NewCreateItemHandler(f.items, gateway, f.monitor), f
}

func TestCreateItem(t *testing.T) {
	handler, _ := newCreateFixture()

	item, err := handler.Handle(context.Background(), CreateItemCommand{
		ProductID: 7, LocationID: 1, CurrentStock: 10, MinimumStock: 5, UnitCost: 2.5,
	}, staff)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !item.IsActive {
		t.Error("new items must start active")
	}
	if item.ID == 0 {
		t.Error("created item has no ID")
	}
}

func TestCreateItemDuplicate(t *testing.T) {
	handler, _ := newCreateFixture(
		&domain.InventoryItem{ID: 1, ProductID: 7, LocationID: 1, IsActive: true},
	)

	_, err := handler.Handle(context.Background(), CreateItemCommand{
		ProductID: 7, LocationID: 1,
	}, staff)
	if !errors.Is(err, domain.ErrDuplicateItem) {
		t.Fatalf("expected duplicate refusal, got %v", err)
	}
}

// racingItemRepo simulates two concurrent creates: the pre-check sees no
// existing row, but the insert then hits the unique product/location key.
type racingItemRepo struct {
	*fakeItemRepo
}

func (r *racingItemRepo) FindByProductAndLocation(ctx context.Context, productID, locationID uint) (*domain.InventoryItem, error) {
	return nil, domain.ErrItemNotFound
}

func (r *racingItemRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	return domain.ErrDuplicateItem
}

func TestCreateItemDuplicateRace(t *testing.T) {
	f := newLedgerFixture()
	handler := NewCreateItemHandler(&racingItemRepo{f.items}, validation.NewGateway(f.monitor), f.monitor)

	_, err := handler.Handle(context.Background(), CreateItemCommand{
		ProductID: 7, LocationID: 1,
	}, staff)
	if !errors.Is(err, domain.ErrDuplicateItem) {
		t.Fatalf("insert collision must surface as a duplicate, got %v", err)
	}
}

func TestCreateItemUnauthorizedLocation(t *testing.T) {
	handler, _ := newCreateFixture()

	_, err := handler.Handle(context.Background(), CreateItemCommand{
		ProductID: 7, LocationID: 2,
	}, staff)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateItemValidation(t *testing.T) {
	handler, _ := newCreateFixture()

	_, err := handler.Handle(context.Background(), CreateItemCommand{
		ProductID: 7, LocationID: 1, CurrentStock: 5, ReservedStock: 10,
	}, staff)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("reserved above current should be rejected, got %v", err)
	}
}
