package command

import (
	"context"
	"sync"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// fakeItemRepo is an in-memory ItemRepository. The mutex makes the stock
// mutations atomic the same way the conditional UPDATE does in the real
// repository, so concurrency tests exercise the handler against honest
// semantics.
type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uint]*domain.InventoryItem

	// adjustHook, when set, is consulted before applying AdjustStock and can
	// inject a failure for a specific item and delta.
	adjustHook func(id uint, delta int) error
}

func newFakeItemRepo(items ...*domain.InventoryItem) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[uint]*domain.InventoryItem)}
	for _, item := range items {
		copied := *item
		r.items[item.ID] = &copied
	}
	return r
}

func (r *fakeItemRepo) get(id uint) *domain.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil
	}
	copied := *item
	return &copied
}

func (r *fakeItemRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uint(len(r.items) + 1)
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) FindByID(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	if item := r.get(id); item != nil {
		return item, nil
	}
	return nil, domain.ErrItemNotFound
}

func (r *fakeItemRepo) FindByProductAndLocation(ctx context.Context, productID, locationID uint) (*domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ProductID == productID && item.LocationID == locationID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (r *fakeItemRepo) FindAll(ctx context.Context, filter domain.ItemFilter) ([]domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		if filter.ActiveOnly && !item.IsActive {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeItemRepo) FindLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.InventoryItem
	for _, item := range r.items {
		if item.IsActive && item.CurrentStock <= item.MinimumStock {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) Deactivate(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.IsActive = false
	return nil
}

func (r *fakeItemRepo) AdjustStock(ctx context.Context, id uint, delta int) (*domain.InventoryItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.adjustHook != nil {
		if err := r.adjustHook(id, delta); err != nil {
			return nil, 0, err
		}
	}
	item, ok := r.items[id]
	if !ok {
		return nil, 0, domain.ErrItemNotFound
	}
	if !item.IsActive {
		return nil, 0, domain.ErrItemInactive
	}
	if item.CurrentStock+delta < item.ReservedStock {
		return nil, 0, domain.ErrInsufficientStock
	}
	before := item.CurrentStock
	item.CurrentStock += delta
	copied := *item
	return &copied, before, nil
}

func (r *fakeItemRepo) SetStock(ctx context.Context, id uint, quantity int) (*domain.InventoryItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, 0, domain.ErrItemNotFound
	}
	if !item.IsActive {
		return nil, 0, domain.ErrItemInactive
	}
	if quantity < item.ReservedStock {
		return nil, 0, domain.ErrInsufficientStock
	}
	before := item.CurrentStock
	item.CurrentStock = quantity
	copied := *item
	return &copied, before, nil
}

func (r *fakeItemRepo) StockValue(ctx context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, item := range r.items {
		if item.IsActive {
			total += item.TotalValue()
		}
	}
	return total, nil
}

// fakeMovementRepo is an in-memory append-only movement log with failure
// injection for the next N appends.
type fakeMovementRepo struct {
	mu       sync.Mutex
	records  []domain.StockMovement
	failNext int
	failErr  error
}

func (r *fakeMovementRepo) Append(ctx context.Context, movement *domain.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext > 0 {
		r.failNext--
		return r.failErr
	}
	movement.ID = uint(len(r.records) + 1)
	r.records = append(r.records, *movement)
	return nil
}

func (r *fakeMovementRepo) FindByItem(ctx context.Context, itemID uint, limit, offset int) ([]domain.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.StockMovement
	for _, m := range r.records {
		if m.InventoryItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) byItem(itemID uint) []domain.StockMovement {
	out, _ := r.FindByItem(context.Background(), itemID, 0, 0)
	return out
}

func (r *fakeMovementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// captureNotifier records every workflow error it receives.
type captureNotifier struct {
	mu     sync.Mutex
	events []domain.WorkflowError
}

func (n *captureNotifier) HandleError(ctx context.Context, e domain.WorkflowError) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *captureNotifier) bySeverity(severity string) []domain.WorkflowError {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.WorkflowError
	for _, e := range n.events {
		if e.Severity == severity {
			out = append(out, e)
		}
	}
	return out
}

// recordMonitor counts telemetry calls by label.
type recordMonitor struct {
	mu         sync.Mutex
	successes  map[string]int
	failures   map[string]int
	validation map[string]int
	anomalies  map[string]int
}

func newRecordMonitor() *recordMonitor {
	return &recordMonitor{
		successes:  make(map[string]int),
		failures:   make(map[string]int),
		validation: make(map[string]int),
		anomalies:  make(map[string]int),
	}
}

func (m *recordMonitor) RecordPatternSuccess(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes[name]++
}

func (m *recordMonitor) RecordFailure(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[operation]++
}

func (m *recordMonitor) RecordValidationError(context string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validation[context]++
}

func (m *recordMonitor) RecordAnomaly(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anomalies[kind]++
}

func (m *recordMonitor) anomalyCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.anomalies[kind]
}

func (m *recordMonitor) successCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.successes[name]
}
