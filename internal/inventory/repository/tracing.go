package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingItemRepository decorates an ItemRepository with spans around every
// data access, recording the ledger-relevant attributes.
type TracingItemRepository struct {
	inner domain.ItemRepository
}

func NewTracingItemRepository(inner domain.ItemRepository) *TracingItemRepository {
	return &TracingItemRepository{inner: inner}
}

func (r *TracingItemRepository) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *TracingItemRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	ctx, span := r.span(ctx, "repository.Create",
		attribute.Int("item.product_id", int(item.ProductID)),
		attribute.Int("item.location_id", int(item.LocationID)),
	)
	err := r.inner.Create(ctx, item)
	finish(span, err)
	return err
}

func (r *TracingItemRepository) FindByID(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	ctx, span := r.span(ctx, "repository.FindByID", attribute.Int("item.id", int(id)))
	item, err := r.inner.FindByID(ctx, id)
	if err == nil {
		span.SetAttributes(attribute.Int("item.current_stock", item.CurrentStock))
	}
	finish(span, err)
	return item, err
}

func (r *TracingItemRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uint) (*domain.InventoryItem, error) {
	ctx, span := r.span(ctx, "repository.FindByProductAndLocation",
		attribute.Int("item.product_id", int(productID)),
		attribute.Int("item.location_id", int(locationID)),
	)
	item, err := r.inner.FindByProductAndLocation(ctx, productID, locationID)
	finish(span, err)
	return item, err
}

func (r *TracingItemRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]domain.InventoryItem, error) {
	ctx, span := r.span(ctx, "repository.FindAll",
		attribute.Int("query.limit", filter.Limit),
		attribute.Int("query.offset", filter.Offset),
	)
	items, err := r.inner.FindAll(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(items)))
	}
	finish(span, err)
	return items, err
}

func (r *TracingItemRepository) FindLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	ctx, span := r.span(ctx, "repository.FindLowStock")
	items, err := r.inner.FindLowStock(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(items)))
	}
	finish(span, err)
	return items, err
}

func (r *TracingItemRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	ctx, span := r.span(ctx, "repository.Update", attribute.Int("item.id", int(item.ID)))
	err := r.inner.Update(ctx, item)
	finish(span, err)
	return err
}

func (r *TracingItemRepository) Deactivate(ctx context.Context, id uint) error {
	ctx, span := r.span(ctx, "repository.Deactivate", attribute.Int("item.id", int(id)))
	err := r.inner.Deactivate(ctx, id)
	finish(span, err)
	return err
}

func (r *TracingItemRepository) AdjustStock(ctx context.Context, id uint, delta int) (*domain.InventoryItem, int, error) {
	ctx, span := r.span(ctx, "repository.AdjustStock",
		attribute.Int("item.id", int(id)),
		attribute.Int("stock.delta", delta),
	)
	item, before, err := r.inner.AdjustStock(ctx, id, delta)
	if err == nil {
		span.SetAttributes(
			attribute.Int("stock.before", before),
			attribute.Int("stock.after", item.CurrentStock),
		)
	}
	finish(span, err)
	return item, before, err
}

func (r *TracingItemRepository) SetStock(ctx context.Context, id uint, quantity int) (*domain.InventoryItem, int, error) {
	ctx, span := r.span(ctx, "repository.SetStock",
		attribute.Int("item.id", int(id)),
		attribute.Int("stock.new_value", quantity),
	)
	item, before, err := r.inner.SetStock(ctx, id, quantity)
	if err == nil {
		span.SetAttributes(attribute.Int("stock.before", before))
	}
	finish(span, err)
	return item, before, err
}

func (r *TracingItemRepository) StockValue(ctx context.Context) (float64, error) {
	ctx, span := r.span(ctx, "repository.StockValue")
	total, err := r.inner.StockValue(ctx)
	if err == nil {
		span.SetAttributes(attribute.Float64("result.total_value", total))
	}
	finish(span, err)
	return total, err
}
