package query

import (
	"context"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// ListItemsQuery represents the query to list inventory items.
type ListItemsQuery struct {
	LocationID *uint
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	items domain.ItemRepository
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(items domain.ItemRepository) *ListItemsHandler {
	return &ListItemsHandler{items: items}
}

// Handle executes the list items query
func (h *ListItemsHandler) Handle(ctx context.Context, q ListItemsQuery) ([]ItemView, error) {
	items, err := h.items.FindAll(ctx, domain.ItemFilter{
		LocationID: q.LocationID,
		ActiveOnly: q.ActiveOnly,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = NewItemView(item)
	}
	return views, nil
}
