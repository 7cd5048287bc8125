package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Stock status buckets derived from the item's own thresholds.
const (
	StockStatusOutOfStock = "out_of_stock"
	StockStatusCritical   = "critical"
	StockStatusLow        = "low"
	StockStatusNormal     = "normal"
)

// InventoryItem is the authoritative stock record for one product at one location.
// The stock counter is only ever changed through the ledger operations on
// ItemRepository; everything else is advisory metadata.
type InventoryItem struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	ProductID       uint           `json:"product_id" gorm:"not null;uniqueIndex:idx_product_location"`
	LocationID      uint           `json:"location_id" gorm:"not null;uniqueIndex:idx_product_location"`
	CurrentStock    int            `json:"current_stock" gorm:"not null;default:0"`
	ReservedStock   int            `json:"reserved_stock" gorm:"not null;default:0"`
	MinimumStock    int            `json:"minimum_stock" gorm:"not null;default:0"`
	MaximumStock    int            `json:"maximum_stock"`
	ReorderPoint    int            `json:"reorder_point"`
	ReorderQuantity int            `json:"reorder_quantity"`
	UnitCost        float64        `json:"unit_cost" gorm:"not null;default:0"`
	IsActive        bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// AvailableStock is on-hand stock minus stock reserved for pending fulfillment.
func (i *InventoryItem) AvailableStock() int {
	available := i.CurrentStock - i.ReservedStock
	if available < 0 {
		return 0
	}
	return available
}

// TotalValue is the value of the on-hand stock at unit cost.
func (i *InventoryItem) TotalValue() float64 {
	return float64(i.CurrentStock) * i.UnitCost
}

// StockStatus buckets the current stock level against the item thresholds.
// Critical means at or below half of the minimum.
func (i *InventoryItem) StockStatus() string {
	switch {
	case i.CurrentStock == 0:
		return StockStatusOutOfStock
	case i.CurrentStock <= i.MinimumStock/2:
		return StockStatusCritical
	case i.CurrentStock <= i.MinimumStock:
		return StockStatusLow
	default:
		return StockStatusNormal
	}
}

// ItemFilter narrows list queries.
type ItemFilter struct {
	LocationID *uint
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ItemRepository defines the contract for inventory item data access.
//
// AdjustStock and SetStock are the ledger primitives: both must apply the
// read-compute-write of the stock counter atomically on the server side so
// that two concurrent writers can never observe the same stale value, and
// both must refuse any result that would leave current_stock below
// reserved_stock. They return the refreshed item together with the stock
// value immediately before the change.
type ItemRepository interface {
	Create(ctx context.Context, item *InventoryItem) error
	FindByID(ctx context.Context, id uint) (*InventoryItem, error)
	FindByProductAndLocation(ctx context.Context, productID, locationID uint) (*InventoryItem, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]InventoryItem, error)
	FindLowStock(ctx context.Context) ([]InventoryItem, error)
	Update(ctx context.Context, item *InventoryItem) error
	Deactivate(ctx context.Context, id uint) error
	AdjustStock(ctx context.Context, id uint, delta int) (*InventoryItem, int, error)
	SetStock(ctx context.Context, id uint, quantity int) (*InventoryItem, int, error)
	StockValue(ctx context.Context) (float64, error)
}
