package domain

import (
	"context"
	"time"
)

// Movement types. Transfers write one transfer_out on the source item and one
// transfer_in on the destination item.
const (
	MovementTypeAdd         = "add"
	MovementTypeSubtract    = "subtract"
	MovementTypeSet         = "set"
	MovementTypeTransferOut = "transfer_out"
	MovementTypeTransferIn  = "transfer_in"
)

// StockMovement is the immutable audit record of a single stock change.
// Exactly one is appended per successful ledger mutation; movements are never
// updated or deleted.
type StockMovement struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	InventoryItemID uint      `json:"inventory_item_id" gorm:"not null;index"`
	MovementType    string    `json:"movement_type" gorm:"not null"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	StockBefore     int       `json:"stock_before" gorm:"not null"`
	StockAfter      int       `json:"stock_after" gorm:"not null"`
	Reason          string    `json:"reason"`
	PerformedBy     string    `json:"performed_by" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// MovementRepository is the append-only audit log.
type MovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	FindByItem(ctx context.Context, itemID uint, limit, offset int) ([]StockMovement, error)
}
