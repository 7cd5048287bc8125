package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// GormItemRepository persists inventory items in PostgreSQL.
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.InventoryItem{}, &domain.StockMovement{})
}

func (r *GormItemRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateItem
	}
	return err
}

func (r *GormItemRepository) FindByID(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]domain.InventoryItem, error) {
	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	q := r.db.WithContext(ctx).Limit(limit).Offset(filter.Offset).Order("id")
	if filter.LocationID != nil {
		q = q.Where("location_id = ?", *filter.LocationID)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	var items []domain.InventoryItem
	err := q.Find(&items).Error
	return items, err
}

func (r *GormItemRepository) FindLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND current_stock <= minimum_stock", true).
		Order("current_stock").
		Find(&items).Error
	return items, err
}

func (r *GormItemRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Deactivate soft-deletes by flipping is_active. Items are never hard-deleted
// while movements reference them.
func (r *GormItemRepository) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&domain.InventoryItem{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// AdjustStock applies a signed delta to current_stock as a single conditional
// UPDATE, so the check and the write cannot be split by a concurrent writer
// in this or any other process. The predicate refuses any result below
// reserved_stock, which also keeps the counter non-negative.
func (r *GormItemRepository) AdjustStock(ctx context.Context, id uint, delta int) (*domain.InventoryItem, int, error) {
	var item domain.InventoryItem
	res := r.db.WithContext(ctx).Model(&item).
		Clauses(clause.Returning{}).
		Where("id = ? AND is_active = ? AND current_stock + ? >= reserved_stock", id, true, delta).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if res.Error != nil {
		return nil, 0, fmt.Errorf("adjust stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, 0, r.classifyRefusal(ctx, id)
	}

	return &item, item.CurrentStock - delta, nil
}

// SetStock replaces current_stock under a row lock so the previous value can
// be read consistently for the audit record.
func (r *GormItemRepository) SetStock(ctx context.Context, id uint, quantity int) (*domain.InventoryItem, int, error) {
	var item domain.InventoryItem
	var before int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrItemNotFound
			}
			return err
		}
		if !item.IsActive {
			return domain.ErrItemInactive
		}
		if quantity < item.ReservedStock {
			return domain.ErrInsufficientStock
		}

		before = item.CurrentStock
		return tx.Model(&item).Update("current_stock", quantity).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return &item, before, nil
}

func (r *GormItemRepository) StockValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.InventoryItem{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(current_stock * unit_cost), 0)").
		Scan(&total).Error
	return total, err
}

// classifyRefusal turns a zero-row conditional update into the right domain
// error: the row may be missing, inactive, or short on stock.
func (r *GormItemRepository) classifyRefusal(ctx context.Context, id uint) error {
	var item domain.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}
	if !item.IsActive {
		return domain.ErrItemInactive
	}
	return domain.ErrInsufficientStock
}
