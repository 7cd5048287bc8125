package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
)

// GormMovementRepository is the append-only audit log. There is deliberately
// no update or delete path.
type GormMovementRepository struct {
	db *gorm.DB
}

func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

func (r *GormMovementRepository) Append(ctx context.Context, movement *domain.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

func (r *GormMovementRepository) FindByItem(ctx context.Context, itemID uint, limit, offset int) ([]domain.StockMovement, error) {
	if limit == 0 {
		limit = 50
	}

	var movements []domain.StockMovement
	err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&movements).Error
	return movements, err
}
