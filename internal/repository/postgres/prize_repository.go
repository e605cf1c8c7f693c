package postgres

import (
	"context"
	"errors"
	"fmt"

	"instaWin/business/engine"
	"instaWin/domain"

	"gorm.io/gorm"
)

type PrizeRepository struct {
	DB *gorm.DB
}

var _ engine.StockRepository = (*PrizeRepository)(nil)

func NewPrizeRepository(db *gorm.DB) *PrizeRepository {
	return &PrizeRepository{DB: db}
}

func (r *PrizeRepository) Create(ctx context.Context, prize *domain.PrizeType) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if prize.InitialStock < 0 {
		return errors.New("initial stock must not be negative")
	}

	prize.RemainingStock = prize.InitialStock

	if err := r.DB.WithContext(ctx).Create(prize).Error; err != nil {
		return fmt.Errorf("failed to create prize type: %w", err)
	}

	return nil
}

func (r *PrizeRepository) FindByPromotion(ctx context.Context, promotionID uint) ([]domain.PrizeType, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var prizes []domain.PrizeType
	err := r.DB.WithContext(ctx).
		Where("promotion_id = ?", promotionID).
		Order("priority ASC, id ASC").
		Find(&prizes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find prize types: %w", err)
	}

	return prizes, nil
}

func (r *PrizeRepository) Totals(ctx context.Context, promotionID uint) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, fmt.Errorf("context error: %w", err)
	}

	type totals struct {
		Initial   int `gorm:"column:initial"`
		Remaining int `gorm:"column:remaining"`
	}

	var t totals
	err := r.DB.WithContext(ctx).
		Model(&domain.PrizeType{}).
		Select("COALESCE(SUM(initial_stock),0) AS initial, COALESCE(SUM(remaining_stock),0) AS remaining").
		Where("promotion_id = ?", promotionID).
		Scan(&t).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum prize stock: %w", err)
	}

	return t.Initial, t.Remaining, nil
}

// ResetStock puts remaining_stock back to initial_stock. This is the only
// mutation allowed to raise remaining_stock and exists purely for the admin
// surface.
func (r *PrizeRepository) ResetStock(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	res := r.DB.WithContext(ctx).
		Model(&domain.PrizeType{}).
		Where("id = ?", id).
		UpdateColumn("remaining_stock", gorm.Expr("initial_stock"))
	if res.Error != nil {
		return fmt.Errorf("failed to reset prize stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("prize type not found")
	}

	return nil
}

func (r *PrizeRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	res := r.DB.WithContext(ctx).Delete(&domain.PrizeType{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete prize type: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("prize type not found")
	}

	return nil
}
