package postgres

import (
	"context"
	"errors"
	"fmt"

	"instaWin/business/engine"
	"instaWin/domain"

	"gorm.io/gorm"
)

type PromotionRepository struct {
	DB *gorm.DB
}

var _ engine.PromotionRepository = (*PromotionRepository)(nil)

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{DB: db}
}

func (r *PromotionRepository) Create(ctx context.Context, promo *domain.Promotion) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(promo).Error; err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	return nil
}

func (r *PromotionRepository) FindByID(ctx context.Context, id uint) (domain.Promotion, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Promotion{}, false, fmt.Errorf("context error: %w", err)
	}

	var promo domain.Promotion
	err := r.DB.WithContext(ctx).First(&promo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Promotion{}, false, nil
	}
	if err != nil {
		return domain.Promotion{}, false, fmt.Errorf("failed to find promotion: %w", err)
	}

	return promo, true, nil
}

func (r *PromotionRepository) FindAll(ctx context.Context) ([]domain.Promotion, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var promos []domain.Promotion
	if err := r.DB.WithContext(ctx).Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("failed to find promotions: %w", err)
	}

	return promos, nil
}

func (r *PromotionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	switch status {
	case domain.PromotionStatusDraft, domain.PromotionStatusActive, domain.PromotionStatusClosed:
	default:
		return fmt.Errorf("unknown promotion status %q", status)
	}

	res := r.DB.WithContext(ctx).
		Model(&domain.Promotion{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update promotion status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("promotion not found")
	}

	return nil
}
