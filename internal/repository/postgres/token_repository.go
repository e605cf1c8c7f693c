package postgres

import (
	"context"
	"errors"
	"fmt"

	"instaWin/business/engine"
	"instaWin/domain"

	"gorm.io/gorm"
)

type TokenRepository struct {
	DB *gorm.DB
}

var _ engine.TokenRepository = (*TokenRepository)(nil)

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

func (r *TokenRepository) FindByCode(ctx context.Context, promotionID uint, code string) (domain.Token, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Token{}, false, fmt.Errorf("context error: %w", err)
	}

	var token domain.Token
	err := r.DB.WithContext(ctx).
		Where("code = ? AND promotion_id = ?", code, promotionID).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Token{}, false, nil
	}
	if err != nil {
		return domain.Token{}, false, fmt.Errorf("failed to find token: %w", err)
	}

	return token, true, nil
}

func (r *TokenRepository) CountAvailable(ctx context.Context, promotionID uint) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Token{}).
		Where("promotion_id = ? AND status = ?", promotionID, domain.TokenStatusAvailable).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count available tokens: %w", err)
	}

	return int(count), nil
}

func (r *TokenRepository) BatchCreate(ctx context.Context, tokens []domain.Token) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).CreateInBatches(tokens, 500).Error; err != nil {
		return fmt.Errorf("failed to batch create tokens: %w", err)
	}

	return nil
}
