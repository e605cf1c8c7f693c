package postgres

import (
	"context"
	"errors"
	"fmt"

	"instaWin/business/engine"
	"instaWin/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EngineConfigRepository struct {
	DB *gorm.DB
}

var _ engine.ConfigRepository = (*EngineConfigRepository)(nil)

func NewEngineConfigRepository(db *gorm.DB) *EngineConfigRepository {
	return &EngineConfigRepository{DB: db}
}

func (r *EngineConfigRepository) GetConfig(ctx context.Context, promotionID uint) (domain.EngineConfig, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.EngineConfig{}, false, fmt.Errorf("context error: %w", err)
	}

	var cfg domain.EngineConfig
	err := r.DB.WithContext(ctx).
		Where("promotion_id = ?", promotionID).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.EngineConfig{}, false, nil
	}
	if err != nil {
		return domain.EngineConfig{}, false, err
	}

	return cfg, true, nil
}

// UpsertConfig persists a tuning record. Callers validate first; an invalid
// record must never reach this point.
func (r *EngineConfigRepository) UpsertConfig(ctx context.Context, cfg domain.EngineConfig) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "promotion_id"}},
			UpdateAll: true,
		}).
		Create(&cfg).Error; err != nil {
		return fmt.Errorf("failed to upsert engine config: %w", err)
	}

	return nil
}
