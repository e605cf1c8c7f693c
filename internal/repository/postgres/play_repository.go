package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"instaWin/business/engine"
	"instaWin/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlayRepository struct {
	DB *gorm.DB
}

var _ engine.LedgerRepository = (*PlayRepository)(nil)

func NewPlayRepository(db *gorm.DB) *PlayRepository {
	return &PlayRepository{DB: db}
}

func (r *PlayRepository) PlayerHistory(ctx context.Context, promotionID, playerID uint) (domain.PlayerHistory, error) {
	if err := ctx.Err(); err != nil {
		return domain.PlayerHistory{}, fmt.Errorf("context error: %w", err)
	}

	type counts struct {
		Plays int `gorm:"column:plays"`
		Wins  int `gorm:"column:wins"`
	}

	var c counts
	err := r.DB.WithContext(ctx).
		Model(&domain.PlayEvent{}).
		Select("COUNT(*) AS plays, COUNT(*) FILTER (WHERE outcome = ?) AS wins", domain.OutcomeWin).
		Where("promotion_id = ? AND player_id = ?", promotionID, playerID).
		Scan(&c).Error
	if err != nil {
		return domain.PlayerHistory{}, fmt.Errorf("failed to count player history: %w", err)
	}

	return domain.PlayerHistory{
		PlaysSoFar: c.Plays,
		WinsSoFar:  c.Wins,
	}, nil
}

// CommitPlay is the single atomic unit of a play: consume the token, pick and
// decrement a prize if winning, insert the ledger row. The token consume is a
// guarded UPDATE, so of N concurrent commits for the same token exactly one
// proceeds and the rest fail with ErrTokenAlreadyUsed. A win that finds no
// stock left anywhere is demoted to a loss inside the same transaction.
func (r *PlayRepository) CommitPlay(ctx context.Context, commit engine.PlayCommit) (domain.PlayEvent, *domain.PrizeType, error) {
	if err := ctx.Err(); err != nil {
		return domain.PlayEvent{}, nil, fmt.Errorf("context error: %w", err)
	}

	var event domain.PlayEvent
	var wonPrize *domain.PrizeType

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// consume the token: available -> used, exactly once
		res := tx.Model(&domain.Token{}).
			Where("code = ? AND promotion_id = ? AND status = ?",
				commit.TokenCode, commit.PromotionID, domain.TokenStatusAvailable).
			Updates(map[string]interface{}{
				"status":  domain.TokenStatusUsed,
				"used_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to consume token: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var tok domain.Token
			err := tx.Where("code = ? AND promotion_id = ?", commit.TokenCode, commit.PromotionID).
				First(&tok).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ErrTokenInvalid
			}
			if err != nil {
				return fmt.Errorf("failed to inspect token: %w", err)
			}
			return engine.ErrTokenAlreadyUsed
		}

		var tok domain.Token
		if err := tx.Where("code = ? AND promotion_id = ?", commit.TokenCode, commit.PromotionID).
			First(&tok).Error; err != nil {
			return fmt.Errorf("failed to reload token: %w", err)
		}

		outcome := domain.OutcomeLoss
		var prizeID *uint

		if commit.Win {
			prize, err := r.allocatePrize(tx, commit)
			if err != nil {
				return err
			}
			if prize != nil {
				outcome = domain.OutcomeWin
				prizeID = &prize.ID
				wonPrize = prize
			}
			// prize == nil: stock exhausted, demoted to a loss
		}

		event = domain.PlayEvent{
			PromotionID: commit.PromotionID,
			TokenID:     tok.ID,
			PlayerID:    commit.PlayerID,
			Outcome:     outcome,
			PrizeTypeID: prizeID,
			CreatedAt:   now,
		}
		if outcome == domain.OutcomeWin {
			event.RedemptionCode = commit.RedemptionCode
		}
		if len(commit.Context) > 0 {
			event.Context = datatypes.JSONMap(commit.Context)
		}

		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to insert play event: %w", err)
		}

		return nil
	})
	if err != nil {
		if isConflictErr(err) {
			return domain.PlayEvent{}, nil, engine.ErrAllocationConflict
		}
		return domain.PlayEvent{}, nil, err
	}

	if wonPrize != nil {
		event.PrizeTypeName = wonPrize.Name
	}

	return event, wonPrize, nil
}

// allocatePrize locks the prize rows that still have stock, lets the picker
// choose, and decrements with a guarded UPDATE so remaining_stock can never
// go below zero. If the picked prize lost its last unit to a concurrent
// commit the pick repeats over the rest; nil means full exhaustion.
func (r *PlayRepository) allocatePrize(tx *gorm.DB, commit engine.PlayCommit) (*domain.PrizeType, error) {
	var prizes []domain.PrizeType
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("promotion_id = ? AND remaining_stock > 0", commit.PromotionID).
		Order("priority ASC, id ASC").
		Find(&prizes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load prize stock: %w", err)
	}

	for len(prizes) > 0 {
		idx := commit.Picker.Pick(prizes)
		if idx < 0 || idx >= len(prizes) {
			idx = 0
		}

		res := tx.Model(&domain.PrizeType{}).
			Where("id = ? AND remaining_stock > 0", prizes[idx].ID).
			UpdateColumn("remaining_stock", gorm.Expr("remaining_stock - 1"))
		if res.Error != nil {
			return nil, fmt.Errorf("failed to decrement prize stock: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			won := prizes[idx]
			won.RemainingStock--
			return &won, nil
		}

		prizes = append(prizes[:idx], prizes[idx+1:]...)
	}

	return nil, nil
}

func (r *PlayRepository) TopPlayers(ctx context.Context, promotionID uint, limit int) ([]domain.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.LeaderboardEntry
	err := r.DB.WithContext(ctx).
		Model(&domain.PlayEvent{}).
		Select(
			"player_id, COUNT(*) AS plays, COUNT(*) FILTER (WHERE outcome = ?) AS wins, MIN(created_at) AS first_play",
			domain.OutcomeWin,
		).
		Where("promotion_id = ?", promotionID).
		Group("player_id").
		Order("plays DESC, first_play ASC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	return entries, nil
}

// isConflictErr recognizes postgres serialization and deadlock failures that
// are safe to retry as a whole transaction.
func isConflictErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected")
}
