package leaderboard

import (
	"context"
	"fmt"

	"instaWin/domain"
	"instaWin/pkg/logger"
)

// LeaderboardRepository projects ranking rows out of the play ledger: players
// ordered by plays descending, ties broken by earliest first play.
type LeaderboardRepository interface {
	TopPlayers(ctx context.Context, promotionID uint, limit int) ([]domain.LeaderboardEntry, error)
}

// Cache is an optional short-TTL cache in front of the projection. A nil
// cache is valid; misses and errors just fall through to the repository.
type Cache interface {
	Get(ctx context.Context, promotionID uint, limit int) ([]domain.LeaderboardEntry, bool, error)
	Set(ctx context.Context, promotionID uint, limit int, entries []domain.LeaderboardEntry) error
}

type LeaderboardService struct {
	repo  LeaderboardRepository
	cache Cache
}

func NewLeaderboardService(repo LeaderboardRepository, cache Cache) *LeaderboardService {
	return &LeaderboardService{
		repo:  repo,
		cache: cache,
	}
}

// GetLeaderboard returns the ranked top players for a promotion. The ranking
// is recomputed from the append-only ledger, never maintained incrementally,
// so the cache only ever serves a slightly stale but internally consistent
// snapshot.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, promotionID uint, limit int) ([]domain.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = 20
	}

	if s.cache != nil {
		if entries, ok, err := s.cache.Get(ctx, promotionID, limit); err == nil && ok {
			return entries, nil
		}
	}

	entries, err := s.repo.TopPlayers(ctx, promotionID, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, promotionID, limit, entries); err != nil {
			logger.Warn("leaderboard cache set failed", "promotion_id", promotionID, "error", err)
		}
	}

	return entries, nil
}
