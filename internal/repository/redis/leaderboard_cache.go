package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"instaWin/business/leaderboard"
	"instaWin/domain"

	"github.com/redis/go-redis/v9"
)

// cacheTTL bounds leaderboard staleness; the ledger is append-only so a
// slightly old snapshot is still internally consistent.
const cacheTTL = 30 * time.Second

type LeaderboardCache struct {
	client *redis.Client
}

var _ leaderboard.Cache = (*LeaderboardCache)(nil)

func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
	}
}

func cacheKey(promotionID uint, limit int) string {
	return fmt.Sprintf("leaderboard:promo:%d:top:%d", promotionID, limit)
}

func (c *LeaderboardCache) Get(ctx context.Context, promotionID uint, limit int) ([]domain.LeaderboardEntry, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(promotionID, limit)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get leaderboard from Redis: %w", err)
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached leaderboard: %w", err)
	}

	return entries, true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, promotionID uint, limit int, entries []domain.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(promotionID, limit), raw, cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache leaderboard: %w", err)
	}

	return nil
}
