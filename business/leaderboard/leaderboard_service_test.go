//go:build !integration

package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"instaWin/domain"
)

type fakeLeaderboardRepo struct {
	entries []domain.LeaderboardEntry
	err     error
	calls   int
}

func (f *fakeLeaderboardRepo) TopPlayers(ctx context.Context, promotionID uint, limit int) ([]domain.LeaderboardEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

type fakeCache struct {
	entries []domain.LeaderboardEntry
	hit     bool
	getErr  error
	setErr  error
	sets    int
}

func (f *fakeCache) Get(ctx context.Context, promotionID uint, limit int) ([]domain.LeaderboardEntry, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.entries, f.hit, nil
}

func (f *fakeCache) Set(ctx context.Context, promotionID uint, limit int, entries []domain.LeaderboardEntry) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries = entries
	f.hit = true
	return nil
}

func rankedFixture() []domain.LeaderboardEntry {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return []domain.LeaderboardEntry{
		{PlayerID: 3, Plays: 12, Wins: 2, FirstPlay: base},
		{PlayerID: 1, Plays: 7, Wins: 0, FirstPlay: base.Add(time.Minute)},
		{PlayerID: 8, Plays: 7, Wins: 1, FirstPlay: base.Add(2 * time.Minute)},
	}
}

func TestGetLeaderboard_AssignsRanks(t *testing.T) {
	repo := &fakeLeaderboardRepo{entries: rankedFixture()}
	svc := NewLeaderboardService(repo, nil)

	entries, err := svc.GetLeaderboard(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Fatalf("entry %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
	}
	if entries[0].PlayerID != 3 {
		t.Fatalf("expected player 3 at rank 1, got %d", entries[0].PlayerID)
	}
	// tie on plays resolved by earlier first play
	if entries[1].PlayerID != 1 || entries[2].PlayerID != 8 {
		t.Fatalf("tie break broken: got %d then %d", entries[1].PlayerID, entries[2].PlayerID)
	}
}

func TestGetLeaderboard_DefaultLimit(t *testing.T) {
	repo := &fakeLeaderboardRepo{entries: rankedFixture()}
	svc := NewLeaderboardService(repo, nil)

	if _, err := svc.GetLeaderboard(context.Background(), 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.calls)
	}
}

func TestGetLeaderboard_CacheHitSkipsRepository(t *testing.T) {
	cached := rankedFixture()
	for i := range cached {
		cached[i].Rank = i + 1
	}
	repo := &fakeLeaderboardRepo{}
	cache := &fakeCache{entries: cached, hit: true}
	svc := NewLeaderboardService(repo, cache)

	entries, err := svc.GetLeaderboard(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("cache hit should not reach the repository, %d calls", repo.calls)
	}
	if len(entries) != 3 || entries[0].Rank != 1 {
		t.Fatalf("unexpected cached entries: %+v", entries)
	}
}

func TestGetLeaderboard_CacheMissPopulatesCache(t *testing.T) {
	repo := &fakeLeaderboardRepo{entries: rankedFixture()}
	cache := &fakeCache{}
	svc := NewLeaderboardService(repo, cache)

	if _, err := svc.GetLeaderboard(context.Background(), 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache set, got %d", cache.sets)
	}

	// second read is served from the cache
	if _, err := svc.GetLeaderboard(context.Background(), 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected cached second read, repository called %d times", repo.calls)
	}
}

func TestGetLeaderboard_CacheFailuresFallThrough(t *testing.T) {
	repo := &fakeLeaderboardRepo{entries: rankedFixture()}
	cache := &fakeCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc := NewLeaderboardService(repo, cache)

	entries, err := svc.GetLeaderboard(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestGetLeaderboard_RepositoryError(t *testing.T) {
	repo := &fakeLeaderboardRepo{err: errors.New("connection refused")}
	svc := NewLeaderboardService(repo, nil)

	if _, err := svc.GetLeaderboard(context.Background(), 1, 10); err == nil {
		t.Fatal("expected repository error to surface")
	}
}
