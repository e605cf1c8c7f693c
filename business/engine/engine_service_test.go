//go:build !integration

package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"instaWin/domain"
)

// fixedRNG returns a constant for every draw, making win decisions
// deterministic: a play wins iff probability > value.
type fixedRNG struct {
	value float64
}

func (f fixedRNG) Float64() float64 { return f.value }
func (f fixedRNG) Intn(n int) int   { return 0 }

type fakePromoRepo struct {
	promo domain.Promotion
	miss  bool
}

func (f *fakePromoRepo) FindByID(ctx context.Context, id uint) (domain.Promotion, bool, error) {
	if f.miss {
		return domain.Promotion{}, false, nil
	}
	return f.promo, true, nil
}

// memStore is an in-memory stand-in for the token, stock, and ledger
// repositories. CommitPlay serializes on the mutex and mirrors the guarded
// transitions of the postgres implementation: token CAS first, then the
// stock decrement, then the event append.
type memStore struct {
	mu     sync.Mutex
	tokens map[string]*domain.Token
	prizes []*domain.PrizeType
	events []domain.PlayEvent
}

func newMemStore(tokenCodes []string, prizes ...*domain.PrizeType) *memStore {
	s := &memStore{
		tokens: make(map[string]*domain.Token),
		prizes: prizes,
	}
	for i, code := range tokenCodes {
		s.tokens[code] = &domain.Token{
			ID:          uint(i + 1),
			Code:        code,
			PromotionID: 1,
			Status:      domain.TokenStatusAvailable,
		}
	}
	return s
}

func (s *memStore) FindByCode(ctx context.Context, promotionID uint, code string) (domain.Token, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[code]
	if !ok {
		return domain.Token{}, false, nil
	}
	return *tok, true, nil
}

func (s *memStore) CountAvailable(ctx context.Context, promotionID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, tok := range s.tokens {
		if tok.Status == domain.TokenStatusAvailable {
			n++
		}
	}
	return n, nil
}

func (s *memStore) Totals(ctx context.Context, promotionID uint) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	initial, remaining := 0, 0
	for _, p := range s.prizes {
		initial += p.InitialStock
		remaining += p.RemainingStock
	}
	return initial, remaining, nil
}

func (s *memStore) PlayerHistory(ctx context.Context, promotionID, playerID uint) (domain.PlayerHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var h domain.PlayerHistory
	for _, ev := range s.events {
		if ev.PlayerID != playerID {
			continue
		}
		h.PlaysSoFar++
		if ev.Outcome == domain.OutcomeWin {
			h.WinsSoFar++
		}
	}
	return h, nil
}

func (s *memStore) CommitPlay(ctx context.Context, commit PlayCommit) (domain.PlayEvent, *domain.PrizeType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[commit.TokenCode]
	if !ok {
		return domain.PlayEvent{}, nil, ErrTokenInvalid
	}
	if tok.Status != domain.TokenStatusAvailable {
		return domain.PlayEvent{}, nil, ErrTokenAlreadyUsed
	}
	now := time.Now()
	tok.Status = domain.TokenStatusUsed
	tok.UsedAt = &now

	event := domain.PlayEvent{
		ID:          uint(len(s.events) + 1),
		PromotionID: commit.PromotionID,
		TokenID:     tok.ID,
		PlayerID:    commit.PlayerID,
		Outcome:     domain.OutcomeLoss,
	}

	var awarded *domain.PrizeType
	if commit.Win {
		candidates := make([]domain.PrizeType, 0, len(s.prizes))
		for _, p := range s.prizes {
			if p.RemainingStock > 0 {
				candidates = append(candidates, *p)
			}
		}
		if len(candidates) > 0 {
			chosen := candidates[commit.Picker.Pick(candidates)]
			for _, p := range s.prizes {
				if p.ID == chosen.ID {
					p.RemainingStock--
					cp := *p
					awarded = &cp
					break
				}
			}
			event.Outcome = domain.OutcomeWin
			event.PrizeTypeID = &awarded.ID
			event.RedemptionCode = commit.RedemptionCode
		}
	}

	s.events = append(s.events, event)
	return event, awarded, nil
}

func (s *memStore) winCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, ev := range s.events {
		if ev.Outcome == domain.OutcomeWin {
			n++
		}
	}
	return n
}

func (s *memStore) remainingStock() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, p := range s.prizes {
		n += p.RemainingStock
	}
	return n
}

func testPromotion(now time.Time) domain.Promotion {
	return domain.Promotion{
		ID:       1,
		Name:     "grand opening",
		Status:   domain.PromotionStatusActive,
		StartsAt: now.Add(-6 * time.Hour),
		EndsAt:   now.Add(6 * time.Hour),
	}
}

func newTestService(store *memStore, rng RandomSource, cfg Config, now time.Time) *EngineService {
	promoRepo := &fakePromoRepo{promo: testPromotion(now)}
	return NewEngineService(promoRepo, store, store, store, nil, cfg).
		WithRandomSource(rng).
		WithClock(func() time.Time { return now })
}

func alwaysWinConfig() Config {
	cfg := calmConfig()
	cfg.BaseRate = 0.9
	cfg.MaxProbability = 1
	return cfg
}

func neverWinConfig() Config {
	cfg := calmConfig()
	cfg.BaseRate = 0.0001
	return cfg
}

func TestPlay_WinPath(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1"},
		&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: 10, RemainingStock: 10})

	// fixedRNG{0.5} against probability 0.9 always wins
	svc := newTestService(store, fixedRNG{0.5}, alwaysWinConfig(), now)

	result, err := svc.Play(context.Background(), 1, 7, "tok-1", map[string]any{"platform": "web"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsWinner {
		t.Fatal("expected a win")
	}
	if result.PrizeAssignment == nil {
		t.Fatal("expected a prize assignment on a win")
	}
	if result.PrizeAssignment.PrizeTypeName != "mug" {
		t.Fatalf("expected prize mug, got %q", result.PrizeAssignment.PrizeTypeName)
	}
	if result.PrizeAssignment.RedemptionCode == "" {
		t.Fatal("expected a redemption code on a win")
	}
	if store.remainingStock() != 9 {
		t.Fatalf("expected stock 9 after one win, got %d", store.remainingStock())
	}
}

func TestPlay_LossPath(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1"},
		&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: 10, RemainingStock: 10})

	svc := newTestService(store, fixedRNG{0.5}, neverWinConfig(), now)

	result, err := svc.Play(context.Background(), 1, 7, "tok-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsWinner {
		t.Fatal("expected a loss")
	}
	if result.PrizeAssignment != nil {
		t.Fatal("loss must not carry a prize assignment")
	}
	if store.remainingStock() != 10 {
		t.Fatalf("loss must not touch stock, got %d", store.remainingStock())
	}
	// losing still consumes the token
	if _, err := svc.Play(context.Background(), 1, 7, "tok-1", nil); !errors.Is(err, ErrTokenAlreadyUsed) {
		t.Fatalf("expected ErrTokenAlreadyUsed on replay, got %v", err)
	}
}

func TestPlay_TokenValidation(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1"},
		&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: 10, RemainingStock: 10})
	svc := newTestService(store, fixedRNG{0.5}, neverWinConfig(), now)

	t.Run("empty code", func(t *testing.T) {
		if _, err := svc.Play(context.Background(), 1, 7, "", nil); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		if _, err := svc.Play(context.Background(), 1, 7, "no-such-token", nil); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})
}

func TestPlay_RejectsOutsideWindow(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1"},
		&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: 10, RemainingStock: 10})

	promoRepo := &fakePromoRepo{promo: testPromotion(now)}
	promoRepo.promo.StartsAt = now.Add(time.Hour)
	promoRepo.promo.EndsAt = now.Add(2 * time.Hour)

	svc := NewEngineService(promoRepo, store, store, store, nil, alwaysWinConfig()).
		WithRandomSource(fixedRNG{0.5}).
		WithClock(func() time.Time { return now })

	if _, err := svc.Play(context.Background(), 1, 7, "tok-1", nil); !errors.Is(err, ErrCampaignNotActive) {
		t.Fatalf("expected ErrCampaignNotActive, got %v", err)
	}

	// the rejected attempt must not have consumed the token
	tok, _, _ := store.FindByCode(context.Background(), 1, "tok-1")
	if tok.Status != domain.TokenStatusAvailable {
		t.Fatalf("token consumed by a rejected play, status %q", tok.Status)
	}
}

func TestPlay_UnknownPromotion(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1"})
	svc := NewEngineService(&fakePromoRepo{miss: true}, store, store, store, nil, DefaultConfig()).
		WithClock(func() time.Time { return now })

	if _, err := svc.Play(context.Background(), 99, 7, "tok-1", nil); !errors.Is(err, ErrCampaignNotActive) {
		t.Fatalf("expected ErrCampaignNotActive, got %v", err)
	}
}

func TestPlay_ZeroStockDemotesWinToLoss(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1"},
		&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: 10, RemainingStock: 0})

	// base rate forces a winning draw, the commit has nothing to hand out
	svc := newTestService(store, fixedRNG{0.5}, alwaysWinConfig(), now)

	result, err := svc.Play(context.Background(), 1, 7, "tok-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsWinner {
		t.Fatal("win must be demoted when no stock remains")
	}
	if store.winCount() != 0 {
		t.Fatalf("ledger recorded %d wins with zero stock", store.winCount())
	}
	if store.remainingStock() != 0 {
		t.Fatalf("stock went negative: %d", store.remainingStock())
	}
}

func TestPlay_ConcurrentSameToken(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1"},
		&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: 100, RemainingStock: 100})
	svc := newTestService(store, fixedRNG{0.5}, neverWinConfig(), now)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Play(context.Background(), 1, uint(i+1), "tok-1", nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrTokenAlreadyUsed):
		default:
			t.Fatalf("attempt %d: unexpected error %v", i, err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly 1 successful play, got %d", succeeded)
	}
	if len(store.events) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(store.events))
	}
}

func TestPlay_ConcurrentStockNeverOversold(t *testing.T) {
	now := time.Now()

	const stock = 5
	const players = 50

	codes := make([]string, players)
	for i := range codes {
		codes[i] = fmt.Sprintf("tok-%d", i)
	}
	store := newMemStore(codes,
		&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: stock, RemainingStock: stock})

	// every draw wins, so only the stock guard limits awards
	svc := newTestService(store, fixedRNG{0.5}, alwaysWinConfig(), now)

	var wg sync.WaitGroup
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Play(context.Background(), 1, uint(i+1), codes[i], nil); err != nil {
				t.Errorf("player %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if got := store.winCount(); got != stock {
		t.Fatalf("expected exactly %d wins, got %d", stock, got)
	}
	if got := store.remainingStock(); got != 0 {
		t.Fatalf("expected stock fully drained, got %d", got)
	}
	if len(store.events) != players {
		t.Fatalf("expected %d ledger rows, got %d", players, len(store.events))
	}
}

// flakyLedger fails CommitPlay with an allocation conflict a fixed number of
// times before delegating to the real store.
type flakyLedger struct {
	*memStore
	mu       sync.Mutex
	failures int
}

func (f *flakyLedger) CommitPlay(ctx context.Context, commit PlayCommit) (domain.PlayEvent, *domain.PrizeType, error) {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return domain.PlayEvent{}, nil, ErrAllocationConflict
	}
	f.mu.Unlock()
	return f.memStore.CommitPlay(ctx, commit)
}

func TestPlay_RetriesAllocationConflicts(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1"},
		&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: 10, RemainingStock: 10})
	ledger := &flakyLedger{memStore: store, failures: 2}

	svc := NewEngineService(&fakePromoRepo{promo: testPromotion(now)}, store, store, ledger, nil, neverWinConfig()).
		WithRandomSource(fixedRNG{0.5}).
		WithClock(func() time.Time { return now })

	if _, err := svc.Play(context.Background(), 1, 7, "tok-1", nil); err != nil {
		t.Fatalf("expected retry to absorb two conflicts, got %v", err)
	}

	t.Run("persistent conflict surfaces", func(t *testing.T) {
		store := newMemStore([]string{"tok-1"},
			&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: 10, RemainingStock: 10})
		ledger := &flakyLedger{memStore: store, failures: maxCommitRetries + 10}

		svc := NewEngineService(&fakePromoRepo{promo: testPromotion(now)}, store, store, ledger, nil, neverWinConfig()).
			WithRandomSource(fixedRNG{0.5}).
			WithClock(func() time.Time { return now })

		if _, err := svc.Play(context.Background(), 1, 7, "tok-1", nil); !errors.Is(err, ErrAllocationConflict) {
			t.Fatalf("expected ErrAllocationConflict after exhausted retries, got %v", err)
		}
	})
}

func TestPlay_CancelledContext(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1"})
	svc := newTestService(store, fixedRNG{0.5}, DefaultConfig(), now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Play(ctx, 1, 7, "tok-1", nil); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestEvaluate_DryRun(t *testing.T) {
	now := time.Now()
	store := newMemStore([]string{"tok-1", "tok-2"},
		&domain.PrizeType{ID: 1, PromotionID: 1, Name: "mug", InitialStock: 10, RemainingStock: 10})
	svc := newTestService(store, fixedRNG{0.5}, calmConfig(), now)

	p, bd, err := svc.Evaluate(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p <= 0 || p > 1 {
		t.Fatalf("probability %v out of range", p)
	}
	if bd.Base == 0 {
		t.Fatal("expected a nonzero base with stock and tokens available")
	}

	// a dry run must not consume tokens or stock
	if n, _ := store.CountAvailable(context.Background(), 1); n != 2 {
		t.Fatalf("dry run consumed tokens, %d left", n)
	}
	if store.remainingStock() != 10 {
		t.Fatalf("dry run touched stock, %d left", store.remainingStock())
	}
	if len(store.events) != 0 {
		t.Fatalf("dry run wrote %d ledger rows", len(store.events))
	}
}
