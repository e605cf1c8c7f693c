package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"instaWin/domain"
	"instaWin/pkg/logger"

	"github.com/google/uuid"
)

// maxCommitRetries bounds transparent retries of the play transaction on
// allocation conflicts before the failure is surfaced.
const maxCommitRetries = 3

// ---- Repository interfaces ----

type PromotionRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Promotion, bool, error)
}

type TokenRepository interface {
	FindByCode(ctx context.Context, promotionID uint, code string) (domain.Token, bool, error)
	CountAvailable(ctx context.Context, promotionID uint) (int, error)
}

type StockRepository interface {
	// Totals returns the summed initial and remaining stock across the
	// promotion's prize types.
	Totals(ctx context.Context, promotionID uint) (initial int, remaining int, err error)
}

// PlayCommit is one atomic unit: consume the token, decrement the chosen
// prize's stock, insert the play event. All or nothing.
type PlayCommit struct {
	PromotionID    uint
	TokenCode      string
	PlayerID       uint
	Win            bool
	RedemptionCode string
	Picker         PrizePicker
	Context        map[string]any
}

type LedgerRepository interface {
	PlayerHistory(ctx context.Context, promotionID, playerID uint) (domain.PlayerHistory, error)

	// CommitPlay runs the transactional commit path. A win with no remaining
	// stock anywhere is demoted to a loss inside the transaction, in which
	// case the returned prize is nil and the event outcome is a loss.
	CommitPlay(ctx context.Context, commit PlayCommit) (domain.PlayEvent, *domain.PrizeType, error)
}

// ---- Service ----

type EngineService struct {
	promoRepo  PromotionRepository
	tokenRepo  TokenRepository
	stockRepo  StockRepository
	ledger     LedgerRepository
	cfgRepo    ConfigRepository
	defaultCfg Config
	rng        RandomSource
	now        func() time.Time
}

func NewEngineService(
	promoRepo PromotionRepository,
	tokenRepo TokenRepository,
	stockRepo StockRepository,
	ledger LedgerRepository,
	cfgRepo ConfigRepository,
	defaultCfg Config,
) *EngineService {
	return &EngineService{
		promoRepo:  promoRepo,
		tokenRepo:  tokenRepo,
		stockRepo:  stockRepo,
		ledger:     ledger,
		cfgRepo:    cfgRepo,
		defaultCfg: defaultCfg,
		rng:        DefaultRNG(),
		now:        time.Now,
	}
}

// WithRandomSource swaps the randomness behind draws and prize selection.
func (s *EngineService) WithRandomSource(rng RandomSource) *EngineService {
	s.rng = rng
	return s
}

// WithClock swaps the wall clock.
func (s *EngineService) WithClock(now func() time.Time) *EngineService {
	s.now = now
	return s
}

// Play resolves one play attempt end to end: clock check, token check,
// probability evaluation, win draw, and the atomic commit (with bounded
// retry on conflicts). The returned result is final once this returns nil.
func (s *EngineService) Play(
	ctx context.Context,
	promotionID uint,
	playerID uint,
	tokenCode string,
	playCtx map[string]any,
) (domain.PlayResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PlayResult{}, fmt.Errorf("context error: %w", err)
	}
	if tokenCode == "" {
		return domain.PlayResult{}, ErrTokenInvalid
	}

	// 1) campaign clock; rejects before anything is touched
	promo, ok, err := s.promoRepo.FindByID(ctx, promotionID)
	if err != nil {
		return domain.PlayResult{}, fmt.Errorf("load promotion: %w", err)
	}
	if !ok {
		return domain.PlayResult{}, ErrCampaignNotActive
	}

	clock, err := ReadCampaignClock(s.now(), promo)
	if err != nil {
		return domain.PlayResult{}, err
	}

	// 2) token pre-check, so a replayed token never reaches a second
	// probability evaluation; the commit re-checks under the transaction
	token, ok, err := s.tokenRepo.FindByCode(ctx, promotionID, tokenCode)
	if err != nil {
		return domain.PlayResult{}, fmt.Errorf("load token: %w", err)
	}
	if !ok {
		return domain.PlayResult{}, ErrTokenInvalid
	}
	if token.Status != domain.TokenStatusAvailable {
		return domain.PlayResult{}, ErrTokenAlreadyUsed
	}

	// 3) gather calculator inputs
	cfg := s.loadConfig(ctx, promotionID)

	history, err := s.ledger.PlayerHistory(ctx, promotionID, playerID)
	if err != nil {
		return domain.PlayResult{}, fmt.Errorf("load player history: %w", err)
	}

	initialStock, remainingStock, err := s.stockRepo.Totals(ctx, promotionID)
	if err != nil {
		return domain.PlayResult{}, fmt.Errorf("load stock totals: %w", err)
	}

	remainingTokens, err := s.tokenRepo.CountAvailable(ctx, promotionID)
	if err != nil {
		return domain.PlayResult{}, fmt.Errorf("count remaining tokens: %w", err)
	}

	in := EvalInput{
		PlaysSoFar:      history.PlaysSoFar,
		WinsSoFar:       history.WinsSoFar,
		RemainingStock:  remainingStock,
		TotalStock:      initialStock,
		AwardedSoFar:    initialStock - remainingStock,
		RemainingTokens: remainingTokens,
		Clock:           clock,
	}

	// 4) decide
	p, breakdown := ComputeProbability(in, cfg)
	win := Draw(p, s.rng)

	WinProbability.Observe(p)

	if cfg.LoggingEnabled {
		logger.Debug("play_probability",
			"trace_id", TraceIDFromContext(ctx),
			"promotion_id", promotionID,
			"player_id", playerID,
			"base", breakdown.Base,
			"after_fatigue", breakdown.AfterFatigue,
			"after_pacing", breakdown.AfterPacing,
			"after_time_pressure", breakdown.AfterTimePressure,
			"pacing_band", breakdown.PacingBand,
			"time_band", breakdown.TimeBand,
			"override", breakdown.Override,
			"final", p,
			"win", win,
		)
	}

	// 5) commit atomically, retrying transient conflicts
	commit := PlayCommit{
		PromotionID: promotionID,
		TokenCode:   tokenCode,
		PlayerID:    playerID,
		Win:         win,
		Picker:      NewPrizePicker(cfg.PrizeSelectionPolicy, s.rng),
		Context:     playCtx,
	}
	if win {
		commit.RedemptionCode = uuid.NewString()
	}

	event, prize, err := s.commitWithRetry(ctx, commit)
	if err != nil {
		return domain.PlayResult{}, err
	}

	promoLabel := strconv.FormatUint(uint64(promotionID), 10)
	PlaysTotal.WithLabelValues(promoLabel, event.Outcome).Inc()
	if win && event.Outcome == domain.OutcomeLoss {
		// stock ran out between evaluation and commit
		StockDemotions.Inc()
	}

	result := domain.PlayResult{IsWinner: event.Outcome == domain.OutcomeWin}
	if result.IsWinner && prize != nil {
		result.PrizeAssignment = &domain.PrizeAssignment{
			PrizeTypeName:  prize.Name,
			RedemptionCode: event.RedemptionCode,
		}
	}

	return result, nil
}

func (s *EngineService) commitWithRetry(ctx context.Context, commit PlayCommit) (domain.PlayEvent, *domain.PrizeType, error) {
	var lastErr error

	for attempt := 0; attempt <= maxCommitRetries; attempt++ {
		event, prize, err := s.ledger.CommitPlay(ctx, commit)
		if err == nil {
			return event, prize, nil
		}
		if !errors.Is(err, ErrAllocationConflict) {
			return domain.PlayEvent{}, nil, err
		}

		lastErr = err
		AllocationRetries.Inc()
	}

	return domain.PlayEvent{}, nil, fmt.Errorf("play commit failed after %d retries: %w", maxCommitRetries, lastErr)
}

// Evaluate runs the probability pipeline for the current campaign state
// without drawing or committing anything. Admin dry-run surface.
func (s *EngineService) Evaluate(
	ctx context.Context,
	promotionID uint,
	playerID uint,
) (float64, Breakdown, error) {
	if err := ctx.Err(); err != nil {
		return 0, Breakdown{}, fmt.Errorf("context error: %w", err)
	}

	promo, ok, err := s.promoRepo.FindByID(ctx, promotionID)
	if err != nil {
		return 0, Breakdown{}, fmt.Errorf("load promotion: %w", err)
	}
	if !ok {
		return 0, Breakdown{}, ErrCampaignNotActive
	}

	clock, err := ReadCampaignClock(s.now(), promo)
	if err != nil {
		return 0, Breakdown{}, err
	}

	cfg := s.loadConfig(ctx, promotionID)

	history, err := s.ledger.PlayerHistory(ctx, promotionID, playerID)
	if err != nil {
		return 0, Breakdown{}, fmt.Errorf("load player history: %w", err)
	}

	initialStock, remainingStock, err := s.stockRepo.Totals(ctx, promotionID)
	if err != nil {
		return 0, Breakdown{}, fmt.Errorf("load stock totals: %w", err)
	}

	remainingTokens, err := s.tokenRepo.CountAvailable(ctx, promotionID)
	if err != nil {
		return 0, Breakdown{}, fmt.Errorf("count remaining tokens: %w", err)
	}

	p, breakdown := ComputeProbability(EvalInput{
		PlaysSoFar:      history.PlaysSoFar,
		WinsSoFar:       history.WinsSoFar,
		RemainingStock:  remainingStock,
		TotalStock:      initialStock,
		AwardedSoFar:    initialStock - remainingStock,
		RemainingTokens: remainingTokens,
		Clock:           clock,
	}, cfg)

	return p, breakdown, nil
}
