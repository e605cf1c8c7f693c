package engine

import (
	"context"
	"fmt"

	"instaWin/domain"
)

// Config is the engine-internal view of a promotion's tuning record. It is
// loaded once per play and never mutated by the engine.
type Config struct {
	// BaseRate overrides the derived stock/tokens base probability when > 0.
	BaseRate float64

	FatigueEnabled         bool
	FatiguePlayThreshold   int
	FatiguePlayBasePenalty float64
	FatiguePlayIncrement   float64
	FatiguePlayMax         float64
	FatigueWinPenalty      float64
	FatigueWinMax          float64
	FatigueMinProbability  float64

	PacingEnabled           bool
	PacingTooFastThreshold  float64
	PacingTooFastMultiplier float64
	PacingFastThreshold     float64
	PacingFastMultiplier    float64
	PacingSlowThreshold     float64
	PacingSlowMultiplier    float64
	PacingTooSlowThreshold  float64
	PacingTooSlowMultiplier float64

	TimePressureEnabled      bool
	TimeConservationStartMin float64
	TimeDistributionStartMin float64
	TimeFinalStartMin        float64
	TimeConservationBoost    float64
	TimeDistributionMax      float64
	TimeFinalBoost           float64

	ForceWinEnabled      bool
	ForceWinThresholdMin float64

	DesperationModeEnabled bool
	DesperationStartMin    float64

	MaxProbability float64
	MinProbability float64

	PrizeSelectionPolicy string
	LoggingEnabled       bool
}

const (
	defaultFatiguePlayThreshold   = 5
	defaultFatiguePlayBasePenalty = 0.10
	defaultFatiguePlayIncrement   = 0.05
	defaultFatiguePlayMax         = 0.60
	defaultFatigueWinPenalty      = 0.25
	defaultFatigueWinMax          = 0.75
	defaultFatigueMinProbability  = 0.01

	defaultPacingTooFastThreshold  = 1.5
	defaultPacingTooFastMultiplier = 0.5
	defaultPacingFastThreshold     = 1.2
	defaultPacingFastMultiplier    = 0.8
	defaultPacingSlowThreshold     = 0.8
	defaultPacingSlowMultiplier    = 1.2
	defaultPacingTooSlowThreshold  = 0.5
	defaultPacingTooSlowMultiplier = 1.5

	defaultTimeConservationStartMin = 240
	defaultTimeDistributionStartMin = 60
	defaultTimeFinalStartMin        = 15
	defaultTimeConservationBoost    = 1.1
	defaultTimeDistributionMax      = 1.5
	defaultTimeFinalBoost           = 2.0

	defaultForceWinThresholdMin = 5
	defaultDesperationStartMin  = 3

	defaultMaxProbability = 0.95
	defaultMinProbability = 0.0
)

func DefaultConfig() Config {
	return Config{
		FatigueEnabled:         true,
		FatiguePlayThreshold:   defaultFatiguePlayThreshold,
		FatiguePlayBasePenalty: defaultFatiguePlayBasePenalty,
		FatiguePlayIncrement:   defaultFatiguePlayIncrement,
		FatiguePlayMax:         defaultFatiguePlayMax,
		FatigueWinPenalty:      defaultFatigueWinPenalty,
		FatigueWinMax:          defaultFatigueWinMax,
		FatigueMinProbability:  defaultFatigueMinProbability,

		PacingEnabled:           true,
		PacingTooFastThreshold:  defaultPacingTooFastThreshold,
		PacingTooFastMultiplier: defaultPacingTooFastMultiplier,
		PacingFastThreshold:     defaultPacingFastThreshold,
		PacingFastMultiplier:    defaultPacingFastMultiplier,
		PacingSlowThreshold:     defaultPacingSlowThreshold,
		PacingSlowMultiplier:    defaultPacingSlowMultiplier,
		PacingTooSlowThreshold:  defaultPacingTooSlowThreshold,
		PacingTooSlowMultiplier: defaultPacingTooSlowMultiplier,

		TimePressureEnabled:      true,
		TimeConservationStartMin: defaultTimeConservationStartMin,
		TimeDistributionStartMin: defaultTimeDistributionStartMin,
		TimeFinalStartMin:        defaultTimeFinalStartMin,
		TimeConservationBoost:    defaultTimeConservationBoost,
		TimeDistributionMax:      defaultTimeDistributionMax,
		TimeFinalBoost:           defaultTimeFinalBoost,

		ForceWinEnabled:      false,
		ForceWinThresholdMin: defaultForceWinThresholdMin,

		DesperationModeEnabled: false,
		DesperationStartMin:    defaultDesperationStartMin,

		MaxProbability: defaultMaxProbability,
		MinProbability: defaultMinProbability,

		PrizeSelectionPolicy: domain.SelectionWeighted,
		LoggingEnabled:       false,
	}
}

// Validate rejects configs that violate engine invariants. Callers on the
// admin write path must refuse to persist a config that fails here; the
// engine never repairs a bad config at play time.
func (cfg Config) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrConfigurationInvalid, fmt.Sprintf(format, args...))
	}

	if cfg.MinProbability < 0 || cfg.MinProbability > 1 {
		return fail("minProbability %v out of [0,1]", cfg.MinProbability)
	}
	if cfg.MaxProbability < 0 || cfg.MaxProbability > 1 {
		return fail("maxProbability %v out of [0,1]", cfg.MaxProbability)
	}
	if cfg.MinProbability > cfg.MaxProbability {
		return fail("minProbability %v > maxProbability %v", cfg.MinProbability, cfg.MaxProbability)
	}
	if cfg.BaseRate < 0 || cfg.BaseRate > 1 {
		return fail("baseRate %v out of [0,1]", cfg.BaseRate)
	}

	if cfg.FatigueEnabled {
		if cfg.FatiguePlayThreshold < 0 {
			return fail("fatiguePlayThreshold must not be negative")
		}
		for name, v := range map[string]float64{
			"fatiguePlayBasePenalty": cfg.FatiguePlayBasePenalty,
			"fatiguePlayIncrement":   cfg.FatiguePlayIncrement,
			"fatiguePlayMax":         cfg.FatiguePlayMax,
			"fatigueWinPenalty":      cfg.FatigueWinPenalty,
			"fatigueWinMax":          cfg.FatigueWinMax,
			"fatigueMinProbability":  cfg.FatigueMinProbability,
		} {
			if v < 0 || v > 1 {
				return fail("%s %v out of [0,1]", name, v)
			}
		}
		if cfg.FatiguePlayBasePenalty > cfg.FatiguePlayMax {
			return fail("fatiguePlayBasePenalty exceeds fatiguePlayMax")
		}
		if cfg.FatigueWinPenalty > cfg.FatigueWinMax {
			return fail("fatigueWinPenalty exceeds fatigueWinMax")
		}
	}

	if cfg.PacingEnabled {
		for name, v := range map[string]float64{
			"pacingTooFastMultiplier": cfg.PacingTooFastMultiplier,
			"pacingFastMultiplier":    cfg.PacingFastMultiplier,
			"pacingSlowMultiplier":    cfg.PacingSlowMultiplier,
			"pacingTooSlowMultiplier": cfg.PacingTooSlowMultiplier,
		} {
			if v <= 0 {
				return fail("%s must be positive, got %v", name, v)
			}
		}
		if cfg.PacingTooFastThreshold < cfg.PacingFastThreshold {
			return fail("pacingTooFastThreshold below pacingFastThreshold")
		}
		if cfg.PacingTooSlowThreshold > cfg.PacingSlowThreshold {
			return fail("pacingTooSlowThreshold above pacingSlowThreshold")
		}
		if cfg.PacingFastThreshold <= cfg.PacingSlowThreshold {
			return fail("pacing fast/slow thresholds overlap")
		}
	}

	if cfg.TimePressureEnabled {
		if cfg.TimeFinalStartMin < 0 || cfg.TimeDistributionStartMin < 0 || cfg.TimeConservationStartMin < 0 {
			return fail("time pressure thresholds must not be negative")
		}
		if cfg.TimeFinalStartMin > cfg.TimeDistributionStartMin ||
			cfg.TimeDistributionStartMin > cfg.TimeConservationStartMin {
			return fail("time pressure thresholds must satisfy final <= distribution <= conservation")
		}
		if cfg.TimeConservationBoost <= 0 || cfg.TimeDistributionMax <= 0 || cfg.TimeFinalBoost <= 0 {
			return fail("time pressure boosts must be positive")
		}
	}

	if cfg.ForceWinEnabled && cfg.ForceWinThresholdMin < 0 {
		return fail("forceWinThresholdMin must not be negative")
	}
	if cfg.DesperationModeEnabled && cfg.DesperationStartMin < 0 {
		return fail("desperationStartMin must not be negative")
	}

	switch cfg.PrizeSelectionPolicy {
	case domain.SelectionUniform, domain.SelectionWeighted, domain.SelectionPriority:
	default:
		return fail("unknown prizeSelectionPolicy %q", cfg.PrizeSelectionPolicy)
	}

	return nil
}

// ConfigRepository reads and writes the per-promotion tuning record.
type ConfigRepository interface {
	GetConfig(ctx context.Context, promotionID uint) (domain.EngineConfig, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.EngineConfig) error
}
