package engine

import (
	"context"

	"instaWin/domain"
)

// loadConfig resolves the effective config for a promotion: the stored record
// when one exists, the service defaults otherwise.
func (s *EngineService) loadConfig(ctx context.Context, promotionID uint) Config {
	if s.cfgRepo == nil {
		return s.defaultCfg
	}

	dbCfg, ok, err := s.cfgRepo.GetConfig(ctx, promotionID)
	if err != nil || !ok {
		return s.defaultCfg
	}

	return FromDomain(dbCfg, s.defaultCfg)
}

// FromDomain maps a stored config row onto an engine Config, starting from
// base so unset textual fields keep sane fallbacks.
func FromDomain(d domain.EngineConfig, base Config) Config {
	cfg := base

	cfg.BaseRate = d.BaseRate

	cfg.FatigueEnabled = d.FatigueEnabled
	cfg.FatiguePlayThreshold = d.FatiguePlayThreshold
	cfg.FatiguePlayBasePenalty = d.FatiguePlayBasePenalty
	cfg.FatiguePlayIncrement = d.FatiguePlayIncrement
	cfg.FatiguePlayMax = d.FatiguePlayMax
	cfg.FatigueWinPenalty = d.FatigueWinPenalty
	cfg.FatigueWinMax = d.FatigueWinMax
	cfg.FatigueMinProbability = d.FatigueMinProbability

	cfg.PacingEnabled = d.PacingEnabled
	cfg.PacingTooFastThreshold = d.PacingTooFastThreshold
	cfg.PacingTooFastMultiplier = d.PacingTooFastMultiplier
	cfg.PacingFastThreshold = d.PacingFastThreshold
	cfg.PacingFastMultiplier = d.PacingFastMultiplier
	cfg.PacingSlowThreshold = d.PacingSlowThreshold
	cfg.PacingSlowMultiplier = d.PacingSlowMultiplier
	cfg.PacingTooSlowThreshold = d.PacingTooSlowThreshold
	cfg.PacingTooSlowMultiplier = d.PacingTooSlowMultiplier

	cfg.TimePressureEnabled = d.TimePressureEnabled
	cfg.TimeConservationStartMin = d.TimeConservationStartMin
	cfg.TimeDistributionStartMin = d.TimeDistributionStartMin
	cfg.TimeFinalStartMin = d.TimeFinalStartMin
	cfg.TimeConservationBoost = d.TimeConservationBoost
	cfg.TimeDistributionMax = d.TimeDistributionMax
	cfg.TimeFinalBoost = d.TimeFinalBoost

	cfg.ForceWinEnabled = d.ForceWinEnabled
	cfg.ForceWinThresholdMin = d.ForceWinThresholdMin

	cfg.DesperationModeEnabled = d.DesperationModeEnabled
	cfg.DesperationStartMin = d.DesperationStartMin

	cfg.MaxProbability = d.MaxProbability
	cfg.MinProbability = d.MinProbability

	if d.PrizeSelectionPolicy != "" {
		cfg.PrizeSelectionPolicy = d.PrizeSelectionPolicy
	}
	cfg.LoggingEnabled = d.LoggingEnabled

	return cfg
}

// ToDomain maps an engine Config back to its stored shape for a promotion.
func ToDomain(promotionID uint, cfg Config) domain.EngineConfig {
	return domain.EngineConfig{
		PromotionID: promotionID,

		BaseRate: cfg.BaseRate,

		FatigueEnabled:         cfg.FatigueEnabled,
		FatiguePlayThreshold:   cfg.FatiguePlayThreshold,
		FatiguePlayBasePenalty: cfg.FatiguePlayBasePenalty,
		FatiguePlayIncrement:   cfg.FatiguePlayIncrement,
		FatiguePlayMax:         cfg.FatiguePlayMax,
		FatigueWinPenalty:      cfg.FatigueWinPenalty,
		FatigueWinMax:          cfg.FatigueWinMax,
		FatigueMinProbability:  cfg.FatigueMinProbability,

		PacingEnabled:           cfg.PacingEnabled,
		PacingTooFastThreshold:  cfg.PacingTooFastThreshold,
		PacingTooFastMultiplier: cfg.PacingTooFastMultiplier,
		PacingFastThreshold:     cfg.PacingFastThreshold,
		PacingFastMultiplier:    cfg.PacingFastMultiplier,
		PacingSlowThreshold:     cfg.PacingSlowThreshold,
		PacingSlowMultiplier:    cfg.PacingSlowMultiplier,
		PacingTooSlowThreshold:  cfg.PacingTooSlowThreshold,
		PacingTooSlowMultiplier: cfg.PacingTooSlowMultiplier,

		TimePressureEnabled:      cfg.TimePressureEnabled,
		TimeConservationStartMin: cfg.TimeConservationStartMin,
		TimeDistributionStartMin: cfg.TimeDistributionStartMin,
		TimeFinalStartMin:        cfg.TimeFinalStartMin,
		TimeConservationBoost:    cfg.TimeConservationBoost,
		TimeDistributionMax:      cfg.TimeDistributionMax,
		TimeFinalBoost:           cfg.TimeFinalBoost,

		ForceWinEnabled:      cfg.ForceWinEnabled,
		ForceWinThresholdMin: cfg.ForceWinThresholdMin,

		DesperationModeEnabled: cfg.DesperationModeEnabled,
		DesperationStartMin:    cfg.DesperationStartMin,

		MaxProbability: cfg.MaxProbability,
		MinProbability: cfg.MinProbability,

		PrizeSelectionPolicy: cfg.PrizeSelectionPolicy,
		LoggingEnabled:       cfg.LoggingEnabled,
	}
}
