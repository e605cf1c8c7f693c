package domain

import (
	"time"
)

// Prize selection policies recognized by the stock allocator.
const (
	SelectionUniform  = "uniform"
	SelectionWeighted = "weighted"
	SelectionPriority = "priority"
)

// EngineConfig is the per-promotion tuning record for the allocation engine.
// It is written by the admin surface (validated there, never clamped at play
// time) and read-only to the engine during a play.
type EngineConfig struct {
	PromotionID uint `json:"promotion_id" gorm:"column:promotion_id;primaryKey"`

	// BaseRate overrides the stock/tokens derived base probability when > 0.
	BaseRate float64 `json:"base_rate" gorm:"column:base_rate"`

	FatigueEnabled         bool    `json:"fatigue_enabled" gorm:"column:fatigue_enabled"`
	FatiguePlayThreshold   int     `json:"fatigue_play_threshold" gorm:"column:fatigue_play_threshold"`
	FatiguePlayBasePenalty float64 `json:"fatigue_play_base_penalty" gorm:"column:fatigue_play_base_penalty"`
	FatiguePlayIncrement   float64 `json:"fatigue_play_increment" gorm:"column:fatigue_play_increment"`
	FatiguePlayMax         float64 `json:"fatigue_play_max" gorm:"column:fatigue_play_max"`
	FatigueWinPenalty      float64 `json:"fatigue_win_penalty" gorm:"column:fatigue_win_penalty"`
	FatigueWinMax          float64 `json:"fatigue_win_max" gorm:"column:fatigue_win_max"`
	FatigueMinProbability  float64 `json:"fatigue_min_probability" gorm:"column:fatigue_min_probability"`

	PacingEnabled           bool    `json:"pacing_enabled" gorm:"column:pacing_enabled"`
	PacingTooFastThreshold  float64 `json:"pacing_too_fast_threshold" gorm:"column:pacing_too_fast_threshold"`
	PacingTooFastMultiplier float64 `json:"pacing_too_fast_multiplier" gorm:"column:pacing_too_fast_multiplier"`
	PacingFastThreshold     float64 `json:"pacing_fast_threshold" gorm:"column:pacing_fast_threshold"`
	PacingFastMultiplier    float64 `json:"pacing_fast_multiplier" gorm:"column:pacing_fast_multiplier"`
	PacingSlowThreshold     float64 `json:"pacing_slow_threshold" gorm:"column:pacing_slow_threshold"`
	PacingSlowMultiplier    float64 `json:"pacing_slow_multiplier" gorm:"column:pacing_slow_multiplier"`
	PacingTooSlowThreshold  float64 `json:"pacing_too_slow_threshold" gorm:"column:pacing_too_slow_threshold"`
	PacingTooSlowMultiplier float64 `json:"pacing_too_slow_multiplier" gorm:"column:pacing_too_slow_multiplier"`

	TimePressureEnabled      bool    `json:"time_pressure_enabled" gorm:"column:time_pressure_enabled"`
	TimeConservationStartMin float64 `json:"time_conservation_start_min" gorm:"column:time_conservation_start_min"`
	TimeDistributionStartMin float64 `json:"time_distribution_start_min" gorm:"column:time_distribution_start_min"`
	TimeFinalStartMin        float64 `json:"time_final_start_min" gorm:"column:time_final_start_min"`
	TimeConservationBoost    float64 `json:"time_conservation_boost" gorm:"column:time_conservation_boost"`
	TimeDistributionMax      float64 `json:"time_distribution_max" gorm:"column:time_distribution_max"`
	TimeFinalBoost           float64 `json:"time_final_boost" gorm:"column:time_final_boost"`

	ForceWinEnabled      bool    `json:"force_win_enabled" gorm:"column:force_win_enabled"`
	ForceWinThresholdMin float64 `json:"force_win_threshold_min" gorm:"column:force_win_threshold_min"`

	DesperationModeEnabled bool    `json:"desperation_mode_enabled" gorm:"column:desperation_mode_enabled"`
	DesperationStartMin    float64 `json:"desperation_start_min" gorm:"column:desperation_start_min"`

	MaxProbability float64 `json:"max_probability" gorm:"column:max_probability"`
	MinProbability float64 `json:"min_probability" gorm:"column:min_probability"`

	PrizeSelectionPolicy string `json:"prize_selection_policy" gorm:"column:prize_selection_policy"`
	LoggingEnabled       bool   `json:"logging_enabled" gorm:"column:logging_enabled"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (EngineConfig) TableName() string {
	return "engine_configs"
}
