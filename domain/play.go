package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
)

// PlayEvent is one row of the append-only play ledger. Rows are created
// exactly once per token and never updated or deleted; once committed the
// outcome is final.
type PlayEvent struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PromotionID uint   `gorm:"column:promotion_id;not null;index" json:"promotion_id"`
	TokenID     uint   `gorm:"column:token_id;not null;uniqueIndex" json:"token_id"`
	PlayerID    uint   `gorm:"column:player_id;not null;index" json:"player_id"`
	Outcome     string `gorm:"column:outcome;type:text;not null" json:"outcome"`

	PrizeTypeID    *uint  `gorm:"column:prize_type_id" json:"prize_type_id,omitempty"`
	PrizeTypeName  string `gorm:"-" json:"prize_type_name,omitempty"`
	RedemptionCode string `gorm:"column:redemption_code;type:text" json:"redemption_code,omitempty"`

	Context   datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PlayEvent) TableName() string {
	return "play_events"
}

// PlayerHistory is derived from the ledger, not stored: counts of a player's
// plays and wins inside one promotion, strictly before the current request.
type PlayerHistory struct {
	PlaysSoFar int `json:"plays_so_far"`
	WinsSoFar  int `json:"wins_so_far"`
}

// PrizeAssignment is what a winning player walks away with.
type PrizeAssignment struct {
	PrizeTypeName  string `json:"prize_type_name"`
	RedemptionCode string `json:"redemption_code"`
}

// PlayResult is the outcome returned to the play endpoint.
type PlayResult struct {
	IsWinner        bool             `json:"is_winner"`
	PrizeAssignment *PrizeAssignment `json:"prize_assignment"`
}
