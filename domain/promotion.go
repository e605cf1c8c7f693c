package domain

import (
	"time"
)

const (
	PromotionStatusDraft  = "draft"
	PromotionStatusActive = "active"
	PromotionStatusClosed = "closed"
)

// Promotion is the campaign window. Plays are only valid while the current
// time is inside [StartsAt, EndsAt] and Status is active.
type Promotion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null" json:"name"`
	Status    string    `gorm:"column:status;type:text;not null;default:draft" json:"status"`
	StartsAt  time.Time `gorm:"column:starts_at;not null" json:"starts_at"`
	EndsAt    time.Time `gorm:"column:ends_at;not null" json:"ends_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// PlannedTokens is the number of play tokens the campaign intends to issue,
	// used by the engine as the pacing denominator.
	PlannedTokens int `gorm:"column:planned_tokens;default:0" json:"planned_tokens"`
}

func (Promotion) TableName() string {
	return "promotions"
}
