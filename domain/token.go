package domain

import (
	"time"
)

const (
	TokenStatusAvailable = "available"
	TokenStatusUsed      = "used"
)

// Token is the single-use play credential handed out via QR code.
// The available -> used transition happens exactly once, inside the same
// transaction that records the play event.
type Token struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"column:code;type:text;not null;uniqueIndex" json:"code"`
	PromotionID uint       `gorm:"column:promotion_id;not null;index" json:"promotion_id"`
	Status      string     `gorm:"column:status;type:text;not null;default:available" json:"status"`
	UsedAt      *time.Time `gorm:"column:used_at" json:"used_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Token) TableName() string {
	return "tokens"
}

// IssuedToken is the issuance DTO: the raw code plus the base64 payload
// embedded in the printed QR code.
type IssuedToken struct {
	Code      string `json:"code"`
	QRPayload string `json:"qr_payload"`
}
