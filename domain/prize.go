package domain

import (
	"time"
)

// CREATE TABLE public.prize_types (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     promotion_id    BIGINT NOT NULL REFERENCES promotions(id),
//     name            TEXT NOT NULL,
//     initial_stock   INT NOT NULL CHECK (initial_stock >= 0),
//     remaining_stock INT NOT NULL CHECK (remaining_stock >= 0),
//     priority        INT NOT NULL DEFAULT 0,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

// PrizeType holds the finite stock of one prize. RemainingStock only moves
// down through the transactional play commit; the explicit admin reset is the
// single exception.
type PrizeType struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PromotionID    uint      `gorm:"column:promotion_id;not null;index" json:"promotion_id"`
	Name           string    `gorm:"column:name;type:text;not null" json:"name"`
	InitialStock   int       `gorm:"column:initial_stock;not null" json:"initial_stock"`
	RemainingStock int       `gorm:"column:remaining_stock;not null" json:"remaining_stock"`
	Priority       int       `gorm:"column:priority;not null;default:0" json:"priority"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PrizeType) TableName() string {
	return "prize_types"
}

// StockSummary is the admin read model for a promotion's stock position.
type StockSummary struct {
	PromotionID    uint        `json:"promotion_id"`
	InitialStock   int         `json:"initial_stock"`
	RemainingStock int         `json:"remaining_stock"`
	Prizes         []PrizeType `json:"prizes"`
}
