package domain

import (
	"time"
)

// LeaderboardEntry is one row of the per-promotion ranking, recomputed from
// the play ledger on read. Players rank by total plays descending; ties break
// on whoever played first.
type LeaderboardEntry struct {
	Rank      int       `json:"rank" gorm:"-"`
	PlayerID  uint      `json:"player_id" gorm:"column:player_id"`
	Plays     int       `json:"plays" gorm:"column:plays"`
	Wins      int       `json:"wins" gorm:"column:wins"`
	FirstPlay time.Time `json:"first_play" gorm:"column:first_play"`
}
