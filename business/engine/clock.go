package engine

import (
	"time"

	"instaWin/domain"
)

// ClockReading is the campaign clock's view of one instant: how many minutes
// are left in the window and how far through it we are.
type ClockReading struct {
	MinutesRemaining float64
	ElapsedFraction  float64
}

// ReadCampaignClock derives the clock reading for now against the promotion
// window. It fails with ErrCampaignNotActive when the promotion is not active
// or now falls outside [StartsAt, EndsAt], which short-circuits the whole play
// flow before any stock is touched.
func ReadCampaignClock(now time.Time, promo domain.Promotion) (ClockReading, error) {
	if promo.Status != domain.PromotionStatusActive {
		return ClockReading{}, ErrCampaignNotActive
	}

	if now.Before(promo.StartsAt) || now.After(promo.EndsAt) {
		return ClockReading{}, ErrCampaignNotActive
	}

	total := promo.EndsAt.Sub(promo.StartsAt)
	if total <= 0 {
		return ClockReading{}, ErrCampaignNotActive
	}

	elapsed := float64(now.Sub(promo.StartsAt)) / float64(total)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > 1 {
		elapsed = 1
	}

	return ClockReading{
		MinutesRemaining: promo.EndsAt.Sub(now).Minutes(),
		ElapsedFraction:  elapsed,
	}, nil
}
