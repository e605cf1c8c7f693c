package engine

import (
	"instaWin/domain"
)

// PrizePicker chooses one index out of a non-empty slice of prize types that
// all still have stock. The pick itself carries no side effects; the
// transactional commit owns the actual decrement and may call Pick again if
// the chosen prize lost its last unit to a concurrent play.
type PrizePicker interface {
	Pick(prizes []domain.PrizeType) int
}

// NewPrizePicker builds the picker for a configured selection policy.
// Unknown policies fall back to weighted, but the config validator rejects
// those before they can be stored.
func NewPrizePicker(policy string, rng RandomSource) PrizePicker {
	switch policy {
	case domain.SelectionUniform:
		return uniformPicker{rng: rng}
	case domain.SelectionPriority:
		return priorityPicker{}
	default:
		return weightedPicker{rng: rng}
	}
}

// uniformPicker: every prize type with stock is equally likely.
type uniformPicker struct {
	rng RandomSource
}

func (s uniformPicker) Pick(prizes []domain.PrizeType) int {
	return s.rng.Intn(len(prizes))
}

// weightedPicker: likelihood proportional to remaining stock, so large pools
// drain faster and no single prize is stranded at campaign end.
type weightedPicker struct {
	rng RandomSource
}

func (s weightedPicker) Pick(prizes []domain.PrizeType) int {
	total := 0
	for _, p := range prizes {
		if p.RemainingStock > 0 {
			total += p.RemainingStock
		}
	}
	if total <= 0 {
		return s.rng.Intn(len(prizes))
	}

	r := s.rng.Intn(total)
	for i, p := range prizes {
		if p.RemainingStock <= 0 {
			continue
		}
		r -= p.RemainingStock
		if r < 0 {
			return i
		}
	}
	return len(prizes) - 1
}

// priorityPicker: callers supply prizes ordered by priority, so the first
// entry is always the next to hand out.
type priorityPicker struct{}

func (priorityPicker) Pick(prizes []domain.PrizeType) int {
	return 0
}
