package engine

// EvalInput is everything the probability pipeline needs for one play. It is
// assembled fresh per request; campaign state moves continuously, so nothing
// here is ever cached across plays.
type EvalInput struct {
	PlaysSoFar int
	WinsSoFar  int

	RemainingStock  int
	TotalStock      int
	AwardedSoFar    int
	RemainingTokens int

	Clock ClockReading
}

// Breakdown records the probability after each stage, for the debug log and
// for stage-level tests.
type Breakdown struct {
	Base              float64
	AfterFatigue      float64
	AfterPacing       float64
	AfterTimePressure float64
	Final             float64

	PacingBand string
	TimeBand   string
	Override   string // "desperation" or "force_win" when an override fired
}

// Pacing bands, most extreme first.
const (
	bandTooFast = "too_fast"
	bandFast    = "fast"
	bandSlow    = "slow"
	bandTooSlow = "too_slow"
	bandOnPace  = "on_pace"
)

// ComputeProbability runs the adjustment pipeline and returns the final win
// probability. Pure: no I/O, no mutation, same inputs always give the same
// answer. Precedence: desperation > force-win > time-pressure > pacing >
// fatigue > base, with the global clamp applied to the pipeline output and
// the two overrides sitting above the clamp (they guarantee the win outright;
// stock availability is still settled at commit).
func ComputeProbability(in EvalInput, cfg Config) (float64, Breakdown) {
	var bd Breakdown

	if cfg.DesperationModeEnabled &&
		in.Clock.MinutesRemaining <= cfg.DesperationStartMin &&
		in.RemainingStock > 0 {
		bd.Override = "desperation"
		bd.Final = 1
		return 1, bd
	}

	if cfg.ForceWinEnabled &&
		in.Clock.MinutesRemaining <= cfg.ForceWinThresholdMin &&
		in.RemainingStock > 0 &&
		in.RemainingStock >= in.RemainingTokens {
		bd.Override = "force_win"
		bd.Final = 1
		return 1, bd
	}

	p := baseProbability(in, cfg)
	bd.Base = p

	p = applyFatigue(p, in, cfg)
	bd.AfterFatigue = p

	p, bd.PacingBand = applyPacing(p, in, cfg)
	bd.AfterPacing = p

	p, bd.TimeBand = applyTimePressure(p, in, cfg)
	bd.AfterTimePressure = p

	p = clampProbability(p, cfg)
	bd.Final = p

	return p, bd
}

// baseProbability is the naive fair-pacing rate: spread the remaining stock
// evenly across the remaining planned plays. A configured BaseRate wins over
// the derived value.
func baseProbability(in EvalInput, cfg Config) float64 {
	if cfg.BaseRate > 0 {
		return cfg.BaseRate
	}

	if in.RemainingStock <= 0 {
		return 0
	}

	if in.RemainingTokens <= 0 {
		// no planned plays left but stock remains; let the late-campaign
		// stages see a maximal input
		return 1
	}

	p := float64(in.RemainingStock) / float64(in.RemainingTokens)
	if p > 1 {
		p = 1
	}
	return p
}

// applyFatigue throttles repeat players. The penalty grows per play beyond
// the threshold and per prior win, but fatigue alone never pushes the
// probability below FatigueMinProbability.
func applyFatigue(p float64, in EvalInput, cfg Config) float64 {
	if !cfg.FatigueEnabled {
		return p
	}

	before := p

	if in.PlaysSoFar >= cfg.FatiguePlayThreshold {
		pen := cfg.FatiguePlayBasePenalty +
			cfg.FatiguePlayIncrement*float64(in.PlaysSoFar-cfg.FatiguePlayThreshold)
		if pen > cfg.FatiguePlayMax {
			pen = cfg.FatiguePlayMax
		}
		p *= 1 - pen
	}

	if in.WinsSoFar > 0 {
		pen := cfg.FatigueWinPenalty * float64(in.WinsSoFar)
		if pen > cfg.FatigueWinMax {
			pen = cfg.FatigueWinMax
		}
		p *= 1 - pen
	}

	if floor := cfg.FatigueMinProbability; p < floor {
		// only fatigue is forbidden from crossing the floor; if the input was
		// already below it, leave it where it was
		if before < floor {
			return before
		}
		return floor
	}

	return p
}

// applyPacing compares the actual distribution rate against the ideal rate
// implied by elapsed time and applies exactly one band multiplier, most
// extreme matching band first.
func applyPacing(p float64, in EvalInput, cfg Config) (float64, string) {
	if !cfg.PacingEnabled || in.TotalStock <= 0 || in.Clock.ElapsedFraction <= 0 {
		return p, bandOnPace
	}

	ideal := in.Clock.ElapsedFraction
	actual := float64(in.AwardedSoFar) / float64(in.TotalStock)
	ratio := actual / ideal

	switch {
	case ratio > cfg.PacingTooFastThreshold:
		return p * cfg.PacingTooFastMultiplier, bandTooFast
	case ratio < cfg.PacingTooSlowThreshold:
		return p * cfg.PacingTooSlowMultiplier, bandTooSlow
	case ratio > cfg.PacingFastThreshold:
		return p * cfg.PacingFastMultiplier, bandFast
	case ratio < cfg.PacingSlowThreshold:
		return p * cfg.PacingSlowMultiplier, bandSlow
	}

	return p, bandOnPace
}

// applyTimePressure escalates probability in three steps as the campaign end
// approaches: conservation, then distribution ramping up to
// TimeDistributionMax, then the final boost. Guarantees stock depletes before
// close instead of being stranded.
func applyTimePressure(p float64, in EvalInput, cfg Config) (float64, string) {
	if !cfg.TimePressureEnabled {
		return p, ""
	}

	m := in.Clock.MinutesRemaining

	switch {
	case m <= cfg.TimeFinalStartMin:
		return p * cfg.TimeFinalBoost, "final"

	case m <= cfg.TimeDistributionStartMin:
		span := cfg.TimeDistributionStartMin - cfg.TimeFinalStartMin
		boost := cfg.TimeDistributionMax
		if span > 0 {
			// ramp from the conservation boost at the distribution boundary
			// up to TimeDistributionMax at the final boundary
			frac := (cfg.TimeDistributionStartMin - m) / span
			boost = cfg.TimeConservationBoost +
				(cfg.TimeDistributionMax-cfg.TimeConservationBoost)*frac
		}
		return p * boost, "distribution"

	case m <= cfg.TimeConservationStartMin:
		return p * cfg.TimeConservationBoost, "conservation"
	}

	return p, ""
}

func clampProbability(p float64, cfg Config) float64 {
	if p < cfg.MinProbability {
		return cfg.MinProbability
	}
	if p > cfg.MaxProbability {
		return cfg.MaxProbability
	}
	return p
}
