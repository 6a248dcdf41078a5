// Package timectrl implements a Canadian byo-yomi time system for one side
// of a match. The TimedOut field indicates the player must have lost on
// time; it does not by itself interrupt the match, that is up to whoever is
// keeping score. All times are in milliseconds.
package timectrl

// DefaultLatencyCompensation is the static network round-trip allowance, in
// milliseconds, used until an actual round trip has been measured.
const DefaultLatencyCompensation = 200

// timeAllotFactor front-loads thinking time onto earlier, more impactful
// moves. Must be greater than 1.
const timeAllotFactor = 1.27

// Latency is a read-only network round-trip estimate used when budgeting a
// turn. Until Measure is called it holds a static allowance.
type Latency struct {
	RoundTrip int64
	Measured  bool
}

// Measure records an observed round trip, replacing the static allowance.
func (l *Latency) Measure(roundTripMs int64) {
	if roundTripMs < 0 {
		roundTripMs = 0
	}
	l.RoundTrip = roundTripMs
	l.Measured = true
}

// DefaultLatency returns the static pre-measurement allowance.
func DefaultLatency() Latency {
	return Latency{RoundTrip: DefaultLatencyCompensation}
}

// TimeSystem holds one side's time-control configuration and its remaining
// budgets. The zero value is an untimed clock; use one of the constructors.
// CalcBudget, Format and Parse are pure; AdvanceClock and Reset must be
// serialized by the owner of the match.
type TimeSystem struct {
	MainTime          int64
	MainTimeRemaining int64

	ByoYomiTime          int64
	ByoYomiTimeRemaining int64

	ByoYomiStones          int
	ByoYomiStonesRemaining int

	ByoYomiPeriods          int
	ByoYomiPeriodsRemaining int

	CanTimeout bool
	TimedOut   bool
}

// NewByoYomi sets the complete Canadian byo-yomi time system.
func NewByoYomi(mainTime, byoYomiTime int64, stones, periods int) *TimeSystem {
	return &TimeSystem{
		CanTimeout:              true,
		MainTime:                mainTime,
		MainTimeRemaining:       mainTime,
		ByoYomiTime:             byoYomiTime,
		ByoYomiTimeRemaining:    byoYomiTime,
		ByoYomiStones:           stones,
		ByoYomiStonesRemaining:  stones,
		ByoYomiPeriods:          periods,
		ByoYomiPeriodsRemaining: periods,
	}
}

// NewSuddenDeath sets the time system based only on absolute time.
func NewSuddenDeath(mainTime int64) *TimeSystem {
	return &TimeSystem{
		CanTimeout:        true,
		MainTime:          mainTime,
		MainTimeRemaining: mainTime,
	}
}

// NewFixedPerTurn sets the time system to a constant time per turn. This
// configuration can never time out.
func NewFixedPerTurn(timePerTurn int64) *TimeSystem {
	return &TimeSystem{
		ByoYomiTime:             timePerTurn,
		ByoYomiTimeRemaining:    timePerTurn,
		ByoYomiStones:           1,
		ByoYomiStonesRemaining:  1,
		ByoYomiPeriods:          1,
		ByoYomiPeriodsRemaining: 1,
	}
}

// CalcBudget calculates the time available for the next move, in
// milliseconds, compensating for network latency. It does not mutate the
// clock; the caller adds the result to the current wall-clock time to obtain
// a deadline.
func (ts *TimeSystem) CalcBudget(turnsPlayed, boardSize int, lat Latency) int64 {
	// Decaying estimate of the number of moves left in the game. The floor
	// keeps the division from blowing up near the end of the game.
	e1 := float64(boardSize*boardSize)*2.0/3.0 - float64(turnsPlayed)
	e2 := float64(boardSize) / 4.0
	turnsLeft := max(e1, e2)

	mainShare := float64(ts.MainTimeRemaining) / turnsLeft

	var budget float64
	if ts.ByoYomiStonesRemaining > 0 {
		// Never allocate less than the guaranteed per-stone overtime share.
		byoShare := float64(ts.ByoYomiTimeRemaining) / float64(ts.ByoYomiStonesRemaining)
		budget = max(byoShare, mainShare)
	} else {
		budget = mainShare
	}

	budget *= timeAllotFactor

	if comp := float64(lat.RoundTrip); budget > comp {
		budget -= comp
	}

	return int64(budget)
}

// AdvanceClock consumes elapsed milliseconds from the remaining budgets,
// possibly affecting the timed-out flag. No matter how many period rollovers
// a single call spans, it charges at most one byo-yomi stone; a single
// reported think may straddle periods because elapsed time reaches us in
// coarse chunks.
func (ts *TimeSystem) AdvanceClock(elapsedMs int64) {
	if !ts.CanTimeout || ts.TimedOut {
		return
	}

	consumedStone := false

	for elapsedMs > 0 {
		if ts.MainTimeRemaining > 0 {
			// Absolute period.
			consumed := min(ts.MainTimeRemaining, elapsedMs)
			ts.MainTimeRemaining -= consumed
			elapsedMs -= consumed
			continue
		}

		// Byo-yomi period.
		consumed := min(ts.ByoYomiTimeRemaining, elapsedMs)
		ts.ByoYomiTimeRemaining -= consumed
		elapsedMs -= consumed

		if !consumedStone {
			if ts.ByoYomiStonesRemaining > 0 {
				ts.ByoYomiStonesRemaining--
			}
			consumedStone = true
		}

		if ts.ByoYomiTimeRemaining == 0 {
			// The period time has run out; consume a period. Sudden death
			// has no periods at all, so exhausting main time lands here and
			// times out immediately.
			ts.ByoYomiPeriodsRemaining--
			if ts.ByoYomiPeriodsRemaining <= 0 {
				ts.ByoYomiPeriodsRemaining = 0
				ts.TimedOut = true
				return
			}
			ts.ByoYomiStonesRemaining = ts.ByoYomiStones
			ts.ByoYomiTimeRemaining = ts.ByoYomiTime
		} else if ts.ByoYomiStonesRemaining == 0 {
			// All stones played with period time to spare; the period is
			// replenished without penalty.
			ts.ByoYomiStonesRemaining = ts.ByoYomiStones
			ts.ByoYomiTimeRemaining = ts.ByoYomiTime
		}
	}
}

// Reset restores the clock to the initial values of the system.
func (ts *TimeSystem) Reset() {
	ts.TimedOut = false
	ts.MainTimeRemaining = ts.MainTime
	ts.ByoYomiTimeRemaining = ts.ByoYomiTime
	ts.ByoYomiStonesRemaining = ts.ByoYomiStones
	ts.ByoYomiPeriodsRemaining = ts.ByoYomiPeriods
}
