package engine

import (
	"time"

	"github.com/kayago/kaya/timectrl"
)

// Deadlines converts the clock's budget for the upcoming move into a pair
// of wall-clock deadlines: the hard deadline the search must honor, and the
// early deadline from which it may stop once converged.
func (e *Engine) Deadlines(ts *timectrl.TimeSystem, turnsPlayed int, now time.Time) (hard, early time.Time) {
	budget := ts.CalcBudget(turnsPlayed, e.opts.BoardSize, e.latency)
	hard = now.Add(time.Duration(budget) * time.Millisecond)
	early = now.Add(time.Duration(float64(budget)*e.opts.EarlyDeadlineFraction) * time.Millisecond)
	return hard, early
}
