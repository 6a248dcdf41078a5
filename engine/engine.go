// Package engine controls the flow of a move decision: a near-instant
// opening-book lookup ahead of the deadline-bounded search, resignation
// eligibility, and the cache maintenance that runs between turns and between
// matches.
package engine

import (
	"time"

	"github.com/kayago/kaya/board"
	"github.com/kayago/kaya/timectrl"
)

// Searcher is the bounded-search collaborator. It must return no later than
// the hard deadline, may return once converged at or after the early
// deadline, and must return a legal recommendation if one exists.
type Searcher interface {
	RunBoundedSearch(b *board.Board, blackToMove bool,
		hardDeadline, earlyDeadline time.Time) (board.Move, float64, error)
}

// Book is the opening-book collaborator, queried with canonical boards.
type Book interface {
	Lookup(canonical *board.Board) (board.Move, bool)
}

// Cache is the shared search-result store, pruned by reachability from the
// live game state.
type Cache interface {
	PruneUnreachable(b *board.Board, blackToMove bool) int
	ResetAll()
}

// Options configures an Engine.
type Options struct {
	BoardSize      int
	UseOpeningBook bool
	// MinResignWinrate is the win-rate estimate below which resignation
	// becomes eligible.
	MinResignWinrate float64
	// EarlyDeadlineFraction of the turn budget marks the point from which
	// the search may stop once converged.
	EarlyDeadlineFraction float64
	// LatencyCompensation is the static round-trip allowance, in
	// milliseconds, used until MeasureLatency records a real one.
	LatencyCompensation int64
}

// Engine owns the decision flow for one engine instance. The maintenance
// flag and latency estimate live here rather than in package globals so the
// turn loop's single-writer discipline is visible to the caller. Not safe
// for concurrent use; the match driver serializes turns.
type Engine struct {
	searcher Searcher
	book     Book
	cache    Cache
	opts     Options

	latency timectrl.Latency

	// needsMaintenance is set after any real (non-book) search and cleared
	// by the maintenance passes. No other writers.
	needsMaintenance bool

	// komiOffset is match-scoped adjustment state, reset between matches.
	komiOffset int
}

// New wires an engine from its collaborators.
func New(searcher Searcher, book Book, cache Cache, opts Options) *Engine {
	return &Engine{
		searcher: searcher,
		book:     book,
		cache:    cache,
		opts:     opts,
		latency:  timectrl.Latency{RoundTrip: opts.LatencyCompensation},
	}
}

// Recommendation is the outcome of evaluating a position.
type Recommendation struct {
	Move     board.Move
	WinRate  float64
	FromBook bool
}

// EvaluatePosition produces a move recommendation for the side to move,
// together with whether the position is hopeless enough that resignation is
// eligible. The caller decides whether to actually resign. Book hits ignore
// both deadlines and leave the maintenance flag alone.
func (e *Engine) EvaluatePosition(b *board.Board, blackToMove bool,
	hardDeadline, earlyDeadline time.Time) (Recommendation, bool, error) {

	if e.opts.UseOpeningBook && e.book != nil {
		canonical, tr := board.ReduceSymmetry(b)
		if m, ok := e.book.Lookup(canonical); ok {
			rec := Recommendation{
				Move:     board.ApplyInverseTransform(m, tr, b.Size),
				FromBook: true,
			}
			return rec, false, nil
		}
	}

	m, winRate, err := e.searcher.RunBoundedSearch(b, blackToMove, hardDeadline, earlyDeadline)
	// The search may have populated cache state outside the future-reachable
	// game tree whether or not it produced a move.
	e.needsMaintenance = true
	if err != nil {
		return Recommendation{}, false, err
	}

	mayResign := winRate < e.opts.MinResignWinrate
	return Recommendation{Move: m, WinRate: winRate}, mayResign, nil
}

// MeasureLatency records an observed network round trip used to pad future
// turn budgets.
func (e *Engine) MeasureLatency(roundTripMs int64) {
	e.latency.Measure(roundTripMs)
}

// KomiOffset returns the match-scoped komi adjustment.
func (e *Engine) KomiOffset() int {
	return e.komiOffset
}

// AdjustKomiOffset shifts the match-scoped komi adjustment.
func (e *Engine) AdjustKomiOffset(delta int) {
	e.komiOffset += delta
}
