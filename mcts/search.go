// Package mcts implements the deadline-bounded search. It is a blocking
// call: workers check the wall clock cooperatively and the search returns no
// later than the hard deadline, or as early as the early deadline once the
// best move has converged. There is no external cancellation channel beyond
// the deadlines handed in at invocation.
package mcts

import (
	"errors"
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kayago/kaya/board"
	"github.com/kayago/kaya/transpositions"
)

// ErrNoLegalMove is returned when the position admits no legal placement.
// It is propagated upward, never converted into a pass or a resignation.
var ErrNoLegalMove = errors.New("no legal move available")

const (
	explorationConstant = 1.414

	// converged when the leader has this many times the runner-up's visits.
	convergenceVisitRatio = 2
	minConvergenceVisits  = 64

	defaultPlayoutDepth = 40
)

// Searcher runs time-bounded playouts over the shared transposition table.
type Searcher struct {
	tt           *transpositions.Table
	threads      int
	playoutDepth int
	komi         float64
}

// New returns a searcher with one worker per CPU unless told otherwise.
func New(tt *transpositions.Table, threads int) *Searcher {
	if threads <= 0 {
		threads = max(1, runtime.NumCPU())
	}
	return &Searcher{
		tt:           tt,
		threads:      threads,
		playoutDepth: defaultPlayoutDepth,
		komi:         7.5,
	}
}

// SetKomi sets the compensation score used when scoring playouts.
func (s *Searcher) SetKomi(komi float64) {
	s.komi = komi
}

type childNode struct {
	move  board.Move
	after *board.Board
	entry *transpositions.Entry
}

// RunBoundedSearch searches the position and returns the best move found
// together with the mover's win-rate estimate. Entry statistics are stored
// from Black's perspective so they stay meaningful across turns.
func (s *Searcher) RunBoundedSearch(b *board.Board, blackToMove bool,
	hardDeadline, earlyDeadline time.Time) (board.Move, float64, error) {

	mover := board.White
	if blackToMove {
		mover = board.Black
	}
	candidates := b.LegalMoves(mover)
	if len(candidates) == 0 {
		return board.Pass, 0, ErrNoLegalMove
	}

	z := s.tt.Zobrist()
	rootEntry := s.tt.GetOrCreate(z.Hash(b, blackToMove), blackToMove)

	children := make([]*childNode, len(candidates))
	for i, m := range candidates {
		after := b.Copy()
		if err := after.Play(m, mover); err != nil {
			return board.Pass, 0, err
		}
		hash := z.Hash(after, !blackToMove)
		entry := s.tt.GetOrCreate(hash, !blackToMove)
		if entry == nil {
			// Table is full; keep statistics for this turn only.
			entry = &transpositions.Entry{Hash: hash, BlackToMove: !blackToMove}
		} else if rootEntry != nil {
			rootEntry.AddChild(hash)
		}
		children[i] = &childNode{move: m, after: after, entry: entry}
	}

	var playouts atomic.Uint64
	tstart := time.Now()

	g := errgroup.Group{}
	for t := 0; t < s.threads; t++ {
		g.Go(func() error {
			for {
				now := time.Now()
				if !now.Before(hardDeadline) {
					return nil
				}
				if !now.Before(earlyDeadline) && s.converged(children) {
					return nil
				}
				total := playouts.Add(1)
				child := selectChild(children, total, blackToMove)
				blackWon := s.playout(child.after, !blackToMove)
				result := 0.0
				if blackWon {
					result = 1.0
				}
				child.entry.AddResult(result)
			}
		})
	}
	// Workers only ever return nil; the errgroup is for the fan-in.
	_ = g.Wait()

	best := children[0]
	for _, c := range children[1:] {
		if c.entry.VisitCount() > best.entry.VisitCount() {
			best = c
		}
	}
	winRate := moverWinRate(best.entry, blackToMove)

	log.Info().
		Uint64("playouts", playouts.Load()).
		Dur("elapsed", time.Since(tstart)).
		Str("move", b.MoveString(best.move)).
		Float64("win-rate", winRate).
		Msg("search-ended")

	return best.move, winRate, nil
}

// moverWinRate converts Black-perspective entry statistics into the mover's
// perspective.
func moverWinRate(e *transpositions.Entry, blackToMove bool) float64 {
	wr := e.WinRate()
	if !blackToMove {
		wr = 1 - wr
	}
	return wr
}

func selectChild(children []*childNode, totalPlayouts uint64, blackToMove bool) *childNode {
	lnTotal := math.Log(float64(totalPlayouts + 1))
	best := children[0]
	bestScore := math.Inf(-1)
	for _, c := range children {
		visits := float64(c.entry.VisitCount())
		score := moverWinRate(c.entry, blackToMove) +
			explorationConstant*math.Sqrt(lnTotal/(visits+1))
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func (s *Searcher) converged(children []*childNode) bool {
	var leader, runnerUp uint32
	for _, c := range children {
		v := c.entry.VisitCount()
		if v > leader {
			leader, runnerUp = v, leader
		} else if v > runnerUp {
			runnerUp = v
		}
	}
	return leader >= minConvergenceVisits && leader >= convergenceVisitRatio*runnerUp
}

// playout plays random moves from the position until both players pass or
// the depth limit is hit, then scores by area.
func (s *Searcher) playout(b *board.Board, blackToMove bool) bool {
	g := b.Copy()
	color := board.White
	if blackToMove {
		color = board.Black
	}
	passes := 0
	for ply := 0; ply < s.playoutDepth && passes < 2; ply++ {
		m := randomMove(g, color)
		if m.IsPass() {
			passes++
		} else {
			passes = 0
		}
		g.Play(m, color)
		color = color.Opposite()
	}
	black, white := areaScore(g)
	return black > white+s.komi
}

// randomMove picks a random legal placement, falling back to pass after a
// bounded number of attempts so playouts terminate on crowded boards.
func randomMove(b *board.Board, c board.Color) board.Move {
	n := len(b.Points)
	attempts := n / 2
	for i := 0; i < attempts; i++ {
		pt := rand.IntN(n)
		if b.Points[pt] != board.Empty {
			continue
		}
		m := board.Move(pt)
		if b.Legal(m, c) {
			return m
		}
	}
	return board.Pass
}

// Score returns the area count for each side, komi included on White's
// side.
func Score(b *board.Board, komi float64) (black, white float64) {
	black, white = areaScore(b)
	return black, white + komi
}

// areaScore counts stones plus empty points bordered by a single color.
func areaScore(b *board.Board) (black, white float64) {
	size := b.Size
	for pt, c := range b.Points {
		switch c {
		case board.Black:
			black++
		case board.White:
			white++
		default:
			var sawBlack, sawWhite bool
			x, y := pt%size, pt/size
			if x > 0 && b.Points[pt-1] != board.Empty {
				sawBlack = sawBlack || b.Points[pt-1] == board.Black
				sawWhite = sawWhite || b.Points[pt-1] == board.White
			}
			if x < size-1 && b.Points[pt+1] != board.Empty {
				sawBlack = sawBlack || b.Points[pt+1] == board.Black
				sawWhite = sawWhite || b.Points[pt+1] == board.White
			}
			if y > 0 && b.Points[pt-size] != board.Empty {
				sawBlack = sawBlack || b.Points[pt-size] == board.Black
				sawWhite = sawWhite || b.Points[pt-size] == board.White
			}
			if y < size-1 && b.Points[pt+size] != board.Empty {
				sawBlack = sawBlack || b.Points[pt+size] == board.Black
				sawWhite = sawWhite || b.Points[pt+size] == board.White
			}
			if sawBlack && !sawWhite {
				black++
			} else if sawWhite && !sawBlack {
				white++
			}
		}
	}
	return black, white
}
