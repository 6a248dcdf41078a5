// Package automatic drives complete matches. The runner owns the per-side
// clocks and the engine, and is the single caller that sequences searching,
// elapsed-time feedback into the clocks, and cache maintenance, so that no
// pruning pass can overlap a running search.
package automatic

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kayago/kaya/board"
	"github.com/kayago/kaya/config"
	"github.com/kayago/kaya/engine"
	"github.com/kayago/kaya/mcts"
	"github.com/kayago/kaya/opening"
	"github.com/kayago/kaya/timectrl"
	"github.com/kayago/kaya/transpositions"
)

// GameEnd says how a game finished.
type GameEnd int

const (
	EndNone GameEnd = iota
	EndTwoPasses
	EndResignation
	EndTimeout
)

func (e GameEnd) String() string {
	switch e {
	case EndTwoPasses:
		return "two passes"
	case EndResignation:
		return "resignation"
	case EndTimeout:
		return "timeout"
	}
	return "none"
}

// komi offset adjustment kicks in when the mover's win-rate estimate leaves
// this band, keeping self-play games competitive.
const (
	komiAdjustHighWinrate = 0.90
	komiAdjustLowWinrate  = 0.10
)

// GameRunner is the master struct for automatic play. Not safe for
// concurrent use.
type GameRunner struct {
	cfg      *config.Config
	eng      *engine.Engine
	searcher *mcts.Searcher
	cache    *transpositions.Table

	// clocks[0] is Black's, clocks[1] is White's.
	clocks [2]*timectrl.TimeSystem
	board  *board.Board

	consecutivePasses int
	end               GameEnd
	winner            board.Color
}

// NewGameRunner instantiates and wires a runner from config. A missing
// opening book is not fatal; play continues without book hits.
func NewGameRunner(cfg *config.Config) (*GameRunner, error) {
	var parsed timectrl.TimeSystem
	if err := timectrl.Parse(cfg.TimeControl, &parsed); err != nil {
		return nil, fmt.Errorf("time control: %w", err)
	}

	cache := &transpositions.Table{}
	cache.Reset(cfg.CacheMemoryFraction, cfg.BoardSize)

	searcher := mcts.New(cache, cfg.Threads)
	searcher.SetKomi(cfg.Komi)

	var bk *opening.Book
	if cfg.UseOpeningBook {
		var err error
		bk, err = opening.Load(cfg.BookPath())
		if err != nil {
			log.Warn().Err(err).Msg("playing without an opening book")
			bk = nil
		}
	}

	eng := engine.New(searcher, bk, cache, engine.Options{
		BoardSize:             cfg.BoardSize,
		UseOpeningBook:        cfg.UseOpeningBook && bk != nil,
		MinResignWinrate:      cfg.MinResignWinrate,
		EarlyDeadlineFraction: cfg.EarlyDeadlineFraction,
		LatencyCompensation:   cfg.LatencyCompensation,
	})

	r := &GameRunner{
		cfg:      cfg,
		eng:      eng,
		searcher: searcher,
		cache:    cache,
	}
	for i := range r.clocks {
		r.clocks[i] = timectrl.NewByoYomi(parsed.MainTime, parsed.ByoYomiTime,
			parsed.ByoYomiStones, parsed.ByoYomiPeriods)
	}
	r.resetGameState()
	return r, nil
}

func (r *GameRunner) resetGameState() {
	r.board = board.New(r.cfg.BoardSize)
	r.consecutivePasses = 0
	r.end = EndNone
	r.winner = board.Empty
}

// StartGame begins a fresh match: new board, restored clocks, emptied
// cache. Must not be called while a search is in flight.
func (r *GameRunner) StartGame() {
	r.resetGameState()
	for _, c := range r.clocks {
		c.Reset()
	}
	r.eng.NewMatchMaintenance()
	r.searcher.SetKomi(r.cfg.Komi)
}

// Board returns the live game state.
func (r *GameRunner) Board() *board.Board {
	return r.board
}

// Clock returns the given side's time system.
func (r *GameRunner) Clock(c board.Color) *timectrl.TimeSystem {
	if c == board.White {
		return r.clocks[1]
	}
	return r.clocks[0]
}

func (r *GameRunner) gameOver() bool {
	return r.end != EndNone
}

// PlayTurn runs one full turn for the side to move: budget the turn,
// evaluate, charge the clock with the actual think time, apply the move and
// then let the cache shed everything the rest of the game can no longer
// reach.
func (r *GameRunner) PlayTurn() error {
	if r.gameOver() {
		return errors.New("game is over")
	}

	blackToMove := r.board.TurnsPlayed%2 == 0
	mover := board.White
	if blackToMove {
		mover = board.Black
	}
	clock := r.Clock(mover)

	now := time.Now()
	hard, early := r.eng.Deadlines(clock, r.board.TurnsPlayed, now)

	rec, mayResign, err := r.eng.EvaluatePosition(r.board, blackToMove, hard, early)
	elapsed := time.Since(now).Milliseconds()
	clock.AdvanceClock(elapsed)

	if err != nil {
		if !errors.Is(err, mcts.ErrNoLegalMove) {
			return err
		}
		// The mover cannot place a stone anywhere; passing is the game
		// continuing, not the engine inventing a move.
		rec.Move = board.Pass
	}

	if clock.TimedOut {
		r.end = EndTimeout
		r.winner = mover.Opposite()
		log.Info().Str("side", sideName(mover)).Msg("lost on time")
		return nil
	}

	if err == nil && mayResign {
		r.end = EndResignation
		r.winner = mover.Opposite()
		log.Info().Str("side", sideName(mover)).
			Float64("win-rate", rec.WinRate).Msg("resigned")
		return nil
	}

	if err := r.board.Play(rec.Move, mover); err != nil {
		return fmt.Errorf("applying recommendation: %w", err)
	}
	if rec.Move.IsPass() {
		r.consecutivePasses++
	} else {
		r.consecutivePasses = 0
	}

	log.Debug().Str("side", sideName(mover)).
		Str("move", r.board.MoveString(rec.Move)).
		Bool("book", rec.FromBook).
		Int64("elapsed-ms", elapsed).Msg("played")

	if r.consecutivePasses >= 2 {
		r.end = EndTwoPasses
		black, white := mcts.Score(r.board, r.cfg.Komi+float64(r.eng.KomiOffset()))
		if black > white {
			r.winner = board.Black
		} else if white > black {
			r.winner = board.White
		}
		return nil
	}

	if !rec.FromBook {
		r.adjustKomiOffset(rec.WinRate, blackToMove)
	}

	r.eng.TurnMaintenance(r.board, !blackToMove)
	return nil
}

// adjustKomiOffset leans the compensation against a runaway leader within
// the current match. The offset is discarded by StartGame.
func (r *GameRunner) adjustKomiOffset(moverWinRate float64, blackMoved bool) {
	delta := 0
	switch {
	case moverWinRate > komiAdjustHighWinrate:
		delta = 1
	case moverWinRate < komiAdjustLowWinrate:
		delta = -1
	}
	if delta == 0 {
		return
	}
	if !blackMoved {
		delta = -delta
	}
	r.eng.AdjustKomiOffset(delta)
	r.searcher.SetKomi(r.cfg.Komi + float64(r.eng.KomiOffset()))
	log.Debug().Int("komi-offset", r.eng.KomiOffset()).Msg("adjusted komi offset")
}

// RunGame plays a single game to completion and returns how it ended and
// for whom. A length cap guards against pathological non-terminating games.
func (r *GameRunner) RunGame() (GameEnd, board.Color, error) {
	maxTurns := 3 * r.cfg.BoardSize * r.cfg.BoardSize
	for turns := 0; !r.gameOver(); turns++ {
		if turns >= maxTurns {
			return EndNone, board.Empty, fmt.Errorf("game exceeded %d turns", maxTurns)
		}
		if err := r.PlayTurn(); err != nil {
			return EndNone, board.Empty, err
		}
	}
	return r.end, r.winner, nil
}

// RunSeries plays n games back to back with full between-match maintenance.
func (r *GameRunner) RunSeries(n int) error {
	for i := 0; i < n; i++ {
		r.StartGame()
		end, winner, err := r.RunGame()
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		log.Info().Int("game", i+1).Str("end", end.String()).
			Str("winner", sideName(winner)).
			Int("turns", r.board.TurnsPlayed).Msg("game-over")
	}
	return nil
}

func sideName(c board.Color) string {
	switch c {
	case board.Black:
		return "black"
	case board.White:
		return "white"
	}
	return "nobody"
}
