package engine

import (
	"github.com/rs/zerolog/log"

	"github.com/kayago/kaya/board"
	"github.com/kayago/kaya/transpositions"
)

// NewMatchMaintenance runs between matches: the cache is emptied whether or
// not the flag is set, and match-scoped adjustment state is discarded.
// Always safe to call, including on an already-empty cache. Must not run
// while a search is in flight.
func (e *Engine) NewMatchMaintenance() {
	e.cache.ResetAll()
	e.needsMaintenance = false
	e.komiOffset = 0
	log.Info().Msg("freed all cached states between matches")
}

// TurnMaintenance runs between turns. If a real search has happened since
// the last maintenance pass, cache entries not reachable from the given
// state with the given side to move are freed.
func (e *Engine) TurnMaintenance(b *board.Board, nextMoverIsBlack bool) {
	if !e.needsMaintenance {
		return
	}
	freed := e.cache.PruneUnreachable(b, nextMoverIsBlack)
	e.needsMaintenance = false
	log.Info().Int("freed", freed).
		Int64("reclaimed-mib", int64(freed)*transpositions.EntrySize/1048576).
		Msg("pruned states outside the game tree")
}
