// Package transpositions holds search statistics keyed by position hash,
// shared between searches within a match. Entries link to the positions
// reachable from them, so that between turns everything outside the live
// game tree can be reclaimed.
package transpositions

import (
	"math"
	"sync"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/kayago/kaya/board"
	"github.com/kayago/kaya/zobrist"
)

// EntrySize is the approximate in-memory footprint of one entry, in bytes,
// used for the reclaimed-memory estimate logged after pruning.
const EntrySize = 112

// Entry carries the accumulated statistics for one position and side to
// move.
type Entry struct {
	sync.Mutex
	Hash        uint64
	BlackToMove bool

	Visits uint32
	Wins   float64

	children []uint64
}

// AddResult records one playout outcome, 1 for a win and 0 for a loss from
// the entry's side to move.
func (e *Entry) AddResult(win float64) {
	e.Lock()
	e.Visits++
	e.Wins += win
	e.Unlock()
}

// WinRate returns the observed win ratio, or 0.5 when unvisited.
func (e *Entry) WinRate() float64 {
	e.Lock()
	defer e.Unlock()
	if e.Visits == 0 {
		return 0.5
	}
	return e.Wins / float64(e.Visits)
}

// VisitCount returns the number of recorded playouts.
func (e *Entry) VisitCount() uint32 {
	e.Lock()
	defer e.Unlock()
	return e.Visits
}

// AddChild links a position reachable from this entry.
func (e *Entry) AddChild(hash uint64) {
	e.Lock()
	defer e.Unlock()
	for _, c := range e.children {
		if c == hash {
			return
		}
	}
	e.children = append(e.children, hash)
}

// Table is the shared transposition cache. Lookups and stores may happen
// concurrently during a search; pruning and resetting must not.
type Table struct {
	mu         sync.RWMutex
	entries    map[uint64]*Entry
	maxEntries int

	zobrist *zobrist.Zobrist
}

// Reset sizes the table to a fraction of system memory and clears it,
// rebuilding the hash tables if the board dimension changed.
func (t *Table) Reset(fractionOfMemory float64, boardDim int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	totalMem := memory.TotalMemory()
	desired := fractionOfMemory * (float64(totalMem) / float64(EntrySize))
	if desired < 1 {
		desired = 1
	}
	t.maxEntries = 1 << int(math.Log2(desired))
	if t.maxEntries < 1<<16 {
		t.maxEntries = 1 << 16
	}

	t.entries = make(map[uint64]*Entry)

	if t.zobrist == nil || t.zobrist.BoardDim() != boardDim {
		log.Info().Int("board-dim", boardDim).Msg("creating zobrist hash")
		t.zobrist = &zobrist.Zobrist{}
		t.zobrist.Initialize(boardDim)
	}

	log.Info().Int("max-entries", t.maxEntries).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
}

// Zobrist returns the hash tables in use, initializing for the given board
// dimension if needed.
func (t *Table) Zobrist() *zobrist.Zobrist {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.zobrist
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Lookup returns the entry for a hash, or nil.
func (t *Table) Lookup(hash uint64) *Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[hash]
}

// GetOrCreate returns the entry for a hash, creating it if the table has
// room. Returns nil when the table is full and the entry does not exist.
func (t *Table) GetOrCreate(hash uint64, blackToMove bool) *Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[hash]; ok {
		return e
	}
	if t.maxEntries > 0 && len(t.entries) >= t.maxEntries {
		return nil
	}
	e := &Entry{Hash: hash, BlackToMove: blackToMove}
	t.entries[hash] = e
	return e
}

// PruneUnreachable removes every entry not reachable from the given
// position with the given side to move, returning the number of entries
// freed.
func (t *Table) PruneUnreachable(b *board.Board, blackToMove bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.zobrist == nil {
		return 0
	}
	root := t.zobrist.Hash(b, blackToMove)

	reachable := map[uint64]bool{}
	queue := []uint64{root}
	for len(queue) > 0 {
		h := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if reachable[h] {
			continue
		}
		e, ok := t.entries[h]
		if !ok {
			continue
		}
		reachable[h] = true
		e.Lock()
		queue = append(queue, e.children...)
		e.Unlock()
	}

	freed := 0
	for h := range t.entries {
		if !reachable[h] {
			delete(t.entries, h)
			freed++
		}
	}
	return freed
}

// ResetAll empties the table. Safe to call on an already-empty table.
func (t *Table) ResetAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[uint64]*Entry)
}
