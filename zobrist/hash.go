package zobrist

import (
	"lukechampine.com/frand"

	"github.com/kayago/kaya/board"
)

const bignum = 1<<63 - 2

// Zobrist generates hashes for baduk positions.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	blackToMove uint64

	// posTable[pt][0] is the key for a black stone at pt, [1] for white.
	posTable [][2]uint64

	boardDim int
}

// Initialize allocates the random tables for a board of the given side
// length.
func (z *Zobrist) Initialize(boardDim int) {
	z.boardDim = boardDim
	z.posTable = make([][2]uint64, boardDim*boardDim)
	for i := range z.posTable {
		z.posTable[i][0] = frand.Uint64n(bignum) + 1
		z.posTable[i][1] = frand.Uint64n(bignum) + 1
	}
	z.blackToMove = frand.Uint64n(bignum) + 1
}

// BoardDim returns the board side length the tables were built for.
func (z *Zobrist) BoardDim() int {
	return z.boardDim
}

// Hash returns the key for a position with the given side to move.
func (z *Zobrist) Hash(b *board.Board, blackToMove bool) uint64 {
	key := uint64(0)
	for pt, c := range b.Points {
		switch c {
		case board.Black:
			key ^= z.posTable[pt][0]
		case board.White:
			key ^= z.posTable[pt][1]
		}
	}
	if blackToMove {
		key ^= z.blackToMove
	}
	return key
}

// AddMove incrementally updates a key for a stone placed at m by the given
// color, flipping the side to move. Captures change more than one point;
// use Hash for those positions.
func (z *Zobrist) AddMove(key uint64, m board.Move, c board.Color) uint64 {
	if !m.IsPass() {
		idx := 0
		if c == board.White {
			idx = 1
		}
		key ^= z.posTable[int(m)][idx]
	}
	return key ^ z.blackToMove
}
