// Package board encapsulates a baduk board: stone placement with group
// capture, move legality and the dihedral symmetry reduction used to
// canonicalize positions for opening-book lookups.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Color of a point on the board.
type Color int8

const (
	Empty Color = iota
	Black
	White
)

// Opposite returns the other player's color.
func (c Color) Opposite() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

// Move is a point index into the board, or Pass.
type Move int16

// Pass is the non-placing move.
const Pass Move = -1

// IsPass reports whether the move places no stone.
func (m Move) IsPass() bool {
	return m == Pass
}

var columnLetters = "ABCDEFGHJKLMNOPQRST" // I is skipped by convention

// ErrIllegalMove is returned when a stone cannot be placed at the requested
// point.
var ErrIllegalMove = errors.New("illegal move")

// Board is a square baduk board plus the number of turns played so far.
// It is not safe for concurrent mutation; search makes copies.
type Board struct {
	Size        int
	Points      []Color
	TurnsPlayed int
}

// New returns an empty board of the given side length.
func New(size int) *Board {
	return &Board{
		Size:   size,
		Points: make([]Color, size*size),
	}
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	pts := make([]Color, len(b.Points))
	copy(pts, b.Points)
	return &Board{Size: b.Size, Points: pts, TurnsPlayed: b.TurnsPlayed}
}

// Equal reports whether two boards have identical stones and size. The turn
// counter is not part of position identity.
func (b *Board) Equal(o *Board) bool {
	if b.Size != o.Size {
		return false
	}
	for i := range b.Points {
		if b.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}

// StoneCount returns the number of stones on the board.
func (b *Board) StoneCount() int {
	n := 0
	for _, p := range b.Points {
		if p != Empty {
			n++
		}
	}
	return n
}

func (b *Board) neighbors(pt int) []int {
	x, y := pt%b.Size, pt/b.Size
	out := make([]int, 0, 4)
	if x > 0 {
		out = append(out, pt-1)
	}
	if x < b.Size-1 {
		out = append(out, pt+1)
	}
	if y > 0 {
		out = append(out, pt-b.Size)
	}
	if y < b.Size-1 {
		out = append(out, pt+b.Size)
	}
	return out
}

// groupLiberties flood-fills the group containing pt and returns its points
// and whether it has at least one liberty.
func (b *Board) groupLiberties(pt int) (group []int, hasLiberty bool) {
	color := b.Points[pt]
	seen := make([]bool, len(b.Points))
	stack := []int{pt}
	seen[pt] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, p)
		for _, n := range b.neighbors(p) {
			switch b.Points[n] {
			case Empty:
				hasLiberty = true
			case color:
				if !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return group, hasLiberty
}

// Play places a stone of the given color, removing any opposing groups left
// without liberties. Suicide is illegal. Pass always succeeds. The turn
// counter advances on every successful move.
func (b *Board) Play(m Move, c Color) error {
	if m.IsPass() {
		b.TurnsPlayed++
		return nil
	}
	pt := int(m)
	if pt < 0 || pt >= len(b.Points) || b.Points[pt] != Empty {
		return fmt.Errorf("%w: %v", ErrIllegalMove, m)
	}
	b.Points[pt] = c

	// Remove captured opposing groups first; a move that captures is never
	// suicide.
	captured := false
	opp := c.Opposite()
	for _, n := range b.neighbors(pt) {
		if b.Points[n] != opp {
			continue
		}
		group, alive := b.groupLiberties(n)
		if !alive {
			captured = true
			for _, g := range group {
				b.Points[g] = Empty
			}
		}
	}

	if !captured {
		if _, alive := b.groupLiberties(pt); !alive {
			b.Points[pt] = Empty
			return fmt.Errorf("%w: suicide at %v", ErrIllegalMove, m)
		}
	}

	b.TurnsPlayed++
	return nil
}

// Legal reports whether the move could be played by the given color without
// mutating the board.
func (b *Board) Legal(m Move, c Color) bool {
	if m.IsPass() {
		return true
	}
	pt := int(m)
	if pt < 0 || pt >= len(b.Points) || b.Points[pt] != Empty {
		return false
	}
	tmp := b.Copy()
	return tmp.Play(m, c) == nil
}

// LegalMoves returns every legal stone placement for the given color. Pass
// is always available and is not included.
func (b *Board) LegalMoves(c Color) []Move {
	moves := make([]Move, 0, len(b.Points))
	for pt := range b.Points {
		if b.Points[pt] != Empty {
			continue
		}
		if b.Legal(Move(pt), c) {
			moves = append(moves, Move(pt))
		}
	}
	return moves
}

// Encode returns a compact canonical string for the stones on the board,
// suitable for hashing. Turn count is deliberately excluded.
func (b *Board) Encode() string {
	var sb strings.Builder
	sb.Grow(len(b.Points) + 4)
	fmt.Fprintf(&sb, "%d:", b.Size)
	for _, p := range b.Points {
		switch p {
		case Black:
			sb.WriteByte('x')
		case White:
			sb.WriteByte('o')
		default:
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// MoveString renders a move in the usual letter-number coordinates, with
// the column letter I skipped.
func (b *Board) MoveString(m Move) string {
	if m.IsPass() {
		return "pass"
	}
	x, y := int(m)%b.Size, int(m)/b.Size
	return fmt.Sprintf("%c%d", columnLetters[x], b.Size-y)
}

// ParseMove parses letter-number coordinates ("D4", "pass") into a Move.
func (b *Board) ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "PASS" {
		return Pass, nil
	}
	if len(s) < 2 {
		return Pass, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	x := strings.IndexByte(columnLetters, s[0])
	if x < 0 || x >= b.Size {
		return Pass, fmt.Errorf("%w: bad column in %q", ErrIllegalMove, s)
	}
	var row int
	if _, err := fmt.Sscanf(s[1:], "%d", &row); err != nil || row < 1 || row > b.Size {
		return Pass, fmt.Errorf("%w: bad row in %q", ErrIllegalMove, s)
	}
	y := b.Size - row
	return Move(y*b.Size + x), nil
}
