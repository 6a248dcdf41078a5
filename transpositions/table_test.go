package transpositions

import (
	"testing"

	"github.com/matryer/is"

	"github.com/kayago/kaya/board"
)

func newTestTable() *Table {
	t := &Table{}
	t.Reset(0.01, 5)
	return t
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	is := is.New(t)
	tt := newTestTable()
	e1 := tt.GetOrCreate(42, true)
	e2 := tt.GetOrCreate(42, true)
	is.True(e1 != nil)
	is.True(e1 == e2)
	is.Equal(tt.Len(), 1)
}

func TestPruneUnreachable(t *testing.T) {
	is := is.New(t)
	tt := newTestTable()
	z := tt.Zobrist()

	b := board.New(5)
	root := tt.GetOrCreate(z.Hash(b, true), true)

	// Two children of the root, one of which becomes the next live state.
	after := b.Copy()
	is.NoErr(after.Play(board.Move(12), board.Black))
	liveHash := z.Hash(after, false)
	live := tt.GetOrCreate(liveHash, false)
	root.AddChild(liveHash)

	other := b.Copy()
	is.NoErr(other.Play(board.Move(0), board.Black))
	otherHash := z.Hash(other, false)
	tt.GetOrCreate(otherHash, false)
	root.AddChild(otherHash)

	// A grandchild under the live state survives the prune.
	deeper := after.Copy()
	is.NoErr(deeper.Play(board.Move(13), board.White))
	deeperHash := z.Hash(deeper, true)
	tt.GetOrCreate(deeperHash, true)
	live.AddChild(deeperHash)

	is.Equal(tt.Len(), 4)
	freed := tt.PruneUnreachable(after, false)
	is.Equal(freed, 2) // old root and the sibling
	is.Equal(tt.Len(), 2)
	is.True(tt.Lookup(liveHash) != nil)
	is.True(tt.Lookup(deeperHash) != nil)
	is.True(tt.Lookup(otherHash) == nil)
}

func TestPruneUnknownRootFreesEverything(t *testing.T) {
	is := is.New(t)
	tt := newTestTable()
	tt.GetOrCreate(1, true)
	tt.GetOrCreate(2, false)
	b := board.New(5)
	freed := tt.PruneUnreachable(b, true)
	is.Equal(freed, 2)
	is.Equal(tt.Len(), 0)
}

func TestResetTinyFraction(t *testing.T) {
	is := is.New(t)

	// A fraction too small to fit even one entry still yields a usable
	// table at the minimum size.
	for _, fraction := range []float64{0, 0.0000000000001} {
		tt := &Table{}
		tt.Reset(fraction, 5)
		is.Equal(tt.maxEntries, 1<<16)
		is.True(tt.GetOrCreate(7, true) != nil)
	}
}

func TestResetAll(t *testing.T) {
	is := is.New(t)
	tt := newTestTable()
	tt.GetOrCreate(7, true)
	tt.ResetAll()
	is.Equal(tt.Len(), 0)
	tt.ResetAll() // safe on an empty table
	is.Equal(tt.Len(), 0)
}

func TestEntryStats(t *testing.T) {
	is := is.New(t)
	e := &Entry{}
	is.Equal(e.WinRate(), 0.5)
	e.AddResult(1)
	e.AddResult(0)
	e.AddResult(1)
	is.Equal(e.VisitCount(), uint32(3))
	is.Equal(e.WinRate(), 2.0/3.0)

	e.AddChild(9)
	e.AddChild(9)
	is.Equal(len(e.children), 1)
}
