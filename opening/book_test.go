package opening

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kayago/kaya/board"
)

const testBook = `
size: 9
entries:
  - black: []
    white: []
    move: "E5"
  - black: ["E5"]
    white: []
    move: "C3"
  - black: ["E5", "G7"]
    white: ["C3"]
    move: "G3"
`

func TestLoadAndLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(testBook), 0644))

	bk, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 3, bk.Len())

	// Empty board: canonical form is itself; E5 is the center.
	b := board.New(9)
	canonical, _ := board.ReduceSymmetry(b)
	m, ok := bk.Lookup(canonical)
	assert.True(t, ok)
	e5, _ := b.ParseMove("E5")
	assert.Equal(t, e5, m)
}

func TestLookupAnyOrientation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(testBook), 0644))
	bk, err := Load(path)
	assert.NoError(t, err)

	// The query reduces to its canonical form before the lookup and the
	// stored reply maps back through the inverse transform, so the
	// recommendation may land on any of the corner-equivalent points.
	b := board.New(9)
	e5, _ := b.ParseMove("E5")
	assert.NoError(t, b.Play(e5, board.Black))

	canonical, tr := board.ReduceSymmetry(b)
	m, ok := bk.Lookup(canonical)
	assert.True(t, ok)
	got := board.ApplyInverseTransform(m, tr, 9)
	c3Equivalent := []string{"C3", "C7", "G3", "G7"}
	found := false
	for _, coord := range c3Equivalent {
		want, _ := b.ParseMove(coord)
		if got == want {
			found = true
		}
	}
	assert.True(t, found, "recommendation %v not among corner equivalents", got)
}

func TestLookupMiss(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(testBook), 0644))
	bk, err := Load(path)
	assert.NoError(t, err)

	b := board.New(9)
	h2, _ := b.ParseMove("H2")
	assert.NoError(t, b.Play(h2, board.Black))
	canonical, _ := board.ReduceSymmetry(b)
	_, ok := bk.Lookup(canonical)
	assert.False(t, ok)

	// Wrong board size never hits.
	small := board.New(5)
	_, ok = bk.Lookup(small)
	assert.False(t, ok)
}

func TestLoadRejectsBadEntries(t *testing.T) {
	dir := t.TempDir()
	bad := []string{
		"size: 0\nentries: []\n",
		"size: 9\nentries:\n  - move: \"Z9\"\n",
		"size: 9\nentries:\n  - black: [\"E5\", \"E5\"]\n    move: \"C3\"\n",
		"not yaml at all {{{",
	}
	for i, content := range bad {
		path := filepath.Join(dir, "bad.yaml")
		assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err := Load(path)
		assert.Error(t, err, "case %d", i)
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
