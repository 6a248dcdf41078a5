// Package opening implements the opening book: move recommendations for
// early positions, keyed by the canonical (symmetry-reduced) form of the
// board so that all eight orientations of a position share one entry.
package opening

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/kayago/kaya/board"
)

// bookFile is the on-disk YAML layout.
type bookFile struct {
	Size    int         `yaml:"size"`
	Entries []bookEntry `yaml:"entries"`
}

type bookEntry struct {
	Black []string `yaml:"black"`
	White []string `yaml:"white"`
	Move  string   `yaml:"move"`
}

// Book maps canonical positions to recommended moves.
type Book struct {
	size  int
	moves map[uint64]board.Move
}

// Load reads a book file. Positions are canonicalized at load time, so the
// file may list stones in any orientation.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening book: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Book, error) {
	var bf bookFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("opening book: %w", err)
	}
	if bf.Size < 2 {
		return nil, fmt.Errorf("opening book: bad board size %d", bf.Size)
	}

	bk := &Book{size: bf.Size, moves: make(map[uint64]board.Move, len(bf.Entries))}
	for i, entry := range bf.Entries {
		b := board.New(bf.Size)
		if err := placeAll(b, entry.Black, board.Black); err != nil {
			return nil, fmt.Errorf("opening book entry %d: %w", i, err)
		}
		if err := placeAll(b, entry.White, board.White); err != nil {
			return nil, fmt.Errorf("opening book entry %d: %w", i, err)
		}
		m, err := b.ParseMove(entry.Move)
		if err != nil {
			return nil, fmt.Errorf("opening book entry %d: %w", i, err)
		}

		canonical, tr := board.ReduceSymmetry(b)
		key := positionKey(canonical)
		if _, dup := bk.moves[key]; dup {
			log.Warn().Int("entry", i).Msg("duplicate opening book position")
			continue
		}
		bk.moves[key] = board.ApplyTransform(m, tr, bf.Size)
	}
	log.Info().Int("positions", len(bk.moves)).Int("size", bf.Size).
		Msg("opening book loaded")
	return bk, nil
}

func placeAll(b *board.Board, coords []string, c board.Color) error {
	for _, coord := range coords {
		m, err := b.ParseMove(coord)
		if err != nil {
			return err
		}
		if err := b.Play(m, c); err != nil {
			return err
		}
	}
	return nil
}

func positionKey(b *board.Board) uint64 {
	return xxhash.Sum64String(b.Encode())
}

// Lookup returns the stored recommendation for an already-canonicalized
// board. The returned move is in canonical coordinates; the caller inverts
// its own symmetry reduction.
func (bk *Book) Lookup(canonical *board.Board) (board.Move, bool) {
	if bk == nil || canonical.Size != bk.size {
		return board.Pass, false
	}
	m, ok := bk.moves[positionKey(canonical)]
	return m, ok
}

// Len returns the number of stored positions.
func (bk *Book) Len() int {
	if bk == nil {
		return 0
	}
	return len(bk.moves)
}
