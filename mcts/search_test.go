package mcts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kayago/kaya/board"
	"github.com/kayago/kaya/transpositions"
)

func newTestSearcher(threads int) *Searcher {
	tt := &transpositions.Table{}
	tt.Reset(0.01, 5)
	return New(tt, threads)
}

func TestRunBoundedSearchReturnsLegalMove(t *testing.T) {
	s := newTestSearcher(2)
	b := board.New(5)

	hard := time.Now().Add(100 * time.Millisecond)
	early := time.Now().Add(50 * time.Millisecond)
	start := time.Now()
	m, winRate, err := s.RunBoundedSearch(b, true, hard, early)
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.True(t, b.Legal(m, board.Black), "recommended move %v is not legal", m)
	assert.GreaterOrEqual(t, winRate, 0.0)
	assert.LessOrEqual(t, winRate, 1.0)
	// Cooperative deadline checking: well within the hard deadline plus one
	// playout's worth of slack.
	assert.Less(t, elapsed, 2*time.Second)
}

func TestRunBoundedSearchPopulatesTable(t *testing.T) {
	tt := &transpositions.Table{}
	tt.Reset(0.01, 5)
	s := New(tt, 1)
	b := board.New(5)

	hard := time.Now().Add(50 * time.Millisecond)
	_, _, err := s.RunBoundedSearch(b, true, hard, hard)
	assert.NoError(t, err)
	// Root plus the children it expanded.
	assert.Greater(t, tt.Len(), 1)
}

func TestRunBoundedSearchNoLegalMove(t *testing.T) {
	s := newTestSearcher(1)
	b := board.New(3)
	for i := range b.Points {
		b.Points[i] = board.Black
	}
	hard := time.Now().Add(50 * time.Millisecond)
	_, _, err := s.RunBoundedSearch(b, false, hard, hard)
	assert.ErrorIs(t, err, ErrNoLegalMove)
}

func TestAreaScore(t *testing.T) {
	b := board.New(3)
	// Black wall on the left column, white stone top right. The point
	// between them touches both colors and counts for neither.
	b.Points[0], b.Points[3], b.Points[6] = board.Black, board.Black, board.Black
	b.Points[2] = board.White
	black, white := areaScore(b)
	assert.Equal(t, 5.0, black) // 3 stones + 2 points touching only black
	assert.Equal(t, 2.0, white) // 1 stone + 1 point touching only white
}
