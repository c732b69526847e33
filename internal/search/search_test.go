package search

import (
	"testing"

	"github.com/alex65536/sofcheck-sub000/internal/board"
	"github.com/alex65536/sofcheck-sub000/internal/eval"
	"github.com/alex65536/sofcheck-sub000/internal/tt"
)

type fakeComm struct{}

func (fakeComm) Stopped() bool           { return false }
func (fakeComm) ClaimDepth(depth int) bool { return true }

func newTestSearcher() *Searcher {
	return NewSearcher(fakeComm{}, tt.New(1<<20), eval.NewPawnCache())
}

func TestMateInOneFindsRookLadderMate(t *testing.T) {
	b, err := board.FromFEN("4k3/8/4K3/8/8/8/8/7R w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	s := newTestSearcher()
	rep := NewRepetitionTable()
	result := s.IterativeDeepen(b, rep, 3, 0, 1)

	if result.Move.String() != "h1h8" {
		t.Fatalf("best move = %s, want h1h8", result.Move.String())
	}
	if result.Score < MateScore-MaxPly {
		t.Fatalf("score = %d, not a mate score", result.Score)
	}
}

func TestStartPositionSearchStaysInBounds(t *testing.T) {
	b := board.NewBoard()
	s := newTestSearcher()
	rep := NewRepetitionTable()
	result := s.IterativeDeepen(b, rep, 3, 0, 1)

	if result.Score < -Infinity || result.Score > Infinity {
		t.Fatalf("score %d out of [-Infinity, Infinity]", result.Score)
	}
	if result.Move.IsInvalid() {
		t.Fatalf("no move returned from start position")
	}
}

func TestRepetitionTableInsertRemove(t *testing.T) {
	r := NewRepetitionTable()
	if !r.Insert(7) {
		t.Fatalf("first insert of a fresh key should succeed")
	}
	if r.Insert(7) {
		t.Fatalf("second insert of the same key should fail (already present)")
	}
	r.Remove(7)
	if !r.Insert(7) {
		t.Fatalf("insert after remove should succeed again")
	}
}

func TestKillerTableTwoSlotLRU(t *testing.T) {
	var k KillerTable
	m1 := board.Move{Kind: board.Simple, Src: board.E2, Dst: board.E4}
	m2 := board.Move{Kind: board.Simple, Src: board.D2, Dst: board.D4}
	k.Add(0, m1)
	k.Add(0, m2)

	first, second := k.Get(0)
	if !first.Equal(m2) || !second.Equal(m1) {
		t.Fatalf("killers = (%v, %v), want (%v, %v)", first, second, m2, m1)
	}
}
