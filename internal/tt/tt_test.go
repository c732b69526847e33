package tt

import (
	"testing"

	"github.com/alex65536/sofcheck-sub000/internal/board"
)

func TestStoreThenProbeRoundTrips(t *testing.T) {
	table := New(1 << 20)

	key := uint64(0x1234567890abcdef)
	d := Data{
		Move:  board.Move{Kind: board.Simple, Src: board.E2, Dst: board.E4},
		Score: -123,
		Depth: 7,
		Bound: Exact,
		PV:    true,
	}
	table.Store(key, d)

	got, ok := table.Probe(key)
	if !ok {
		t.Fatalf("probe after store: miss")
	}
	if got != d {
		t.Fatalf("probe returned %+v, want %+v", got, d)
	}
}

func TestProbeMissOnDifferentKey(t *testing.T) {
	table := New(1 << 16)
	table.Store(1, Data{Move: board.NullMove, Score: 10, Depth: 3, Bound: Upper})

	if _, ok := table.Probe(2); ok {
		t.Fatalf("probe on unwritten key returned a hit")
	}
}

func TestStoreRespectsReplacementWeight(t *testing.T) {
	table := New(1 << 16)

	k := uint64(42)
	deep := Data{Move: board.NullMove, Score: 5, Depth: 10, Bound: Exact}
	table.Store(k, deep)

	shallow := Data{Move: board.NullMove, Score: 99, Depth: 1, Bound: Upper}
	table.Store(k, shallow)

	got, ok := table.Probe(k)
	if !ok {
		t.Fatalf("probe miss after store")
	}
	if got != deep {
		t.Fatalf("shallower store replaced deeper entry: got %+v", got)
	}
}

func TestStoreAlwaysWinsAcrossEpoch(t *testing.T) {
	table := New(1 << 16)
	k := uint64(7)

	deep := Data{Move: board.NullMove, Score: 5, Depth: 10, Bound: Exact}
	table.Store(k, deep)

	table.NextEpoch()
	fresh := Data{Move: board.NullMove, Score: 1, Depth: 1, Bound: Upper}
	table.Store(k, fresh)

	got, ok := table.Probe(k)
	if !ok {
		t.Fatalf("probe miss")
	}
	if got != fresh {
		t.Fatalf("new-epoch store did not win: got %+v, want %+v", got, fresh)
	}
}

func TestClearEmptiesTable(t *testing.T) {
	table := New(1 << 16)
	table.Store(5, Data{Move: board.NullMove, Score: 3, Depth: 2, Bound: Exact})
	table.Clear(4)

	if _, ok := table.Probe(5); ok {
		t.Fatalf("probe succeeded after Clear")
	}
}

func TestScoreToFromTTRoundTrips(t *testing.T) {
	cases := []struct{ score, ply int }{
		{100, 0},
		{100, 5},
		{MateScore - 1, 3},
		{-(MateScore - 1), 3},
	}
	for _, c := range cases {
		stored := ScoreToTT(c.score, c.ply)
		back := ScoreFromTT(stored, c.ply)
		if back != c.score {
			t.Errorf("ScoreFromTT(ScoreToTT(%d, %d)) = %d, want %d", c.score, c.ply, back, c.score)
		}
	}
}
