package eval

import (
	"testing"

	"github.com/alex65536/sofcheck-sub000/internal/board"
)

// TestScorePairPacksComponents covers half of invariant 7: MakeScore(a,
// b).Mg() == a and .Eg() == b for any representable 16-bit signed pair.
func TestScorePairPacksComponents(t *testing.T) {
	cases := []int16{0, 1, -1, 17, -17, 30000, -30000, 32767, -32768}
	for _, mg := range cases {
		for _, eg := range cases {
			s := MakeScore(mg, eg)
			if s.Mg() != mg {
				t.Fatalf("MakeScore(%d, %d).Mg() = %d, want %d", mg, eg, s.Mg(), mg)
			}
			if s.Eg() != eg {
				t.Fatalf("MakeScore(%d, %d).Eg() = %d, want %d", mg, eg, s.Eg(), eg)
			}
		}
	}
}

// TestScorePairArithmeticDistributes covers the other half of invariant 7:
// component-wise +, -, unary -, and *int.
func TestScorePairArithmeticDistributes(t *testing.T) {
	a := MakeScore(10, -5)
	b := MakeScore(-3, 8)

	if sum := a.add(b); sum.Mg() != 7 || sum.Eg() != 3 {
		t.Fatalf("a.add(b) = %v, want (7, 3)", sum)
	}
	if diff := a.sub(b); diff.Mg() != 13 || diff.Eg() != -13 {
		t.Fatalf("a.sub(b) = %v, want (13, -13)", diff)
	}
	if neg := a.neg(); neg.Mg() != -10 || neg.Eg() != 5 {
		t.Fatalf("a.neg() = %v, want (-10, 5)", neg)
	}
	if scaled := a.mulInt(3); scaled.Mg() != 30 || scaled.Eg() != -15 {
		t.Fatalf("a.mulInt(3) = %v, want (30, -15)", scaled)
	}
}

// TestTagFromMatchesIncrementalUpdate covers invariant 3: Tag::from(b)
// equals the incremental chain of Updated calls along a legal path, at
// every step, for paths that exercise a quiet move, a capture, a double
// pawn push, castling, and a promotion.
func TestTagFromMatchesIncrementalUpdate(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
	}{
		{
			name:  "openingMoves",
			fen:   board.StartFEN,
			moves: []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5c6", "d7c6"},
		},
		{
			name:  "castling",
			fen:   "rnbqk2r/pppp1ppp/5n2/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
			moves: []string{"e1g1"},
		},
		{
			name:  "promotion",
			fen:   "4k3/P7/8/8/8/8/8/4K3 w - - 0 1",
			moves: []string{"a7a8q"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := board.FromFEN(tc.fen)
			if err != nil {
				t.Fatalf("FromFEN: %v", err)
			}

			tag := From(b)
			if want := From(b); tag != want {
				t.Fatalf("From(b) is not deterministic: %+v vs %+v", tag, want)
			}

			for _, s := range tc.moves {
				m, err := board.ParseMove(s, b)
				if err != nil {
					t.Fatalf("ParseMove(%q): %v", s, err)
				}
				tag = tag.Updated(b, m)
				b.MakeMove(m)

				if want := From(b); tag != want {
					t.Fatalf("after %s: incremental Tag = %+v, want %+v", s, tag, want)
				}
			}
		})
	}
}
