package board

import "testing"

// testPositions are FENs exercised across several of the invariant tests
// below: the starting position, Kiwipete (S2), which is dense with
// captures, checks and castling rights, and the position after 1.e4 e5.
var testPositions = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2",
}

// TestMakeUnmakeRoundTrip covers invariant 1: for every pseudo-legal move on
// a valid board, make followed by unmake restores the board bit-identical,
// including the hash.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	for _, fen := range testPositions {
		b, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}

		var pseudo MoveList
		NewMoveGen(b).GenAll(&pseudo)

		for i := 0; i < pseudo.Len(); i++ {
			m := pseudo.Get(i)
			before := *b

			undo := b.MakeMove(m)
			b.UnmakeMove(m, undo)

			if *b != before {
				t.Fatalf("fen %q: move %s: board not bit-identical after unmake\nbefore: %+v\nafter:  %+v", fen, m, before, *b)
			}
		}
	}
}

// TestFenRoundTrip covers invariant 2 and scenario S3: parsing a FEN and
// re-serializing it must reproduce every field, and for a canonically
// formatted FEN the output string itself must be identical.
func TestFenRoundTrip(t *testing.T) {
	for _, fen := range testPositions {
		b, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}

		again, err := FromFEN(b.ToFEN())
		if err != nil {
			t.Fatalf("FromFEN(ToFEN(%q)): %v", fen, err)
		}
		if *again != *b {
			t.Fatalf("fen %q: round trip through ToFEN changed the board\nwant: %+v\ngot:  %+v", fen, *b, *again)
		}
	}
}

func TestFenRoundTripExactString(t *testing.T) {
	const fen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	b, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if got := b.ToFEN(); got != fen {
		t.Fatalf("ToFEN() = %q, want %q", got, fen)
	}
}

// TestLegalityMatchesPostMoveKingSafety covers invariant 4:
// isMoveLegal(b, m) must agree with checking, after making m, whether the
// side that just moved left its own king attacked.
func TestLegalityMatchesPostMoveKingSafety(t *testing.T) {
	for _, fen := range testPositions {
		b, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}

		var pseudo MoveList
		NewMoveGen(b).GenAll(&pseudo)

		for i := 0; i < pseudo.Len(); i++ {
			m := pseudo.Get(i)
			mover := b.SideToMove
			preLegal := b.IsLegal(m)

			undo := b.MakeMove(m)
			postLegal := !b.IsSquareAttacked(b.KingSquare[mover], b.SideToMove)
			b.UnmakeMove(m, undo)

			if preLegal != postLegal {
				t.Fatalf("fen %q: move %s: IsLegal=%v, post-make king safety=%v", fen, m, preLegal, postLegal)
			}
		}
	}
}

// TestLegalMovesEqualsFilteredValidAndLegal covers invariant 5: the set of
// moves accepted by IsMoveValid and IsLegal equals LegalMoves().
func TestLegalMovesEqualsFilteredValidAndLegal(t *testing.T) {
	for _, fen := range testPositions {
		b, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}

		var pseudo MoveList
		NewMoveGen(b).GenAll(&pseudo)

		var filtered MoveList
		for i := 0; i < pseudo.Len(); i++ {
			m := pseudo.Get(i)
			if b.IsMoveValid(m) && b.IsLegal(m) {
				filtered.Add(m)
			}
		}

		legal := b.LegalMoves()
		if legal.Len() != filtered.Len() {
			t.Fatalf("fen %q: LegalMoves has %d moves, filtered pseudo-legal set has %d", fen, legal.Len(), filtered.Len())
		}
		for i := 0; i < legal.Len(); i++ {
			if !filtered.Contains(legal.Get(i)) {
				t.Fatalf("fen %q: LegalMoves contains %s, not present in the filtered set", fen, legal.Get(i))
			}
		}
	}
}

// TestGenAllIsDisjointUnion covers invariant 6: GenAll equals the disjoint
// union of GenSimpleNoPromote, GenSimplePromotes, and GenCaptures.
func TestGenAllIsDisjointUnion(t *testing.T) {
	for _, fen := range testPositions {
		b, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}

		var all, simple, promotes, captures MoveList
		NewMoveGen(b).GenAll(&all)
		NewMoveGen(b).GenSimpleNoPromote(&simple)
		NewMoveGen(b).GenSimplePromotes(&promotes)
		NewMoveGen(b).GenCaptures(&captures)

		union := append(append(append([]Move{}, simple.Slice()...), promotes.Slice()...), captures.Slice()...)
		if len(union) != all.Len() {
			t.Fatalf("fen %q: len(simple)+len(promotes)+len(captures) = %d, len(all) = %d", fen, len(union), all.Len())
		}

		seen := make(map[Move]bool, len(union))
		for _, m := range union {
			if seen[m] {
				t.Fatalf("fen %q: move %s appears in more than one of the three subsets", fen, m)
			}
			seen[m] = true
			if !all.Contains(m) {
				t.Fatalf("fen %q: move %s is in the union but not in GenAll", fen, m)
			}
		}
	}
}

// TestMoveParse covers scenario S4: a plain push, the null move, and an
// invalid move string all parse to the documented move kinds.
func TestMoveParse(t *testing.T) {
	b := NewBoard()

	m, err := ParseMove("e2e4", b)
	if err != nil {
		t.Fatalf(`ParseMove("e2e4"): %v`, err)
	}
	if m.Kind != PawnDoubleMove || m.Src != E2 || m.Dst != E4 {
		t.Fatalf("e2e4 parsed as %+v, want PawnDoubleMove e2-e4", m)
	}

	null, err := ParseMove("0000", b)
	if err != nil {
		t.Fatalf(`ParseMove("0000"): %v`, err)
	}
	if !null.IsNull() {
		t.Fatalf("0000 parsed as %+v, want the null move", m)
	}

	invalid, err := ParseMove("e2e5", b)
	if err == nil && !invalid.IsInvalid() {
		t.Fatalf("e2e5 parsed as %+v, want an invalid move or an error", invalid)
	}
}
