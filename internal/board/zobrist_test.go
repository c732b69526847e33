package board

import "testing"

// TestHashMatchesComputeHash walks a short sequence of legal moves from the
// starting position and checks that the incrementally maintained Hash field
// agrees with a from-scratch recomputation after every move, including
// moves that touch en passant and castling rights.
func TestHashMatchesComputeHash(t *testing.T) {
	b := NewBoard()
	if b.Hash != b.ComputeHash() {
		t.Fatalf("initial Hash = %#x, want %#x", b.Hash, b.ComputeHash())
	}

	moveStrs := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5a4", "g8f6", "e1g1"}
	for _, s := range moveStrs {
		m, err := ParseMove(s, b)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		b.MakeMove(m)
		if want := b.ComputeHash(); b.Hash != want {
			t.Fatalf("after %s: Hash = %#x, want %#x", s, b.Hash, want)
		}
	}
}

// TestHashRestoredOnUnmake checks that unmaking a move restores the exact
// hash the position had before the move was made, for a handful of moves
// that each touch a different part of the hash: a quiet move, a capture,
// a double pawn push (en passant square), and castling.
func TestHashRestoredOnUnmake(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
	}{
		{"quiet", StartFEN, "g1f3"},
		{"doublePush", StartFEN, "e2e4"},
		{"capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2", "e4d5"},
		{"castleKingside", "rnbqk2r/pppp1ppp/5n2/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4", "e1g1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := FromFEN(tc.fen)
			if err != nil {
				t.Fatalf("FromFEN: %v", err)
			}
			before := b.Hash

			m, err := ParseMove(tc.move, b)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tc.move, err)
			}
			undo := b.MakeMove(m)
			if b.Hash == before {
				t.Fatalf("Hash unchanged after %s", tc.move)
			}
			b.UnmakeMove(m, undo)

			if b.Hash != before {
				t.Fatalf("Hash after unmake = %#x, want %#x", b.Hash, before)
			}
		})
	}
}

// TestZobristComponentsDistinct checks that the Zobrist tables used to build
// the hash don't degenerate: XORing in a component and then XORing it back
// out returns to the start, and two structurally different components (two
// squares, two castling-rights combinations, two files) hash to different
// values, which is what makes the incremental XOR maintenance sound.
func TestZobristComponentsDistinct(t *testing.T) {
	base := uint64(0xDEADBEEFCAFEBABE)

	a := base ^ ZobristPiece(White, Pawn, E4)
	a ^= ZobristPiece(White, Pawn, E4)
	if a != base {
		t.Fatal("XOR in then out of a piece component did not restore the base value")
	}

	if ZobristPiece(White, Pawn, E4) == ZobristPiece(White, Pawn, E5) {
		t.Error("distinct squares hash to the same piece component")
	}
	if ZobristPiece(White, Pawn, E4) == ZobristPiece(Black, Pawn, E4) {
		t.Error("distinct colors hash to the same piece component")
	}
	if ZobristPiece(White, Pawn, E4) == ZobristPiece(White, Knight, E4) {
		t.Error("distinct piece kinds hash to the same piece component")
	}
	if ZobristEnPassant(4) == ZobristEnPassant(3) {
		t.Error("distinct en passant files hash to the same component")
	}
	if ZobristCastling(WhiteKingSideCastle) == ZobristCastling(WhiteQueenSideCastle) {
		t.Error("distinct castling rights hash to the same component")
	}
}
