package board

import "testing"

// perft counts the leaf nodes reachable at the given depth; the standard
// way to cross-check move generation against known-correct node counts.
func perft(b *Board, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := b.LegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := b.MakeMove(m)
		nodes += perft(b, depth-1)
		b.UnmakeMove(m, undo)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	b := NewBoard()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftKiwipete exercises the Kiwipete position, which packs in
// castling, promotions, and pins together.
func TestPerftKiwipete(t *testing.T) {
	b, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPosition3 exercises en passant alongside a king near the
// action.
func TestPerftPosition3(t *testing.T) {
	b, err := FromFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftEnPassantPin covers the horizontal-pin edge case: a pawn's en
// passant capture would remove the only blocker between the king and a
// rook on the same rank, so the capture must not be generated as legal.
func TestPerftEnPassantPin(t *testing.T) {
	b, err := FromFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	moves := b.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.Kind == Enpassant {
			t.Errorf("en passant move %v should be illegal (horizontal pin)", m)
		}
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 6},
		{2, 94},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}
