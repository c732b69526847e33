package board

import "testing"

func TestCheckmate(t *testing.T) {
	// Back rank mate: black king on h8 boxed in by its own pawns, white
	// rook giving check along the back rank.
	b, err := FromFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	if !b.InCheck() {
		t.Fatal("expected side to move to be in check")
	}
	if b.HasLegalMoves() {
		t.Error("expected no legal moves")
	}
	if !b.IsCheckmate() {
		t.Error("expected checkmate")
	}
	if b.IsStalemate() {
		t.Error("checkmate must not also report as stalemate")
	}
}

func TestNotCheckmateKingCanCapture(t *testing.T) {
	// Black king on h8 is checked by an undefended rook on g8 and can
	// simply capture it.
	b, err := FromFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	if !b.InCheck() {
		t.Fatal("expected side to move to be in check")
	}
	if b.IsCheckmate() {
		t.Error("expected not checkmate; king can capture the checking rook")
	}

	moves := b.LegalMoves()
	found := false
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.Src == H8 && m.Dst == G8 {
			found = true
		}
	}
	if !found {
		t.Error("expected Kxg8 among legal moves")
	}
}

func TestStalemate(t *testing.T) {
	// Classic stalemate: black king cornered on h8 with no checks and no
	// legal moves, white to deliver none.
	b, err := FromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	if b.InCheck() {
		t.Fatal("expected side to move not to be in check")
	}
	if !b.IsStalemate() {
		t.Error("expected stalemate")
	}
	if !b.IsDraw() {
		t.Error("stalemate must report as a draw")
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Black king on e8 is checked along the e-file by the rook on e1 and
	// along the long diagonal by the bishop on h5 at the same time: no
	// single non-king move can block or capture both, so every legal
	// move must be a king move.
	b, err := FromFEN("4k3/8/8/7B/8/8/8/K3R3 b - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	if b.Checkers.PopCount() != 2 {
		t.Fatalf("expected double check, got %d checker(s)", b.Checkers.PopCount())
	}

	moves := b.LegalMoves()
	if moves.Len() == 0 {
		t.Fatal("expected at least one legal king move")
	}
	ksq := b.KingSquare[b.SideToMove]
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.Src != ksq {
			t.Errorf("double check: non-king move %v should not be legal", m)
		}
	}
}
