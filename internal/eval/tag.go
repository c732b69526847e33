package eval

import "github.com/alex65536/sofcheck-sub000/internal/board"

// Tag is the incremental summary of a board carried on the search stack: the
// packed middlegame/endgame piece-square score plus a game-stage counter
// (phase) derived from non-pawn material. Evaluate folds the rest of the
// positional heuristics on top of Tag.PSQ at the leaf; Tag itself only ever
// tracks material+placement so it can be patched in O(1) per ply.
type Tag struct {
	PSQ   ScorePair
	Stage int
}

// From computes a Tag from scratch by walking every occupied square.
func From(b *board.Board) Tag {
	var t Tag
	for sq := board.A8; sq <= board.H1; sq++ {
		cell := b.Cells[sq]
		if cell.IsEmpty() {
			continue
		}
		p, c := cell.Piece(), cell.Color()
		sign := 1
		if c == board.Black {
			sign = -1
		}
		t.PSQ = t.PSQ.add(pieceSquare(p, c, sq).mulInt(sign))
		t.Stage += phaseWeight[p]
	}
	if t.Stage > MixUnit {
		t.Stage = MixUnit
	}
	return t
}

// Updated returns the Tag that results from playing m on b, without making
// the move. b must be in the pre-move state.
func (t Tag) Updated(b *board.Board, m board.Move) Tag {
	if m.IsNull() || m.IsInvalid() {
		return t
	}

	from, to := m.Src, m.Dst
	movedCell := b.Cells[from]
	p, c := movedCell.Piece(), movedCell.Color()
	sign := 1
	if c == board.Black {
		sign = -1
	}

	nt := t

	// Remove the moving piece from its origin square.
	nt.PSQ = nt.PSQ.sub(pieceSquare(p, c, from).mulInt(sign))

	switch {
	case m.Kind == board.Enpassant:
		var capSq board.Square
		if c == board.White {
			capSq = board.Square(int(to) + 8)
		} else {
			capSq = board.Square(int(to) - 8)
		}
		nt.PSQ = nt.PSQ.sub(pieceSquare(board.Pawn, c.Other(), capSq).mulInt(-sign))
		nt.PSQ = nt.PSQ.add(pieceSquare(board.Pawn, c, to).mulInt(sign))

	case m.Kind.IsPromote():
		captured := b.Cells[to]
		if !captured.IsEmpty() {
			cp, cc := captured.Piece(), captured.Color()
			csign := 1
			if cc == board.Black {
				csign = -1
			}
			nt.PSQ = nt.PSQ.sub(pieceSquare(cp, cc, to).mulInt(csign))
			nt.Stage -= phaseWeight[cp]
		}
		promoted := m.Kind.PromotePiece()
		nt.PSQ = nt.PSQ.add(pieceSquare(promoted, c, to).mulInt(sign))
		nt.Stage += phaseWeight[promoted] - phaseWeight[board.Pawn]

	case m.IsCastling():
		nt.PSQ = nt.PSQ.add(pieceSquare(p, c, to).mulInt(sign))
		var rookFrom, rookTo board.Square
		if to > from {
			rookFrom, rookTo = from+3, from+1
		} else {
			rookFrom, rookTo = from-4, from-1
		}
		nt.PSQ = nt.PSQ.sub(pieceSquare(board.Rook, c, rookFrom).mulInt(sign))
		nt.PSQ = nt.PSQ.add(pieceSquare(board.Rook, c, rookTo).mulInt(sign))

	default:
		captured := b.Cells[to]
		if !captured.IsEmpty() {
			cp, cc := captured.Piece(), captured.Color()
			csign := 1
			if cc == board.Black {
				csign = -1
			}
			nt.PSQ = nt.PSQ.sub(pieceSquare(cp, cc, to).mulInt(csign))
			nt.Stage -= phaseWeight[cp]
		}
		nt.PSQ = nt.PSQ.add(pieceSquare(p, c, to).mulInt(sign))
	}

	if nt.Stage > MixUnit {
		nt.Stage = MixUnit
	}
	if nt.Stage < 0 {
		nt.Stage = 0
	}
	return nt
}
