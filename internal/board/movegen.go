package board

// CheckState classifies how many pieces currently check the side to move.
type CheckState uint8

const (
	NoCheck CheckState = iota
	SingleCheck
	DoubleCheck
)

// CheckDescriptor summarizes the current check status once per move
// generation pass: under SingleCheck, RayMask holds the squares strictly
// between the checker and the king, used together with the checker's own
// square to restrict where a non-king move may land. Under DoubleCheck
// only king moves can be legal.
type CheckDescriptor struct {
	State   CheckState
	Checker Square
	RayMask Bitboard
}

func computeCheckDescriptor(b *Board) CheckDescriptor {
	checkers := b.Checkers
	switch checkers.PopCount() {
	case 0:
		return CheckDescriptor{State: NoCheck}
	case 1:
		checker := checkers.LSB()
		ksq := b.KingSquare[b.SideToMove]
		return CheckDescriptor{State: SingleCheck, Checker: checker, RayMask: Between(checker, ksq)}
	default:
		return CheckDescriptor{State: DoubleCheck}
	}
}

// evasionMask returns the squares a non-king move may land on to resolve
// the current check. Callers must skip non-king generation entirely
// under DoubleCheck rather than rely on this mask, since it returns
// Universe in that case purely to keep arithmetic simple at call sites
// that check cd.State first anyway.
func (cd CheckDescriptor) evasionMask() Bitboard {
	if cd.State == SingleCheck {
		return cd.RayMask | SquareBB(cd.Checker)
	}
	return Universe
}

// capturedPawnSquareForEp returns the square of the pawn captured by an en
// passant move landing on epSquare, for the side making the capture.
func capturedPawnSquareForEp(epSquare Square, us Color) Square {
	if us == White {
		return Square(int(epSquare) + 8)
	}
	return Square(int(epSquare) - 8)
}

// MoveGen generates moves for one position, computing the check
// descriptor once so every piece generator can apply check evasion
// without re-deriving it.
type MoveGen struct {
	b     *Board
	check CheckDescriptor
}

// NewMoveGen prepares a generator for b's current position.
func NewMoveGen(b *Board) *MoveGen {
	return &MoveGen{b: b, check: computeCheckDescriptor(b)}
}

// GenAll appends every pseudo-legal move: GenSimple plus GenCaptures.
func (g *MoveGen) GenAll(out *MoveList) {
	g.GenSimple(out)
	g.GenCaptures(out)
}

// GenSimple appends all non-capturing moves, including non-capturing
// promotions.
func (g *MoveGen) GenSimple(out *MoveList) {
	g.GenSimpleNoPromote(out)
	g.GenSimplePromotes(out)
}

// GenSimpleNoPromote appends non-capturing, non-promoting moves: pawn
// pushes, piece moves to empty squares, king moves, and castling.
func (g *MoveGen) GenSimpleNoPromote(out *MoveList) {
	b := g.b
	us := b.SideToMove
	empty := ^b.AllOccupied

	if g.check.State == DoubleCheck {
		g.genKingMoves(out)
		return
	}

	mask := g.check.evasionMask()
	g.genPawnPushes(out, empty, mask)
	g.genPieceMoves(out, Knight, empty, mask)
	g.genPieceMoves(out, Bishop, empty, mask)
	g.genPieceMoves(out, Rook, empty, mask)
	g.genPieceMoves(out, Queen, empty, mask)
	g.genKingMoves(out)
	if g.check.State == NoCheck {
		g.genCastlingMoves(out, us)
	}
}

// GenSimplePromotes appends non-capturing pawn promotions: a push to the
// back rank without a capture.
func (g *MoveGen) GenSimplePromotes(out *MoveList) {
	if g.check.State == DoubleCheck {
		return
	}

	b := g.b
	us := b.SideToMove
	pawns := b.Pieces[us][Pawn]
	empty := ^b.AllOccupied
	mask := g.check.evasionMask()

	var push1 Bitboard
	var pushDir int
	if us == White {
		push1 = pawns.North() & empty & Rank8
		pushDir = -8
	} else {
		push1 = pawns.South() & empty & Rank1
		pushDir = 8
	}

	push1 &= mask
	for push1 != 0 {
		to := push1.PopLSB()
		from := Square(int(to) - pushDir)
		addPromotions(out, from, to)
	}
}

// GenCaptures appends all capturing moves, including promoting captures
// and en passant, but never a non-capturing promoting push: that belongs
// to GenSimplePromotes.
func (g *MoveGen) GenCaptures(out *MoveList) {
	b := g.b
	us := b.SideToMove
	them := us.Other()
	enemies := b.Occupied[them]
	occupied := b.AllOccupied

	g.genKingCaptures(out)
	if g.check.State == DoubleCheck {
		return
	}
	mask := g.check.evasionMask()

	pawns := b.Pieces[us][Pawn]
	var attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = -8
	} else {
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = 8
	}

	attackL &= mask
	attackR &= mask

	nonPromoL := attackL &^ promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		out.Add(Move{Kind: Simple, Src: from, Dst: to})
	}

	nonPromoR := attackR &^ promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		out.Add(Move{Kind: Simple, Src: from, Dst: to})
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addPromotions(out, from, to)
	}

	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addPromotions(out, from, to)
	}

	if b.EpSquare != NoSquare {
		capSq := capturedPawnSquareForEp(b.EpSquare, us)
		resolves := g.check.State == NoCheck || capSq == g.check.Checker
		if resolves {
			epBB := SquareBB(b.EpSquare)
			var epAttackers Bitboard
			if us == White {
				epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
			} else {
				epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
			}
			for epAttackers != 0 {
				from := epAttackers.PopLSB()
				out.Add(Move{Kind: Enpassant, Src: from, Dst: b.EpSquare})
			}
		}
	}

	g.genPieceCaptures(out, Knight, enemies, occupied, mask)
	g.genPieceCaptures(out, Bishop, enemies, occupied, mask)
	g.genPieceCaptures(out, Rook, enemies, occupied, mask)
	g.genPieceCaptures(out, Queen, enemies, occupied, mask)
}

// genPawnPushes appends single and double pawn pushes that don't reach
// the back rank; GenSimplePromotes handles those.
func (g *MoveGen) genPawnPushes(out *MoveList, empty, mask Bitboard) {
	b := g.b
	us := b.SideToMove
	pawns := b.Pieces[us][Pawn]

	var push1, push2 Bitboard
	var pushDir int
	var promotionRank Bitboard

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		pushDir = -8
		promotionRank = Rank8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		pushDir = 8
		promotionRank = Rank1
	}

	nonPromo := (push1 &^ promotionRank) & mask
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		from := Square(int(to) - pushDir)
		out.Add(Move{Kind: Simple, Src: from, Dst: to})
	}

	push2 &= mask
	for push2 != 0 {
		to := push2.PopLSB()
		from := Square(int(to) - 2*pushDir)
		out.Add(Move{Kind: PawnDoubleMove, Src: from, Dst: to})
	}
}

func (g *MoveGen) pieceAttacks(p Piece, from Square, occupied Bitboard) Bitboard {
	switch p {
	case Knight:
		return KnightAttacks(from)
	case Bishop:
		return BishopAttacks(from, occupied)
	case Rook:
		return RookAttacks(from, occupied)
	case Queen:
		return QueenAttacks(from, occupied)
	default:
		return EmptyBB
	}
}

func (g *MoveGen) genPieceMoves(out *MoveList, p Piece, empty, mask Bitboard) {
	b := g.b
	us := b.SideToMove
	occupied := b.AllOccupied

	pieces := b.Pieces[us][p]
	for pieces != 0 {
		from := pieces.PopLSB()
		attacks := g.pieceAttacks(p, from, occupied) & empty & mask
		for attacks != 0 {
			to := attacks.PopLSB()
			out.Add(Move{Kind: Simple, Src: from, Dst: to})
		}
	}
}

func (g *MoveGen) genPieceCaptures(out *MoveList, p Piece, enemies, occupied, mask Bitboard) {
	b := g.b
	us := b.SideToMove

	pieces := b.Pieces[us][p]
	for pieces != 0 {
		from := pieces.PopLSB()
		attacks := g.pieceAttacks(p, from, occupied) & enemies & mask
		for attacks != 0 {
			to := attacks.PopLSB()
			out.Add(Move{Kind: Simple, Src: from, Dst: to})
		}
	}
}

func (g *MoveGen) genKingMoves(out *MoveList) {
	b := g.b
	us := b.SideToMove
	from := b.KingSquare[us]
	attacks := KingAttacks(from) &^ b.AllOccupied
	for attacks != 0 {
		to := attacks.PopLSB()
		out.Add(Move{Kind: Simple, Src: from, Dst: to})
	}
}

func (g *MoveGen) genKingCaptures(out *MoveList) {
	b := g.b
	us := b.SideToMove
	them := us.Other()
	from := b.KingSquare[us]
	attacks := KingAttacks(from) & b.Occupied[them]
	for attacks != 0 {
		to := attacks.PopLSB()
		out.Add(Move{Kind: Simple, Src: from, Dst: to})
	}
}

func addPromotions(out *MoveList, from, to Square) {
	out.Add(Move{Kind: PromoteQueen, Src: from, Dst: to})
	out.Add(Move{Kind: PromoteRook, Src: from, Dst: to})
	out.Add(Move{Kind: PromoteBishop, Src: from, Dst: to})
	out.Add(Move{Kind: PromoteKnight, Src: from, Dst: to})
}

// genCastlingMoves appends castling moves whose path and landing squares
// are empty and whose transited squares, including the king's origin,
// are not attacked. Only called while the side to move is not in check.
func (g *MoveGen) genCastlingMoves(out *MoveList, us Color) {
	b := g.b
	them := us.Other()

	if us == White {
		if b.CastlingRights&WhiteKingSideCastle != 0 {
			if b.AllOccupied&(SquareBB(F1)|SquareBB(G1)) == 0 {
				if !b.IsSquareAttacked(E1, them) && !b.IsSquareAttacked(F1, them) && !b.IsSquareAttacked(G1, them) {
					out.Add(Move{Kind: CastlingKingside, Src: E1, Dst: G1})
				}
			}
		}
		if b.CastlingRights&WhiteQueenSideCastle != 0 {
			if b.AllOccupied&(SquareBB(B1)|SquareBB(C1)|SquareBB(D1)) == 0 {
				if !b.IsSquareAttacked(E1, them) && !b.IsSquareAttacked(D1, them) && !b.IsSquareAttacked(C1, them) {
					out.Add(Move{Kind: CastlingQueenside, Src: E1, Dst: C1})
				}
			}
		}
	} else {
		if b.CastlingRights&BlackKingSideCastle != 0 {
			if b.AllOccupied&(SquareBB(F8)|SquareBB(G8)) == 0 {
				if !b.IsSquareAttacked(E8, them) && !b.IsSquareAttacked(F8, them) && !b.IsSquareAttacked(G8, them) {
					out.Add(Move{Kind: CastlingKingside, Src: E8, Dst: G8})
				}
			}
		}
		if b.CastlingRights&BlackQueenSideCastle != 0 {
			if b.AllOccupied&(SquareBB(B8)|SquareBB(C8)|SquareBB(D8)) == 0 {
				if !b.IsSquareAttacked(E8, them) && !b.IsSquareAttacked(D8, them) && !b.IsSquareAttacked(C8, them) {
					out.Add(Move{Kind: CastlingQueenside, Src: E8, Dst: C8})
				}
			}
		}
	}
}

// isMoveLegal reports whether a pseudo-legal move leaves the mover's own
// king safe, without mutating b: king moves are checked by recomputing
// attackers of the destination with the king lifted off its origin; every
// other move is checked by simulating it on a VBoard.
func (b *Board) isMoveLegal(m Move) bool {
	us := b.SideToMove
	them := us.Other()

	if m.IsNull() {
		return !b.InCheck()
	}

	ksq := b.KingSquare[us]

	if m.Src == ksq {
		if m.IsCastling() {
			return true // path and transit squares already verified during generation
		}
		occ := b.AllOccupied &^ SquareBB(m.Src)
		return b.AttackersByColor(m.Dst, them, occ) == 0
	}

	v := NewVBoard(b)
	v.ApplyMove(m, us)
	return !v.IsKingAttacked(ksq, them)
}

// IsLegal is the exported form of isMoveLegal.
func (b *Board) IsLegal(m Move) bool {
	return b.isMoveLegal(m)
}

// isMoveValid reports whether m is pseudo-legal in b's current position;
// a move supplied from outside the generator, such as parsed UCI input,
// must pass this before being made.
func (b *Board) isMoveValid(m Move) bool {
	if m.IsInvalid() {
		return false
	}
	if m.IsNull() {
		return true
	}

	var pseudo MoveList
	NewMoveGen(b).GenAll(&pseudo)
	return pseudo.Contains(m)
}

// IsMoveValid is the exported form of isMoveValid.
func (b *Board) IsMoveValid(m Move) bool {
	return b.isMoveValid(m)
}

// wasMoveLegal reports whether the side that just moved left its own king
// safe; a cheap post-make check for callers that already trust the move
// was pseudo-legal.
func (b *Board) wasMoveLegal() bool {
	them := b.SideToMove
	us := them.Other()
	return !b.IsSquareAttacked(b.KingSquare[us], them)
}

// MakeMove applies a move to b and returns the state needed to reverse
// it. m must be pseudo-legal; callers applying an externally supplied
// move should check isMoveValid first.
func (b *Board) MakeMove(m Move) MovePersistence {
	undo := MovePersistence{
		Hash:          b.Hash,
		Castling:      b.CastlingRights,
		EpSquare:      b.EpSquare,
		HalfmoveClock: uint16(b.HalfmoveClock),
		Captured:      Empty,
	}

	if m.IsNull() {
		nullUndo := b.MakeNullMove()
		undo.Hash = nullUndo.Hash
		undo.EpSquare = nullUndo.EpSquare
		return undo
	}

	us := b.SideToMove
	them := us.Other()
	from, to := m.Src, m.Dst
	pt := b.Cells[from].Piece()

	b.Hash ^= zobristSideToMove
	b.Hash ^= zobristCastling[b.CastlingRights]
	if b.EpSquare != NoSquare {
		b.Hash ^= zobristEnPassant[b.EpSquare.File()]
	}
	b.EpSquare = NoSquare

	if m.Kind == Enpassant {
		capSq := capturedPawnSquareForEp(to, us)
		undo.Captured = b.removePiece(capSq)
		b.Hash ^= zobristPiece[them][Pawn][capSq]
	} else if captured := b.Cells[to]; captured != Empty {
		undo.Captured = captured
		b.removePiece(to)
		b.Hash ^= zobristPiece[captured.Color()][captured.Piece()][to]
	}

	b.movePiece(from, to)
	b.Hash ^= zobristPiece[us][pt][from]
	b.Hash ^= zobristPiece[us][pt][to]

	if m.Kind.IsPromote() {
		promo := m.Kind.PromotePiece()
		b.Pieces[us][Pawn] &^= SquareBB(to)
		b.Pieces[us][promo] |= SquareBB(to)
		b.Cells[to] = MakeCell(promo, us)
		b.Hash ^= zobristPiece[us][Pawn][to]
		b.Hash ^= zobristPiece[us][promo][to]
	}

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom, rookTo = from+3, from+1
		} else {
			rookFrom, rookTo = from-4, from-1
		}
		b.movePiece(rookFrom, rookTo)
		b.Hash ^= zobristPiece[us][Rook][rookFrom]
		b.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	if pt == King {
		if us == White {
			b.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			b.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if from == A1 || to == A1 {
		b.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		b.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		b.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		b.CastlingRights &^= BlackKingSideCastle
	}
	b.Hash ^= zobristCastling[b.CastlingRights]

	if m.Kind == PawnDoubleMove {
		epSquare := Square((int(from) + int(to)) / 2)
		b.EpSquare = epSquare
		b.Hash ^= zobristEnPassant[epSquare.File()]
	}

	if pt == Pawn || undo.Captured != Empty {
		b.HalfmoveClock = 0
	} else {
		b.HalfmoveClock++
	}
	if us == Black {
		b.FullmoveNumber++
	}

	b.SideToMove = them
	b.UpdateCheckers()

	return undo
}

// UnmakeMove reverses a move applied by MakeMove.
func (b *Board) UnmakeMove(m Move, undo MovePersistence) {
	if m.IsNull() {
		b.UnmakeNullMove(NullMoveUndo{EpSquare: undo.EpSquare, Hash: undo.Hash})
		return
	}

	them := b.SideToMove
	us := them.Other()
	from, to := m.Src, m.Dst

	b.CastlingRights = undo.Castling
	b.EpSquare = undo.EpSquare
	b.HalfmoveClock = int(undo.HalfmoveClock)
	b.Hash = undo.Hash
	b.SideToMove = us

	if us == Black {
		b.FullmoveNumber--
	}

	if m.Kind.IsPromote() {
		promo := m.Kind.PromotePiece()
		b.Pieces[us][promo] &^= SquareBB(to)
		b.Pieces[us][Pawn] |= SquareBB(to)
		b.Cells[to] = MakeCell(Pawn, us)
	}

	b.movePiece(to, from)

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom, rookTo = from+3, from+1
		} else {
			rookFrom, rookTo = from-4, from-1
		}
		b.movePiece(rookTo, rookFrom)
	}

	if undo.Captured != Empty {
		if m.Kind == Enpassant {
			capSq := capturedPawnSquareForEp(to, us)
			b.setPiece(undo.Captured.Piece(), undo.Captured.Color(), capSq)
		} else {
			b.setPiece(undo.Captured.Piece(), undo.Captured.Color(), to)
		}
	}

	b.UpdateCheckers()
}

// LegalMoves returns every legal move in b's current position. Search
// code that needs ordering and staged generation uses MoveGen directly
// plus isMoveLegal filtering per candidate; this is the convenience form
// for callers, such as UCI, that just want the full list.
func (b *Board) LegalMoves() *MoveList {
	var pseudo MoveList
	NewMoveGen(b).GenAll(&pseudo)

	legal := &MoveList{}
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if b.isMoveLegal(m) {
			legal.Add(m)
		}
	}
	return legal
}

// HasLegalMoves reports whether the side to move has at least one legal
// move, short-circuiting instead of building the full list.
func (b *Board) HasLegalMoves() bool {
	var pseudo MoveList
	NewMoveGen(b).GenAll(&pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		if b.isMoveLegal(pseudo.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is in check with no legal
// moves.
func (b *Board) IsCheckmate() bool {
	return b.InCheck() && !b.HasLegalMoves()
}

// IsStalemate reports whether the side to move is not in check but has
// no legal moves.
func (b *Board) IsStalemate() bool {
	return !b.InCheck() && !b.HasLegalMoves()
}

// IsDraw reports whether the position is drawn by stalemate, the
// fifty-move rule, or insufficient material. Repetition is tracked
// outside Board, over a game's move history.
func (b *Board) IsDraw() bool {
	if b.IsStalemate() {
		return true
	}
	if b.HalfmoveClock >= 100 {
		return true
	}
	return b.IsInsufficientMaterial()
}
