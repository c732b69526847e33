package eval

import "github.com/alex65536/sofcheck-sub000/internal/board"

// Passed pawn bonuses by relative rank (index 0 = own back rank, 6 = one
// step from promotion, 7 = the promotion rank, where no pawn stands).
var passedPawnBonus = [8]int{0, 10, 20, 40, 70, 120, 200, 0}

const (
	passedPawnConnectedBonus = 20
	passedPawnProtectedBonus = 15
	passedPawnFreePathBonus  = 30
	passedPawnUnstoppableEg  = 200
)

var kingDistanceBonus = [8]int{0, 0, 10, 20, 30, 40, 50, 60}

// Mobility weights per piece type, indexed by board.Piece.
var mobilityMg = [6]int{0, 0, 5, 5, 2, 1} // Pawn, King, Knight, Bishop, Rook, Queen
var mobilityEg = [6]int{0, 0, 3, 4, 4, 2}

// King safety attacker weights per attacking piece type.
var attackerWeight = [6]int{0, 0, 20, 20, 40, 80}

const (
	pawnShieldBonus      = 10
	pawnShieldMissing    = -15
	openFileNearKing     = -20
	semiOpenFileNearKing = -10
)

const (
	bishopPairMg = 25
	bishopPairEg = 50
)

const (
	rookOpenFileMg     = 20
	rookOpenFileEg     = 25
	rookSemiOpenFileMg = 10
	rookSemiOpenFileEg = 15
)

const (
	doubledPawnMg  = -15
	doubledPawnEg  = -20
	isolatedPawnMg = -20
	isolatedPawnEg = -25
	backwardPawnMg = -15
	backwardPawnEg = -10
)

const (
	knightOutpostMg          = 25
	knightOutpostEg          = 15
	knightOutpostProtectedMg = 15
	knightOutpostProtectedEg = 10
	bishopOutpostMg          = 15
	bishopOutpostEg          = 10
)

const tempoBonus = 10

const (
	hangingPiecePenalty = -40
	threatByPawnBonus   = 25
	threatByMinorBonus  = 20
	loosePiecePenalty   = -10
)

var tropismWeight = [6]int{0, 0, 3, 2, 2, 5}

const (
	rookOn7thMg          = 30
	rookOn7thEg          = 40
	rookOn7thWithPawnsMg = 15
	rookOn7thWithPawnsEg = 20
	doubleRooksOn7thMg   = 50
	doubleRooksOn7thEg   = 60
	connectedRooksMg     = 10
	connectedRooksEg     = 15
	doubledRooksOnFileMg = 20
	doubledRooksOnFileEg = 25
)

const (
	spaceSquareBonus     = 2
	spaceBehindPawnBonus = 3
	spaceMinPieces       = 3
)

const (
	badBishopPenaltyMg     = -5
	badBishopPenaltyEg     = -10
	trappedBishopPenaltyMg = -80
	trappedBishopPenaltyEg = -50
	trappedRookPenaltyMg   = -50
	trappedRookPenaltyEg   = -25
	knightRimPenaltyMg     = -15
	knightRimPenaltyEg     = -10
	knightCornerPenaltyMg  = -30
	knightCornerPenaltyEg  = -20
)

var whiteSpaceZone = (board.FileC | board.FileD | board.FileE | board.FileF) &
	(board.ChessRankMask[1] | board.ChessRankMask[2] | board.ChessRankMask[3] | board.ChessRankMask[4])
var blackSpaceZone = (board.FileC | board.FileD | board.FileE | board.FileF) &
	(board.ChessRankMask[3] | board.ChessRankMask[4] | board.ChessRankMask[5] | board.ChessRankMask[6])

var lightSquares, darkSquares board.Bitboard
var rimSquares = board.FileA | board.FileH | board.ChessRankMask[0] | board.ChessRankMask[7]
var cornerSquares = board.SquareBB(board.A1) | board.SquareBB(board.H1) |
	board.SquareBB(board.A8) | board.SquareBB(board.H8)

func init() {
	for sq := board.A8; sq <= board.H1; sq++ {
		if (sq.File()+sq.ChessRank())%2 == 1 {
			lightSquares |= board.SquareBB(sq)
		} else {
			darkSquares |= board.SquareBB(sq)
		}
	}
}

// Piece-square tables, written with index 0 = a8 (the top rank as drawn),
// which lines up directly with the board package's a8=0 square numbering:
// a White piece looks its table value up at its own square, a Black piece
// at the vertical mirror.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// pstByPiece maps a non-king Piece to its table, indexed by board.Piece.
var pstByPiece = [6][64]int{
	board.Pawn:   pawnPST,
	board.Knight: knightPST,
	board.Bishop: bishopPST,
	board.Rook:   rookPST,
	board.Queen:  queenPST,
}

// phaseWeight is the non-pawn-material phase contribution per piece type,
// summing to 12 per side (24 total), which is ScorePair's MixUnit.
var phaseWeight = [6]int{0, 0, 1, 1, 2, 4} // Pawn, King, Knight, Bishop, Rook, Queen

// pieceSquare returns the packed PSQ value for a piece of color c, type p,
// sitting on sq.
func pieceSquare(p board.Piece, c board.Color, sq board.Square) ScorePair {
	pstSq := sq
	if c == board.Black {
		pstSq = sq.Mirror()
	}
	if p == board.King {
		return MakeScore(
			int16(board.PieceValue[board.King]+kingMidgamePST[pstSq]),
			int16(board.PieceValue[board.King]+kingEndgamePST[pstSq]),
		)
	}
	v := board.PieceValue[p] + pstByPiece[p][pstSq]
	return MakeScore(int16(v), int16(v))
}
