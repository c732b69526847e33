package board

import "fmt"

// Kind identifies the category of a Move.
type Kind uint8

const (
	Null Kind = iota
	Simple
	PawnDoubleMove
	Enpassant
	CastlingKingside
	CastlingQueenside
	PromoteKnight
	PromoteBishop
	PromoteRook
	PromoteQueen
	Invalid
)

// String returns a short name for the move kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "Null"
	case Simple:
		return "Simple"
	case PawnDoubleMove:
		return "PawnDoubleMove"
	case Enpassant:
		return "Enpassant"
	case CastlingKingside:
		return "CastlingKingside"
	case CastlingQueenside:
		return "CastlingQueenside"
	case PromoteKnight:
		return "PromoteKnight"
	case PromoteBishop:
		return "PromoteBishop"
	case PromoteRook:
		return "PromoteRook"
	case PromoteQueen:
		return "PromoteQueen"
	default:
		return "Invalid"
	}
}

// IsPromote reports whether the kind promotes a pawn.
func (k Kind) IsPromote() bool {
	return k >= PromoteKnight && k <= PromoteQueen
}

// PromotePiece returns the piece a PromoteX kind promotes to. Only valid
// when IsPromote() is true.
func (k Kind) PromotePiece() Piece {
	switch k {
	case PromoteKnight:
		return Knight
	case PromoteBishop:
		return Bishop
	case PromoteRook:
		return Rook
	case PromoteQueen:
		return Queen
	default:
		return NoPiece
	}
}

func promoteKindOf(p Piece) Kind {
	switch p {
	case Knight:
		return PromoteKnight
	case Bishop:
		return PromoteBishop
	case Rook:
		return PromoteRook
	case Queen:
		return PromoteQueen
	default:
		return Invalid
	}
}

// Move encodes a chess move as (kind, src, dst, tag). The tag byte is an
// auxiliary slot used by movegen/search for ordering keys and does not
// participate in move identity.
type Move struct {
	Kind Kind
	Src  Square
	Dst  Square
	Tag  uint8
}

// NullMove is the well-formed null move: legal whenever the side to move
// is not in check.
var NullMove = Move{Kind: Null, Src: NoSquare, Dst: NoSquare}

// InvalidMove is the sentinel move pickers and parsers return to signal
// "no move".
var InvalidMove = Move{Kind: Invalid, Src: NoSquare, Dst: NoSquare}

// IsInvalid reports whether m is the Invalid sentinel.
func (m Move) IsInvalid() bool {
	return m.Kind == Invalid
}

// IsNull reports whether m is the null move.
func (m Move) IsNull() bool {
	return m.Kind == Null
}

// IsCastling reports whether m is either castling kind.
func (m Move) IsCastling() bool {
	return m.Kind == CastlingKingside || m.Kind == CastlingQueenside
}

// Equal compares moves by kind, source and destination, ignoring Tag.
func (m Move) Equal(o Move) bool {
	return m.Kind == o.Kind && m.Src == o.Src && m.Dst == o.Dst
}

// String returns the long-algebraic form of m: "e2e4", "e7e8q", or "0000"
// for the null move.
func (m Move) String() string {
	if m.Kind == Null {
		return "0000"
	}
	if m.Kind == Invalid {
		return "(invalid)"
	}
	s := m.Src.String() + m.Dst.String()
	if m.Kind.IsPromote() {
		s += string(m.Kind.PromotePiece().Char())
	}
	return s
}

// ParseMove parses a long-algebraic move string against a board,
// disambiguating double pawn pushes, en passant and castling from board
// state. It rejects any token that is not "<from><to>[promo]" or "0000",
// and any move that is not pseudo-legal in b, returning InvalidMove and an
// error.
func ParseMove(s string, b *Board) (Move, error) {
	m, err := parseMoveToken(s, b)
	if err != nil {
		return InvalidMove, err
	}
	if !m.IsNull() && !b.isMoveValid(m) {
		return InvalidMove, fmt.Errorf("move %s is not pseudo-legal", s)
	}
	return m, nil
}

func parseMoveToken(s string, b *Board) (Move, error) {
	if s == "0000" {
		return NullMove, nil
	}
	if len(s) != 4 && len(s) != 5 {
		return InvalidMove, fmt.Errorf("invalid move token: %q", s)
	}

	src, err := ParseSquare(s[0:2])
	if err != nil {
		return InvalidMove, err
	}
	dst, err := ParseSquare(s[2:4])
	if err != nil {
		return InvalidMove, err
	}

	if len(s) == 5 {
		var p Piece
		switch s[4] {
		case 'n':
			p = Knight
		case 'b':
			p = Bishop
		case 'r':
			p = Rook
		case 'q':
			p = Queen
		default:
			return InvalidMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return Move{Kind: promoteKindOf(p), Src: src, Dst: dst}, nil
	}

	cell := b.CellAt(src)
	if cell.IsEmpty() {
		return InvalidMove, fmt.Errorf("no piece on %s", src)
	}

	if cell.Piece() == King && abs(int(dst)-int(src)) == 2 {
		if dst.File() > src.File() {
			return Move{Kind: CastlingKingside, Src: src, Dst: dst}, nil
		}
		return Move{Kind: CastlingQueenside, Src: src, Dst: dst}, nil
	}

	if cell.Piece() == Pawn {
		if dst == b.EpSquare {
			return Move{Kind: Enpassant, Src: src, Dst: dst}, nil
		}
		if abs(src.ChessRank()-dst.ChessRank()) == 2 {
			return Move{Kind: PawnDoubleMove, Src: src, Dst: dst}, nil
		}
	}

	return Move{Kind: Simple, Src: src, Dst: dst}, nil
}

// MovePersistence is the undo record produced by Board.MakeMove: exactly
// enough state to reverse the mutation, fixed at 16 bytes so move stacks
// stay cache-friendly during search.
type MovePersistence struct {
	Hash          uint64
	Castling      CastlingRights
	EpSquare      Square
	HalfmoveClock uint16
	Captured      Cell
	_             [3]byte // pad to 16 bytes
}

// MoveList is a fixed-capacity move buffer sized to the generator's worst
// case (300 pseudo-legal moves in any reachable position), avoiding
// allocation during move generation.
type MoveList struct {
	moves [300]Move
	count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves currently stored.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set overwrites the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap exchanges the moves at indices i and j.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether m is present, compared by Kind/Src/Dst.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].Equal(m) {
			return true
		}
	}
	return false
}

// Slice returns the stored moves as a slice sharing the list's backing
// array; it is invalidated by a subsequent Add past the slice's length.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
