package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Piece represents the type of a chess piece, independent of color.
type Piece uint8

const (
	Pawn Piece = iota
	King
	Knight
	Bishop
	Rook
	Queen
	NoPiece Piece = 6
)

// String returns the piece type name.
func (p Piece) String() string {
	switch p {
	case Pawn:
		return "Pawn"
	case King:
		return "King"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece (lowercase).
func (p Piece) Char() byte {
	chars := []byte{'p', 'k', 'n', 'b', 'r', 'q', ' '}
	if p > NoPiece {
		return ' '
	}
	return chars[p]
}

// PieceValue returns the material value of the piece in centipawns, indexed
// by Piece.
var PieceValue = [7]int{100, 20000, 320, 330, 500, 900, 0}

// Cell represents the occupant of a square: a piece of a given color, or
// Empty. Packing: color*8 + piece + 1. Values 7, 8 and 15 never occur.
type Cell uint8

const (
	Empty Cell = 0

	WhitePawn Cell = Cell(Pawn) + 1
	WhiteKing Cell = Cell(King) + 1
	WhiteKnight Cell = Cell(Knight) + 1
	WhiteBishop Cell = Cell(Bishop) + 1
	WhiteRook Cell = Cell(Rook) + 1
	WhiteQueen Cell = Cell(Queen) + 1

	BlackPawn Cell = Cell(Pawn) + 8 + 1
	BlackKing Cell = Cell(King) + 8 + 1
	BlackKnight Cell = Cell(Knight) + 8 + 1
	BlackBishop Cell = Cell(Bishop) + 8 + 1
	BlackRook Cell = Cell(Rook) + 8 + 1
	BlackQueen Cell = Cell(Queen) + 8 + 1
)

// MakeCell packs a piece and color into a Cell. NoColor or NoPiece yields
// Empty.
func MakeCell(p Piece, c Color) Cell {
	if p >= NoPiece || c >= NoColor {
		return Empty
	}
	return Cell(c)*8 + Cell(p) + 1
}

// Piece returns the piece type occupying the cell, or NoPiece if empty or
// one of the unused packed values (7, 8, 15).
func (c Cell) Piece() Piece {
	if c == Empty {
		return NoPiece
	}
	v := (uint8(c) - 1) & 7
	if v >= 6 {
		return NoPiece
	}
	return Piece(v)
}

// Color returns the color of the occupant, or NoColor if empty.
func (c Cell) Color() Color {
	if c == Empty {
		return NoColor
	}
	return Color((uint8(c) - 1) >> 3)
}

// IsEmpty reports whether the cell holds no piece.
func (c Cell) IsEmpty() bool {
	return c == Empty
}

// String returns the FEN character for the cell's occupant, uppercase for
// White and lowercase for Black; a space for Empty.
func (c Cell) String() string {
	if c == Empty {
		return " "
	}
	ch := c.Piece().Char()
	if c.Color() == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// CellFromChar converts a FEN character to a Cell.
func CellFromChar(ch byte) Cell {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return Empty
	}
}

// Value returns the material value of the cell's occupant in centipawns.
func (c Cell) Value() int {
	return PieceValue[c.Piece()]
}
