// Package board implements chess board representation using bitboards.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
//
// Big-Endian Rank-File mapping: bit 0..2 hold the file (a..h), bit 3..5 hold
// the rank counted down from rank 8, so rank 8 is the "top" and occupies the
// low indices. A1 is 56, H1 is 63, A8 is 0, H8 is 7.
type Square uint8

// Square constants for all 64 squares.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the BERF rank component of the square: 0 for rank 8, down to
// 7 for rank 1. Use ChessRank for the conventional 0=rank1..7=rank8 index.
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// ChessRank returns the conventional rank index, 0 for rank 1 up to 7 for
// rank 8.
func (sq Square) ChessRank() int {
	return 7 - sq.Rank()
}

// FlipRank mirrors the square vertically: rank 1 <-> rank 8, file unchanged.
func (sq Square) FlipRank() Square {
	return sq ^ 56
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.ChessRank())
}

// NewSquare builds a square from a file (0=a..7=h) and a conventional
// chess rank (0=rank1..7=rank8).
func NewSquare(file, chessRank int) Square {
	return Square((7-chessRank)*8 + file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	chessRank := int(s[1] - '1')

	if file < 0 || file > 7 || chessRank < 0 || chessRank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, chessRank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror returns the square mirrored vertically (for black's perspective).
// Equivalent to FlipRank; kept as an alias for readability at call sites
// that mirror piece-square tables rather than board geometry.
func (sq Square) Mirror() Square {
	return sq.FlipRank()
}

// RelativeRank returns the rank from a given color's perspective, 0 being
// that color's home rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.ChessRank()
	}
	return 7 - sq.ChessRank()
}
