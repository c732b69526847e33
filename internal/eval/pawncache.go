package eval

import (
	"github.com/cespare/xxhash/v2"
	"github.com/alex65536/sofcheck-sub000/internal/board"
)

// PawnCacheValue is the 8-byte payload stored per pawn-structure cache slot:
// three file-presence byte masks (bit i set = file i qualifies), a flag
// byte reserved for future use, two reserved bytes for alignment, and the
// 16-bit pawn-structure score from White's perspective.
type PawnCacheValue struct {
	OpenFiles      uint8 // no pawns of either color
	WhiteOnlyFiles uint8 // white pawns present, black absent (semi-open for black)
	BlackOnlyFiles uint8 // black pawns present, white absent (semi-open for white)
	Flags          uint8
	_              uint16 // reserved
	Score          int16
}

type pawnCacheSlot struct {
	key   uint64
	value PawnCacheValue
	valid bool
}

// PawnCache is a direct-mapped cache of pawn-structure evaluations, keyed by
// a hash of the two pawn bitboards. 2^18 entries, as the table was sized in
// the implementation this design is drawn from.
const pawnCacheBits = 18
const pawnCacheSize = 1 << pawnCacheBits

type PawnCache struct {
	slots [pawnCacheSize]pawnCacheSlot
}

// NewPawnCache returns an empty pawn-structure cache.
func NewPawnCache() *PawnCache {
	return &PawnCache{}
}

func pawnCacheKey(b *board.Board) uint64 {
	var buf [16]byte
	wp := uint64(b.Pieces[board.White][board.Pawn])
	bp := uint64(b.Pieces[board.Black][board.Pawn])
	for i := 0; i < 8; i++ {
		buf[i] = byte(wp >> (8 * i))
		buf[8+i] = byte(bp >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}

// Probe returns the cached file masks and score for b's pawn structure, or
// ok=false on a miss (including a hash collision against a different pawn
// layout, indistinguishable from a miss at 64 bits of discrimination).
func (pc *PawnCache) Probe(b *board.Board) (PawnCacheValue, bool) {
	key := pawnCacheKey(b)
	slot := &pc.slots[key&(pawnCacheSize-1)]
	if slot.valid && slot.key == key {
		return slot.value, true
	}
	return PawnCacheValue{}, false
}

// Store writes v into the slot for b's pawn structure, overwriting whatever
// was there (the table is direct-mapped, no aging or replacement policy).
func (pc *PawnCache) Store(b *board.Board, v PawnCacheValue) {
	key := pawnCacheKey(b)
	slot := &pc.slots[key&(pawnCacheSize-1)]
	slot.key = key
	slot.value = v
	slot.valid = true
}

// Clear empties the cache.
func (pc *PawnCache) Clear() {
	*pc = PawnCache{}
}

// fileMasks computes the three file-presence masks for the current pawn
// structure, stored in the cache beside the score. The rook and king
// open-file terms in eval.go test the files themselves and do not read them.
func fileMasks(b *board.Board) (open, whiteOnly, blackOnly uint8) {
	wp := b.Pieces[board.White][board.Pawn]
	bp := b.Pieces[board.Black][board.Pawn]
	for f := 0; f < 8; f++ {
		fm := board.FileMask[f]
		hw := wp&fm != 0
		hb := bp&fm != 0
		switch {
		case !hw && !hb:
			open |= 1 << f
		case hw && !hb:
			whiteOnly |= 1 << f
		case !hw && hb:
			blackOnly |= 1 << f
		}
	}
	return
}
