package search

import "github.com/alex65536/sofcheck-sub000/internal/board"

// MaxPly bounds per-thread search stack depth: killer/history/PV arrays are
// sized to it, and the iterative deepening driver treats reaching it as the
// leaf case regardless of remaining depth.
const MaxPly = 128

// KillerTable is a two-slot most-recently-used list of quiet moves that
// caused a beta cutoff, indexed by ply.
type KillerTable struct {
	slots [MaxPly][2]board.Move
}

// Add records m as the newest killer at ply, shifting the previous first
// slot down. A move already in the first slot is left alone.
func (k *KillerTable) Add(ply int, m board.Move) {
	if ply >= MaxPly {
		return
	}
	if k.slots[ply][0].Equal(m) {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = m
}

// Get returns the two killer moves at ply, possibly invalid.
func (k *KillerTable) Get(ply int) (board.Move, board.Move) {
	if ply >= MaxPly {
		return board.InvalidMove, board.InvalidMove
	}
	return k.slots[ply][0], k.slots[ply][1]
}

// Clear empties every slot for a new search.
func (k *KillerTable) Clear() {
	for i := range k.slots {
		k.slots[i][0] = board.InvalidMove
		k.slots[i][1] = board.InvalidMove
	}
}

// HistoryTable is the fixed 64x64 quiet-move cutoff counter used to order
// moves that reach the History move-picker stage.
type HistoryTable struct {
	counters [64][64]int64
}

// Add adds depth*depth to the counter for (from, to), the bonus a
// beta-cutoff quiet move earns at this depth.
func (h *HistoryTable) Add(from, to board.Square, depth int) {
	h.counters[from][to] += int64(depth) * int64(depth)
}

// Score returns the current counter for (from, to).
func (h *HistoryTable) Score(from, to board.Square) int64 {
	return h.counters[from][to]
}

// Clear zeroes every counter for a new search.
func (h *HistoryTable) Clear() {
	for i := range h.counters {
		for j := range h.counters[i] {
			h.counters[i][j] = 0
		}
	}
}

// pieceRank orders piece types by material value for MVV/LVA, independent
// of board.Piece's own enum ordering.
func pieceRank(p board.Piece) int {
	switch p {
	case board.Pawn:
		return 0
	case board.Knight:
		return 1
	case board.Bishop:
		return 2
	case board.Rook:
		return 3
	case board.Queen:
		return 4
	case board.King:
		return 5
	default:
		return 0
	}
}

// mvvLvaScore ranks a capture by victim value first, cheapest attacker
// second: 7 minus the attacker's rank is the tiebreak added under victim
// rank * 8.
func mvvLvaScore(attacker, victim board.Piece) int {
	return pieceRank(victim)*8 + (7 - pieceRank(attacker))
}

func promoteRank(k board.Kind) int {
	switch k {
	case board.PromoteQueen:
		return 3
	case board.PromoteRook:
		return 2
	case board.PromoteBishop:
		return 1
	case board.PromoteKnight:
		return 0
	default:
		return -1
	}
}
