package search

import "github.com/alex65536/sofcheck-sub000/internal/board"

// Stage identifies which move-picker phase is currently being drawn from.
type Stage int

const (
	StageHashMove Stage = iota
	StageCapture
	StageSimplePromote
	StageKiller
	StageHistory
	StageEnd
)

// MovePicker yields moves from a position in stages, generating each
// stage's candidates lazily so a beta cutoff in an early stage never pays
// for generating or sorting the later ones.
type MovePicker struct {
	b    *board.Board
	gen  *board.MoveGen
	hist *HistoryTable

	stage    Stage
	hashMove board.Move
	killer1  board.Move
	killer2  board.Move

	captures   board.MoveList
	capIdx     int
	promotes   board.MoveList
	promIdx    int
	quiets     board.MoveList
	quietIdx   int

	// yielded records the hash move and killers once handed out, so a later
	// stage never repeats one of them (the killer already tried as the hash
	// move, a quiet move already tried as a killer, etc). Captures,
	// promotions and quiet moves are disjoint, so only these can recur.
	yielded [8]board.Move

	// historyCount is the number of moves returned while in StageHistory,
	// which search uses for late-move-reduction eligibility.
	historyCount int
}

// NewMovePicker prepares a picker over b's current position.
func NewMovePicker(b *board.Board, hashMove, killer1, killer2 board.Move, hist *HistoryTable) *MovePicker {
	mp := &MovePicker{
		b:        b,
		gen:      board.NewMoveGen(b),
		hist:     hist,
		hashMove: hashMove,
		killer1:  killer1,
		killer2:  killer2,
	}
	for i := range mp.yielded {
		mp.yielded[i] = board.InvalidMove
	}
	return mp
}

// Stage reports the picker's current stage.
func (mp *MovePicker) Stage() Stage {
	return mp.stage
}

// HistoryCount reports how many moves have been yielded from StageHistory
// so far, used by the caller to decide late-move-reduction eligibility.
func (mp *MovePicker) HistoryCount() int {
	return mp.historyCount
}

func (mp *MovePicker) markYielded(m board.Move) {
	for i, y := range mp.yielded {
		if y.IsInvalid() {
			mp.yielded[i] = m
			return
		}
	}
}

func (mp *MovePicker) wasYielded(m board.Move) bool {
	for _, y := range mp.yielded {
		if !y.IsInvalid() && y.Equal(m) {
			return true
		}
	}
	return false
}

// Next returns the next move, or board.InvalidMove once every stage is
// exhausted.
func (mp *MovePicker) Next() board.Move {
	for mp.stage != StageEnd {
		if m, ok := mp.nextInStage(); ok {
			if mp.stage == StageHashMove || mp.stage == StageKiller {
				mp.markYielded(m)
			}
			return m
		}
		mp.advanceStage()
	}
	return board.InvalidMove
}

func (mp *MovePicker) advanceStage() {
	switch mp.stage {
	case StageHashMove:
		mp.stage = StageCapture
		mp.gen.GenCaptures(&mp.captures)
		sortCaptures(mp.b, &mp.captures)
	case StageCapture:
		mp.stage = StageSimplePromote
		mp.gen.GenSimplePromotes(&mp.promotes)
		sortPromotes(&mp.promotes)
	case StageSimplePromote:
		mp.stage = StageKiller
	case StageKiller:
		mp.stage = StageHistory
		mp.gen.GenSimpleNoPromote(&mp.quiets)
		sortHistory(mp.hist, &mp.quiets)
	case StageHistory:
		mp.stage = StageEnd
	}
}

func (mp *MovePicker) nextInStage() (board.Move, bool) {
	switch mp.stage {
	case StageHashMove:
		if mp.hashMove.IsInvalid() || mp.hashMove.IsNull() {
			return board.Move{}, false
		}
		if !mp.b.IsMoveValid(mp.hashMove) {
			return board.Move{}, false
		}
		m := mp.hashMove
		mp.hashMove = board.InvalidMove // never revisit
		return m, true

	case StageCapture:
		for mp.capIdx < mp.captures.Len() {
			m := mp.captures.Get(mp.capIdx)
			mp.capIdx++
			if mp.wasYielded(m) {
				continue
			}
			return m, true
		}
		return board.Move{}, false

	case StageSimplePromote:
		for mp.promIdx < mp.promotes.Len() {
			m := mp.promotes.Get(mp.promIdx)
			mp.promIdx++
			if mp.wasYielded(m) {
				continue
			}
			return m, true
		}
		return board.Move{}, false

	case StageKiller:
		for i, k := range []board.Move{mp.killer1, mp.killer2} {
			if k.IsInvalid() || k.IsNull() || mp.wasYielded(k) {
				continue
			}
			if !mp.b.CellAt(k.Dst).IsEmpty() {
				continue // killers must be quiet
			}
			if !mp.b.IsMoveValid(k) {
				continue
			}
			if i == 0 {
				mp.killer1 = board.InvalidMove
			} else {
				mp.killer2 = board.InvalidMove
			}
			return k, true
		}
		mp.killer1 = board.InvalidMove
		mp.killer2 = board.InvalidMove
		return board.Move{}, false

	case StageHistory:
		for mp.quietIdx < mp.quiets.Len() {
			m := mp.quiets.Get(mp.quietIdx)
			mp.quietIdx++
			if mp.wasYielded(m) {
				continue
			}
			mp.historyCount++
			return m, true
		}
		return board.Move{}, false
	}
	return board.Move{}, false
}

func sortCaptures(b *board.Board, ml *board.MoveList) {
	n := ml.Len()
	scores := make([]int, n)
	for i := 0; i < n; i++ {
		m := ml.Get(i)
		attacker := b.CellAt(m.Src).Piece()
		var victim board.Piece
		if m.Kind == board.Enpassant {
			victim = board.Pawn
		} else {
			victim = b.CellAt(m.Dst).Piece()
		}
		scores[i] = mvvLvaScore(attacker, victim)
	}
	selectionSortDesc(ml, scores)
}

func sortPromotes(ml *board.MoveList) {
	n := ml.Len()
	scores := make([]int, n)
	for i := 0; i < n; i++ {
		scores[i] = promoteRank(ml.Get(i).Kind)
	}
	selectionSortDesc(ml, scores)
}

func sortHistory(hist *HistoryTable, ml *board.MoveList) {
	n := ml.Len()
	scores := make([]int64, n)
	for i := 0; i < n; i++ {
		m := ml.Get(i)
		scores[i] = hist.Score(m.Src, m.Dst)
	}
	n2 := ml.Len()
	for i := 0; i < n2-1; i++ {
		best := i
		for j := i + 1; j < n2; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			ml.Swap(i, best)
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}

func selectionSortDesc(ml *board.MoveList, scores []int) {
	n := ml.Len()
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			ml.Swap(i, best)
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}
