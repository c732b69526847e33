// Package search implements the engine's iterative-deepening negamax core:
// principal-variation search with null-move reduction, late-move reduction,
// futility pruning, and a staged move picker, running against a shared
// lock-free transposition table.
package search

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/alex65536/sofcheck-sub000/internal/board"
	"github.com/alex65536/sofcheck-sub000/internal/eval"
	"github.com/alex65536/sofcheck-sub000/internal/tt"
)

// NodeKind classifies a search node for pruning eligibility: only Simple
// nodes apply futility and null-move pruning, and only Root reports a PV.
type NodeKind uint8

const (
	Root NodeKind = iota
	Pv
	Simple
)

// Flags records per-path search context that shapes which techniques are
// allowed to fire at a node.
type Flags uint8

const (
	FlagCapture Flags = 1 << iota
	FlagNullMove
	FlagNullMoveReduction
	FlagLateMoveReduction
)

// inheritedFlags is masked onto a recursive call; Capture is always
// recomputed fresh for the specific child move instead of inherited.
const inheritedFlags = FlagNullMove | FlagNullMoveReduction | FlagLateMoveReduction

const (
	// Infinity lies above every mate score, so a full window admits them.
	Infinity = MateScore + 1
	// MateScore matches tt.MateScore so stored and in-flight scores share
	// one mate-distance convention.
	MateScore = tt.MateScore

	// FutilityMaxDepth bounds how deep futility pruning is attempted.
	FutilityMaxDepth = 8
	futilityMarginPerPly = 120

	// NullMinDepth is the minimum remaining depth null-move reduction
	// requires.
	NullMinDepth = 3

	// LateMoveMinDepth is the minimum remaining depth at which late move
	// reduction is attempted.
	LateMoveMinDepth = 3
	// lateMoveHistoryThreshold is how many history-stage moves must
	// already have been tried before LMR applies to a further one.
	lateMoveHistoryThreshold = 1

	maxQuiescencePly = 32
)

func isMateScore(v int) bool {
	return v > MateScore-tt.MaxPly || v < -MateScore+tt.MaxPly
}

var lmrTable [MaxPly][64]int

func init() {
	for d := 1; d < MaxPly; d++ {
		for m := 1; m < 64; m++ {
			r := 0.75 + math.Log(float64(d))*math.Log(float64(m))/2.25
			if r < 0 {
				r = 0
			}
			lmrTable[d][m] = int(r)
		}
	}
}

func lmrReduction(depth, moveNumber int) int {
	if depth <= 0 || depth >= MaxPly {
		return 0
	}
	if moveNumber >= 64 {
		moveNumber = 63
	}
	return lmrTable[depth][moveNumber]
}

// Communicator is the minimal view of the job runner's shared state the
// search core needs: whether to stop, and a way to claim "first to finish
// this depth" so only one worker reports each depth's PV.
type Communicator interface {
	Stopped() bool
	ClaimDepth(depth int) bool
}

// Result is what one completed (or partially completed before a stop)
// iterative-deepening run reports.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	Nodes uint64
	PV    []board.Move
}

// Searcher holds everything one worker thread owns during search: its own
// board, its own killer/history tables, its own repetition set, and the
// pawn-structure cache it is built with (the engine gives each worker its
// own). The only cross-thread state it
// touches is the shared TT and the Communicator's stop flag.
type Searcher struct {
	Comm      Communicator
	TT        *tt.Table
	PawnCache *eval.PawnCache

	Killers KillerTable
	History HistoryTable

	// Nodes is atomic so the job runner can sample it from another
	// goroutine while this worker keeps searching.
	Nodes atomic.Uint64

	// OnDepth, if set, is called with the result of each depth this
	// searcher is the first to finish (per Comm.ClaimDepth), letting the
	// caller report incremental progress.
	OnDepth func(Result)

	b   *board.Board
	rep *RepetitionTable

	pvLen   [MaxPly]int
	pvTable [MaxPly][MaxPly]board.Move
}

// NewSearcher builds a worker-local searcher sharing tbl and pawnCache.
func NewSearcher(comm Communicator, tbl *tt.Table, pawnCache *eval.PawnCache) *Searcher {
	return &Searcher{Comm: comm, TT: tbl, PawnCache: pawnCache}
}

// Reset clears per-search state (killers, history, node count) without
// touching the shared TT.
func (s *Searcher) Reset() {
	s.Killers.Clear()
	s.History.Clear()
	s.Nodes.Store(0)
}

// DiversifyRootMoves reorders the top jobCount root moves so parallel
// workers explore the tree from different first guesses: thread 0 leaves
// the order alone, thread i in 1..jobCount-1 reverses its first i moves,
// and any further thread shuffles the top jobCount moves.
func (s *Searcher) DiversifyRootMoves(moves *board.MoveList, threadIndex, jobCount int) {
	n := moves.Len()
	if threadIndex == 0 || n == 0 {
		return
	}
	top := jobCount
	if top > n {
		top = n
	}
	if threadIndex < top {
		lo, hi := 0, threadIndex-1
		if hi >= top {
			hi = top - 1
		}
		for lo < hi {
			moves.Swap(lo, hi)
			lo++
			hi--
		}
		return
	}
	rand.Shuffle(top, func(i, j int) { moves.Swap(i, j) })
}

// IterativeDeepen runs search<Root> for depth = 1, 2, ... until the
// communicator signals stop or maxDepth is reached, reusing the TT between
// iterations. b is searched in place; rep must already be seeded with the
// position's setup history.
func (s *Searcher) IterativeDeepen(b *board.Board, rep *RepetitionTable, maxDepth int, threadIndex, jobCount int) Result {
	s.b = b
	s.rep = rep

	best := Result{Move: board.InvalidMove}
	var legal board.MoveList
	NewMovePickerLegal(b, &legal)
	s.DiversifyRootMoves(&legal, threadIndex, jobCount)
	if legal.Len() > 0 {
		best.Move = legal.Get(0)
	}

	tag := eval.From(b)

	for depth := 1; depth <= maxDepth; depth++ {
		if s.Comm.Stopped() {
			break
		}
		score := s.search(Root, depth, 0, -Infinity, Infinity, tag, 0)
		if s.Comm.Stopped() {
			break
		}

		best.Score = score
		best.Depth = depth
		best.Nodes = s.Nodes.Load()
		if s.pvLen[0] > 0 {
			best.Move = s.pvTable[0][0]
			pv := make([]board.Move, s.pvLen[0])
			copy(pv, s.pvTable[0][:s.pvLen[0]])
			best.PV = pv
		}
		if s.Comm.ClaimDepth(depth) && s.OnDepth != nil {
			s.OnDepth(best)
		}
	}
	return best
}

// NewMovePickerLegal fills out with every legal move in b, used only for
// the root's diversification step (which needs the actual legal set, not a
// staged pseudo-legal enumeration).
func NewMovePickerLegal(b *board.Board, out *board.MoveList) {
	legal := b.LegalMoves()
	for i := 0; i < legal.Len(); i++ {
		out.Add(legal.Get(i))
	}
}

func (s *Searcher) updatePV(ply int, m board.Move) {
	s.pvTable[ply][ply] = m
	for j := ply + 1; j < s.pvLen[ply+1]; j++ {
		s.pvTable[ply][j] = s.pvTable[ply+1][j]
	}
	s.pvLen[ply] = s.pvLen[ply+1]
}

// search implements the iterative-deepening-per-call negamax core:
// TT-probed, futility- and null-move-pruned, late-move-reduced PVS.
func (s *Searcher) search(kind NodeKind, depth, idepth int, alpha, beta int, tag eval.Tag, flags Flags) int {
	s.pvLen[idepth] = idepth
	n := s.Nodes.Add(1)

	if n&4095 == 0 && s.Comm.Stopped() {
		return 0
	}

	b := s.b
	s.TT.Prefetch(b.Hash)

	if !s.rep.Insert(b.Hash) {
		return 0
	}
	defer s.rep.Remove(b.Hash)

	if kind != Root {
		if b.HalfmoveClock >= 100 || b.IsInsufficientMaterial() {
			return 0
		}
	}

	if idepth >= MaxPly-1 {
		depth = 0
	}
	if depth <= 0 {
		return s.quiescence(idepth, 0, alpha, beta, tag)
	}

	inCheck := b.InCheck()
	origAlpha := alpha

	var ttMove board.Move = board.InvalidMove
	if entry, ok := s.TT.Probe(b.Hash); ok {
		ttMove = entry.Move
		if int(entry.Depth) >= depth && b.HalfmoveClock < 90 {
			score := tt.ScoreFromTT(int(entry.Score), idepth)
			switch entry.Bound {
			case tt.Exact:
				return score
			case tt.Lower:
				if score > alpha {
					alpha = score
				}
			case tt.Upper:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	nonPV := kind != Root && kind != Pv

	if nonPV && depth <= FutilityMaxDepth && !inCheck && !isMateScore(alpha) && !isMateScore(beta) {
		margin := futilityMarginPerPly * depth
		e := eval.Evaluate(b, s.PawnCache)
		if e >= beta+margin {
			return beta
		}
	}

	if nonPV && depth >= NullMinDepth && !inCheck && !isMateScore(beta) &&
		flags&(FlagNullMove|FlagCapture) == 0 && b.HasNonPawnMaterial() {
		nullUndo := b.MakeNullMove()
		reduction := 2 + depth/6
		childDepth := depth - 1 - reduction
		score := -s.search(Simple, childDepth, idepth+1, -beta, -beta+1, tag,
			(flags&inheritedFlags)|FlagNullMove|FlagNullMoveReduction)
		b.UnmakeNullMove(nullUndo)
		if s.Comm.Stopped() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	killer1, killer2 := s.Killers.Get(idepth)
	picker := NewMovePicker(b, ttMove, killer1, killer2, &s.History)

	bestScore := -Infinity
	bestMove := board.InvalidMove
	bound := tt.Upper
	legalCount := 0

	for {
		m := picker.Next()
		if m.IsInvalid() {
			break
		}
		if !b.IsLegal(m) {
			continue
		}
		legalCount++

		isCapture := !b.CellAt(m.Dst).IsEmpty() || m.Kind == board.Enpassant
		childFlags := flags & inheritedFlags
		if isCapture {
			childFlags |= FlagCapture
		}

		childTag := tag.Updated(b, m)
		undo := b.MakeMove(m)

		var score int
		reduced := false
		if kind != Root && legalCount > 1 && depth >= LateMoveMinDepth && !inCheck &&
			picker.Stage() == StageHistory && picker.HistoryCount() > lateMoveHistoryThreshold &&
			!isCapture && m.Kind == board.Simple {
			r := lmrReduction(depth, legalCount)
			if r > 0 {
				reduced = true
				score = -s.search(Simple, depth-1-r, idepth+1, -alpha-1, -alpha, childTag,
					childFlags|FlagLateMoveReduction)
			}
		}

		if !reduced {
			if legalCount == 1 {
				score = -s.search(childKind(kind), depth-1, idepth+1, -beta, -alpha, childTag, childFlags)
			} else {
				score = -s.search(Simple, depth-1, idepth+1, -alpha-1, -alpha, childTag, childFlags)
				if score > alpha && score < beta {
					score = -s.search(childKind(kind), depth-1, idepth+1, -beta, -alpha, childTag, childFlags)
				}
			}
		} else if score > alpha {
			score = -s.search(childKind(kind), depth-1, idepth+1, -beta, -alpha, childTag, childFlags)
		}

		b.UnmakeMove(m, undo)

		if s.Comm.Stopped() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				bound = tt.Exact
				s.updatePV(idepth, m)
			}
		}

		if score >= beta {
			if picker.Stage() >= StageKiller && !isCapture {
				s.Killers.Add(idepth, m)
				s.History.Add(m.Src, m.Dst, depth)
			}
			s.TT.Store(b.Hash, tt.Data{
				Move:  bestMove,
				Score: int16(tt.ScoreToTT(beta, idepth)),
				Depth: int8(depth),
				Bound: tt.Lower,
				PV:    kind != Simple,
			})
			return beta
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -MateScore + idepth
		}
		return 0
	}

	if bestScore <= origAlpha {
		bound = tt.Upper
	}
	s.TT.Store(b.Hash, tt.Data{
		Move:  bestMove,
		Score: int16(tt.ScoreToTT(bestScore, idepth)),
		Depth: int8(depth),
		Bound: bound,
		PV:    kind != Simple,
	})
	return bestScore
}

func childKind(k NodeKind) NodeKind {
	if k == Simple {
		return Simple
	}
	return Pv
}

// quiescence searches captures and simple promotions only, to avoid
// evaluating tactically unstable leaf positions. It never touches the TT.
func (s *Searcher) quiescence(idepth, qply, alpha, beta int, tag eval.Tag) int {
	n := s.Nodes.Add(1)
	if n&4095 == 0 && s.Comm.Stopped() {
		return 0
	}

	b := s.b
	if b.IsInsufficientMaterial() {
		return 0
	}

	standPat := eval.Evaluate(b, s.PawnCache)
	if idepth >= MaxPly-1 || qply >= maxQuiescencePly {
		return standPat
	}
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	var ml board.MoveList
	gen := board.NewMoveGen(b)
	gen.GenCaptures(&ml)
	sortCaptures(b, &ml)
	var promotes board.MoveList
	gen.GenSimplePromotes(&promotes)
	sortPromotes(&promotes)

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if !b.IsLegal(m) {
			continue
		}
		childTag := tag.Updated(b, m)
		undo := b.MakeMove(m)
		score := -s.quiescence(idepth+1, qply+1, -beta, -alpha, childTag)
		b.UnmakeMove(m, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	for i := 0; i < promotes.Len(); i++ {
		m := promotes.Get(i)
		if !b.IsLegal(m) {
			continue
		}
		childTag := tag.Updated(b, m)
		undo := b.MakeMove(m)
		score := -s.quiescence(idepth+1, qply+1, -beta, -alpha, childTag)
		b.UnmakeMove(m, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
