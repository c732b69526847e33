package engine

import (
	"time"

	"github.com/alex65536/sofcheck-sub000/internal/board"
)

// Limits bundles every way a UCI "go" command can bound a search: time
// control, a hard move time, a depth cap, and a node cap. Depth, Nodes,
// MoveTime, and Infinite are mutually exclusive modes; the zero value with
// none of them set falls back to the time-control fields.
type Limits struct {
	Time      [2]time.Duration // index by board.Color: remaining time
	Inc       [2]time.Duration // increment per move
	MovesToGo int              // moves until the next time control, 0 = sudden death
	MoveTime  time.Duration    // fixed time for this move
	Depth     int              // maximum depth, 0 = unbounded
	Nodes     uint64           // node budget, 0 = unbounded
	Infinite  bool             // search until stopped
}

// timeManager turns a Limits' time control into an optimum and a maximum
// duration for one move: the optimum is what iterative deepening is expected
// to use, the maximum is the hard cutoff the communicator enforces.
type timeManager struct {
	optimum time.Time
	maximum time.Time
}

// newTimeManager computes optimum/maximum deadlines from start for us to
// move, given limits. ply is the game's current half-move count, used only
// to widen the allocation slightly in the opening.
func newTimeManager(start time.Time, limits Limits, us board.Color, ply int) timeManager {
	if limits.MoveTime > 0 {
		return timeManager{optimum: start.Add(limits.MoveTime), maximum: start.Add(limits.MoveTime)}
	}
	if limits.Time[us] == 0 {
		return timeManager{optimum: start.Add(24 * time.Hour), maximum: start.Add(24 * time.Hour)}
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50
	}
	if mtg > 50 {
		mtg = 50
	}

	optimum := timeLeft / time.Duration(mtg)
	if ply < 16 {
		// Opening moves get roughly double the per-move share, since the
		// early game rarely needs the full allocation.
		optimum *= 2
	}
	optimum += inc

	hardMargin := 50 * time.Millisecond
	softMargin := 20 * time.Millisecond

	maximum := optimum * 5
	if cap := timeLeft - hardMargin; maximum > cap {
		maximum = cap
	}
	if optimum > maximum {
		optimum = maximum
	}
	if safe := timeLeft - softMargin; optimum > safe {
		optimum = safe
	}
	if optimum < 0 {
		optimum = 0
	}
	if maximum < optimum {
		maximum = optimum
	}

	return timeManager{optimum: start.Add(optimum), maximum: start.Add(maximum)}
}

func (tm timeManager) pastOptimum(now time.Time) bool {
	return !now.Before(tm.optimum)
}

func (tm timeManager) pastMaximum(now time.Time) bool {
	return !now.Before(tm.maximum)
}

func (tm timeManager) wakeupInterval(now time.Time) time.Duration {
	const pollInterval = 30 * time.Millisecond
	left := tm.maximum.Sub(now)
	if left <= 0 {
		return 0
	}
	if left+100*time.Microsecond < pollInterval {
		return left + 100*time.Microsecond
	}
	return pollInterval
}
