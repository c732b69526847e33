// Package engine is the job runner: it owns the shared transposition table,
// spawns per-thread searchers, and aggregates their iterative-deepening
// results into one best move per search request.
package engine

import (
	"sync/atomic"
	"time"
)

// JobCommunicator is the cross-worker state an Engine shares with every
// search.Searcher it drives: an atomic stop flag, an atomic "deepest claimed
// depth" counter used so only the first worker to finish a depth reports its
// PV, and the search's start time.
//
// It satisfies search.Communicator without internal/search importing this
// package, which would create a cycle.
type JobCommunicator struct {
	stopFlag     atomic.Bool
	claimedDepth atomic.Int64
	startTime    time.Time
}

// NewJobCommunicator returns a communicator ready for a fresh search.
func NewJobCommunicator() *JobCommunicator {
	c := &JobCommunicator{}
	c.Reset()
	return c
}

// Reset rearms the communicator for a new search.
func (c *JobCommunicator) Reset() {
	c.stopFlag.Store(false)
	c.claimedDepth.Store(-1)
	c.startTime = time.Now()
}

// Stopped reports whether the search has been asked to stop.
func (c *JobCommunicator) Stopped() bool {
	return c.stopFlag.Load()
}

// Stop signals every worker to stop at the next poll point.
func (c *JobCommunicator) Stop() {
	c.stopFlag.Store(true)
}

// ClaimDepth reports true the first time it's called with a given depth
// across every worker racing to finish it, and false to every later caller
// for that same depth (or a shallower one), so exactly one worker reports
// each depth's principal variation.
func (c *JobCommunicator) ClaimDepth(depth int) bool {
	for {
		cur := c.claimedDepth.Load()
		if int64(depth) <= cur {
			return false
		}
		if c.claimedDepth.CompareAndSwap(cur, int64(depth)) {
			return true
		}
	}
}

// Elapsed returns the time since the communicator was last reset.
func (c *JobCommunicator) Elapsed() time.Duration {
	return time.Since(c.startTime)
}
