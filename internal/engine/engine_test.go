package engine

import (
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/alex65536/sofcheck-sub000/internal/board"
)

func TestEngineFindsMateInOne(t *testing.T) {
	pos, err := board.FromFEN("4k3/8/4K3/8/8/8/8/7R w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	e := NewEngine(logr.Discard())
	e.Start(pos, []uint64{pos.Hash}, Limits{Depth: 3})
	result := e.Join(pos)

	if result.Move.String() != "h1h8" {
		t.Fatalf("best move = %s, want h1h8", result.Move.String())
	}
}

func TestEngineRespectsMoveTime(t *testing.T) {
	pos := board.NewBoard()
	e := NewEngine(logr.Discard())
	e.SetNumJobs(2)

	start := time.Now()
	e.Start(pos, []uint64{pos.Hash}, Limits{MoveTime: 80 * time.Millisecond})
	result := e.Join(pos)
	elapsed := time.Since(start)

	if result.Move.IsInvalid() {
		t.Fatalf("no move returned from start position")
	}
	if elapsed > 2*time.Second {
		t.Fatalf("search ran for %v, want roughly bounded by MoveTime", elapsed)
	}
}

func TestSetHashSizeDeferredWhileSearching(t *testing.T) {
	pos := board.NewBoard()
	e := NewEngine(logr.Discard())

	e.Start(pos, []uint64{pos.Hash}, Limits{MoveTime: 40 * time.Millisecond})
	e.SetHashSize(64)
	if e.pending.hashMiB != 64 {
		t.Fatalf("hash resize should be deferred while searching")
	}
	e.Join(pos)
	if e.pending.hashMiB != 0 {
		t.Fatalf("deferred hash resize should be applied by Join")
	}
	if e.HashMiB() != 64 {
		t.Fatalf("HashMiB() = %d, want 64", e.HashMiB())
	}
}

func TestStopEndsSearchEarly(t *testing.T) {
	pos := board.NewBoard()
	e := NewEngine(logr.Discard())

	e.Start(pos, []uint64{pos.Hash}, Limits{Infinite: true})
	time.Sleep(20 * time.Millisecond)
	e.Stop()

	done := make(chan struct{})
	go func() {
		e.Join(pos)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Join did not return after Stop")
	}
}
