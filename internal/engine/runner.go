package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/alex65536/sofcheck-sub000/internal/board"
	"github.com/alex65536/sofcheck-sub000/internal/eval"
	"github.com/alex65536/sofcheck-sub000/internal/search"
	"github.com/alex65536/sofcheck-sub000/internal/tt"
)

const (
	DefaultHashMiB = 32
	MinHashMiB     = 1
	MaxHashMiB     = 131072

	DefaultJobs = 1
	MaxJobs     = 512

	statusInterval = 3 * time.Second
)

// SearchInfo is one progress update reported during a search: either a
// completed-depth PV report or a periodic node-count/hashfull report.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int
}

// Result is the best move across every job once join() returns.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	Nodes uint64
	PV    []board.Move
}

// Engine is the job runner (C7): it owns the shared transposition table, a
// JobCommunicator, and one search.Searcher per worker, and drives them
// through a single start/join search cycle. TT resize, clear, and
// new-game reset are deferred while a search is in flight and applied the
// moment join() observes every worker has finished.
type Engine struct {
	log logr.Logger

	mu      sync.Mutex
	tt      *tt.Table
	hashMiB int
	jobs    int
	debug   bool

	searching bool
	pending   pendingConfig

	workers    []*search.Searcher
	lastHashes []uint64 // setup hashes of the previous search, for epoch diffing

	comm *JobCommunicator

	OnInfo func(SearchInfo)

	wg      sync.WaitGroup
	resMu   sync.Mutex
	results []search.Result
}

type pendingConfig struct {
	clearHash bool
	newGame   bool
	hashMiB   int // 0 = no pending resize
}

// NewEngine builds an idle engine with the default hash size and job count.
// A nil logger falls back to logr.Discard().
func NewEngine(log logr.Logger) *Engine {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	e := &Engine{
		log:     log,
		tt:      tt.New(DefaultHashMiB << 20),
		hashMiB: DefaultHashMiB,
		jobs:    DefaultJobs,
		comm:    NewJobCommunicator(),
	}
	return e
}

// SetHashSize sets the transposition table size in mebibytes, clamped to
// [MinHashMiB, MaxHashMiB]. Deferred until the current search (if any)
// joins.
func (e *Engine) SetHashSize(mib int) {
	if mib < MinHashMiB {
		mib = MinHashMiB
	}
	if mib > MaxHashMiB {
		mib = MaxHashMiB
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hashMiB = mib
	if e.searching {
		e.pending.hashMiB = mib
		return
	}
	e.tt.Resize(mib<<20, e.jobs)
}

// ClearHash empties the transposition table. Deferred until join().
func (e *Engine) ClearHash() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.searching {
		e.pending.clearHash = true
		return
	}
	e.tt.Clear(e.jobs)
}

// NewGame resets TT epoch and forgets the previous position, so the next
// search never benefits from unrelated stale entries. Deferred until
// join().
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.searching {
		e.pending.newGame = true
		return
	}
	e.tt.ResetEpoch()
	e.lastHashes = nil
}

// SetNumJobs sets the worker count used by the next start(), clamped to
// [1, MaxJobs].
func (e *Engine) SetNumJobs(n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxJobs {
		n = MaxJobs
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = n
}

// SetDebugMode toggles the periodic progress report.
func (e *Engine) SetDebugMode(flag bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.debug = flag
}

// HashMiB reports the configured hash size.
func (e *Engine) HashMiB() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hashMiB
}

// Jobs reports the configured worker count.
func (e *Engine) Jobs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.jobs
}

func (e *Engine) ensureWorkersLocked(n int) {
	if len(e.workers) == n {
		return
	}
	e.workers = make([]*search.Searcher, n)
	for i := range e.workers {
		e.workers[i] = search.NewSearcher(e.comm, e.tt, eval.NewPawnCache())
	}
}

// applyPositionDiffLocked increments the TT epoch by the edit distance in
// moves between the previous search's setup history and this one's shared
// prefix, so unrelated positions don't keep stale entries alive forever
// while related ones (e.g. the next move in the same game) do.
func (e *Engine) applyPositionDiffLocked(setupHashes []uint64) {
	prefix := 0
	for prefix < len(e.lastHashes) && prefix < len(setupHashes) && e.lastHashes[prefix] == setupHashes[prefix] {
		prefix++
	}
	distance := (len(e.lastHashes) - prefix) + (len(setupHashes) - prefix)
	const maxTrackedDistance = 40
	if distance > maxTrackedDistance || len(e.lastHashes) == 0 {
		e.tt.ResetEpoch()
	} else if distance > 0 {
		e.tt.GrowEpoch(distance)
	}
	e.lastHashes = append([]uint64(nil), setupHashes...)
}

// Start begins a search over pos. setupHashes is the position's setup
// history (including pos's own hash last), used both to seed repetition
// detection and for TT-epoch diffing against the previous search. Start
// returns immediately; call Join to wait for the result.
func (e *Engine) Start(pos *board.Board, setupHashes []uint64, limits Limits) {
	e.mu.Lock()
	if e.searching {
		e.mu.Unlock()
		return
	}
	e.searching = true
	jobs := e.jobs
	e.applyPositionDiffLocked(setupHashes)
	e.ensureWorkersLocked(jobs)
	workers := e.workers
	tbl := e.tt
	e.mu.Unlock()

	e.comm.Reset()
	start := time.Now()
	ply := len(setupHashes)
	tm := newTimeManager(start, limits, pos.SideToMove, ply)

	maxDepth := search.MaxPly - 1
	if limits.Depth > 0 && limits.Depth < maxDepth {
		maxDepth = limits.Depth
	}

	e.resMu.Lock()
	e.results = make([]search.Result, jobs)
	for i := range e.results {
		e.results[i].Move = board.InvalidMove
	}
	e.resMu.Unlock()

	for i, w := range workers {
		w.Reset()
		idx := i
		worker := w
		worker.OnDepth = func(r search.Result) {
			e.resMu.Lock()
			e.results[idx] = r
			e.resMu.Unlock()
			if e.OnInfo != nil {
				e.OnInfo(SearchInfo{
					Depth:    r.Depth,
					Score:    r.Score,
					Nodes:    e.totalNodes(),
					Time:     time.Since(start),
					PV:       r.PV,
					HashFull: tbl.HashFull(),
				})
			}
		}
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.runWorkers(pos, setupHashes, maxDepth, jobs)
	}()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.monitor(tm, limits, start)
	}()
}

func (e *Engine) runWorkers(pos *board.Board, setupHashes []uint64, maxDepth, jobs int) {
	var group errgroup.Group
	e.mu.Lock()
	workers := e.workers
	e.mu.Unlock()

	for i, w := range workers {
		idx := i
		worker := w
		group.Go(func() error {
			b := pos.Copy()
			rep := search.NewRepetitionTable()
			// setupHashes's last element is pos's own hash; search() inserts
			// the root position itself, so seeding it here too would make
			// the very first Insert at the root report a repetition.
			if n := len(setupHashes); n > 0 {
				rep.Seed(setupHashes[:n-1])
			}
			worker.IterativeDeepen(b, rep, maxDepth, idx, jobs)
			return nil
		})
	}
	_ = group.Wait()
	e.comm.Stop()
}

// monitor wakes roughly every 30ms (sooner near the deadline), signals stop
// on a time or node overrun, and emits a periodic progress report every
// ~3s while debug mode is on.
func (e *Engine) monitor(tm timeManager, limits Limits, start time.Time) {
	lastStatus := start
	for {
		now := time.Now()
		if e.comm.Stopped() {
			break
		}
		if tm.pastMaximum(now) {
			e.comm.Stop()
			break
		}
		if limits.Nodes > 0 && e.totalNodes() >= limits.Nodes {
			e.comm.Stop()
			break
		}
		if now.Sub(lastStatus) >= statusInterval {
			e.reportStatus(now.Sub(start))
			lastStatus = now
		}
		interval := tm.wakeupInterval(now)
		if interval <= 0 {
			e.comm.Stop()
			break
		}
		time.Sleep(interval)
	}
}

func (e *Engine) reportStatus(elapsed time.Duration) {
	e.mu.Lock()
	debug := e.debug
	e.mu.Unlock()
	if !debug {
		return
	}
	nodes := e.totalNodes()
	e.log.Info("search progress",
		"nodes", humanize.Comma(int64(nodes)),
		"elapsed", elapsed,
		"hashfull", e.tt.HashFull(),
		"hashSize", humanize.IBytes(uint64(e.tt.SizeBytes())),
	)
}

func (e *Engine) totalNodes() uint64 {
	e.mu.Lock()
	workers := e.workers
	e.mu.Unlock()
	var total uint64
	for _, w := range workers {
		total += w.Nodes.Load()
	}
	return total
}

// Stop signals the running search to stop at the next poll point. It does
// not block; call Join to wait for the result.
func (e *Engine) Stop() {
	e.comm.Stop()
}

// Join blocks until the in-flight search (if any) finishes, then returns
// the deepest result across every worker, applies any deferred
// configuration change, and marks the engine idle again. If no job reached
// any depth, it falls back to a random legal move.
func (e *Engine) Join(fallback *board.Board) Result {
	e.wg.Wait()

	e.resMu.Lock()
	results := e.results
	e.resMu.Unlock()

	best := pickDeepest(results)
	if best.Move.IsInvalid() && fallback != nil {
		best = randomLegalResult(fallback)
	}

	e.mu.Lock()
	e.searching = false
	if e.pending.hashMiB != 0 {
		e.tt.Resize(e.pending.hashMiB<<20, e.jobs)
		e.pending.hashMiB = 0
	}
	if e.pending.clearHash {
		e.tt.Clear(e.jobs)
		e.pending.clearHash = false
	}
	if e.pending.newGame {
		e.tt.ResetEpoch()
		e.lastHashes = nil
		e.pending.newGame = false
	}
	e.mu.Unlock()

	return best
}

func pickDeepest(results []search.Result) Result {
	best := Result{Move: board.InvalidMove}
	for _, r := range results {
		if r.Move.IsInvalid() {
			continue
		}
		if r.Depth > best.Depth || (r.Depth == best.Depth && r.Score > best.Score) {
			best = Result{Move: r.Move, Score: r.Score, Depth: r.Depth, Nodes: r.Nodes, PV: r.PV}
		}
	}
	return best
}

func randomLegalResult(pos *board.Board) Result {
	moves := pos.LegalMoves()
	if moves.Len() == 0 {
		return Result{Move: board.NullMove}
	}
	m := moves.Get(rand.Intn(moves.Len()))
	return Result{Move: m}
}
