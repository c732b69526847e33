// Package tt implements the shared transposition table: a fixed-size,
// power-of-two array of lock-free entries accessed concurrently by every
// search worker. Each slot is two atomic 64-bit words following the
// XOR-of-key-and-value trick, so probes and stores never take a lock and a
// torn write is simply detected as a key mismatch on the next probe.
package tt

import (
	"sync"
	"sync/atomic"

	"github.com/alex65536/sofcheck-sub000/internal/board"
)

// Bound records which side of the search window a stored score is exact on.
type Bound uint8

const (
	// Empty marks a slot that has never been written or has been cleared.
	Empty Bound = iota
	Exact
	Lower
	Upper
)

// Data is the payload a caller probes for or stores.
type Data struct {
	Move  board.Move
	Score int16
	Depth int8
	Bound Bound
	PV    bool
}

const entrySize = 16 // bytes per slot: two uint64 atomic words

// slot is one transposition table entry: keyXorValue lets a reader recover
// the candidate key by XORing with value, so the two words never need to be
// read-modified-written together.
type slot struct {
	keyXorValue atomic.Uint64
	value       atomic.Uint64
}

// packMove squeezes a board.Move into 16 bits: 4 bits kind, 6 bits src, 6
// bits dst. The null and invalid moves, whose squares are NoSquare, unpack
// to board.NullMove and board.InvalidMove.
func packMove(m board.Move) uint64 {
	return uint64(m.Kind) | uint64(m.Src)<<4 | uint64(m.Dst)<<10
}

func unpackMove(v uint64) board.Move {
	switch board.Kind(v & 0xF) {
	case board.Null:
		return board.NullMove
	case board.Invalid:
		return board.InvalidMove
	}
	return board.Move{
		Kind: board.Kind(v & 0xF),
		Src:  board.Square((v >> 4) & 0x3F),
		Dst:  board.Square((v >> 10) & 0x3F),
	}
}

// value word layout (low to high bit):
//
//	0-15   move
//	16-31  score (int16 bit pattern)
//	32-39  depth (int8 bit pattern)
//	40-41  bound
//	42     pv flag
//	43-62  epoch (20 bits)
//	63     valid flag
const (
	epochBits = 20
	epochMask = 1<<epochBits - 1
	epochShift = 43
)

func packValue(d Data, epoch uint32) uint64 {
	v := packMove(d.Move)
	v |= uint64(uint16(d.Score)) << 16
	v |= uint64(uint8(d.Depth)) << 32
	v |= uint64(d.Bound) << 40
	if d.PV {
		v |= 1 << 42
	}
	v |= uint64(epoch&epochMask) << epochShift
	v |= 1 << 63
	return v
}

func unpackValue(v uint64) (Data, uint32, bool) {
	valid := v&(1<<63) != 0
	d := Data{
		Move:  unpackMove(v),
		Score: int16(uint16(v >> 16)),
		Depth: int8(uint8(v >> 32)),
		Bound: Bound((v >> 40) & 0x3),
		PV:    v&(1<<42) != 0,
	}
	epoch := uint32((v >> epochShift) & epochMask)
	return d, epoch, valid
}

// weight ranks an entry's desirability under the store replacement policy.
// An entry from a stale epoch is always the lowest priority, regardless of
// its depth, so that it is preferred for eviction over anything from the
// current search generation.
func weight(d Data, epoch, currentEpoch uint32) int {
	if epoch != currentEpoch {
		return -1
	}
	w := int(d.Depth) * 4
	if d.Bound == Exact {
		w += 2
	}
	if d.PV {
		w++
	}
	if !d.Move.IsInvalid() {
		w++
	}
	return w
}

// Table is the shared, lock-free transposition table.
type Table struct {
	slots []slot
	mask  uint64
	epoch atomic.Uint32

	// cfgMu serializes Resize and Clear, which the job runner defers until
	// every worker has joined; it is never taken on the probe/store hot
	// path, nor by the epoch methods.
	cfgMu sync.Mutex
}

// New builds a table sized to approximately bytes, rounded down to a power
// of two number of entries.
func New(bytes int) *Table {
	t := &Table{}
	t.resizeLocked(bytes)
	return t
}

func roundDownPow2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (t *Table) resizeLocked(bytes int) {
	numEntries := roundDownPow2(uint64(bytes) / entrySize)
	if numEntries == 0 {
		numEntries = 1
	}
	t.slots = make([]slot, numEntries)
	t.mask = numEntries - 1
}

// Resize grows or shrinks the table to approximately bytes. threads is
// accepted for symmetry with the clear-parallelism knob but resizing always
// discards prior content (rehashing old content in place is not attempted).
// Not safe to call while any worker may be probing or storing.
func (t *Table) Resize(bytes int, threads int) {
	t.cfgMu.Lock()
	defer t.cfgMu.Unlock()
	t.resizeLocked(bytes)
	t.epoch.Store(0)
}

// SizeBytes returns the table's current footprint in bytes.
func (t *Table) SizeBytes() int {
	return len(t.slots) * entrySize
}

func index(key, mask uint64) uint64 {
	return key & mask
}

// Probe returns the stored data for key, and whether a valid, matching
// entry was found. A key mismatch (including a torn read) is reported as a
// miss, never as corrupt data.
func (t *Table) Probe(key uint64) (Data, bool) {
	idx := index(key, t.mask)
	s := &t.slots[idx]
	kv := s.keyXorValue.Load()
	v := s.value.Load()
	if kv^v != key {
		return Data{}, false
	}
	d, _, valid := unpackValue(v)
	if !valid {
		return Data{}, false
	}
	return d, true
}

// Prefetch hints that key's slot will be probed soon. Go has no portable
// cache-prefetch intrinsic; touching the slot's first word is the closest
// approximation and costs one extra atomic load on the probe path.
func (t *Table) Prefetch(key uint64) {
	idx := index(key, t.mask)
	_ = t.slots[idx].keyXorValue.Load()
}

// Store writes data under key, replacing the existing slot unless whatever
// is there outranks data under the replacement weight function (equal
// weight replaces).
func (t *Table) Store(key uint64, d Data) {
	idx := index(key, t.mask)
	s := &t.slots[idx]
	epoch := t.epoch.Load()

	existingV := s.value.Load()
	existingD, existingEpoch, existingValid := unpackValue(existingV)
	if existingValid {
		if weight(d, epoch, epoch) < weight(existingD, existingEpoch, epoch) {
			return
		}
	}

	v := packValue(d, epoch)
	s.value.Store(v)
	s.keyXorValue.Store(key ^ v)
}

// Refresh, when key's entry is from an older epoch, stores d under key with
// the current epoch (a stale entry always loses to Store), keeping hot
// principal-variation entries from aging out under the replacement policy.
// A missing entry, or one already from the current epoch, is left alone.
func (t *Table) Refresh(key uint64, d Data) {
	idx := index(key, t.mask)
	s := &t.slots[idx]
	kv := s.keyXorValue.Load()
	v := s.value.Load()
	if kv^v != key {
		return
	}
	_, epoch, valid := unpackValue(v)
	if !valid || epoch == t.epoch.Load() {
		return
	}
	t.Store(key, d)
}

// NextEpoch advances the generation counter the replacement policy uses.
func (t *Table) NextEpoch() {
	t.epoch.Add(1)
}

// GrowEpoch advances the generation counter by delta, clamped to at least
// one step so the caller never accidentally leaves the epoch unchanged.
func (t *Table) GrowEpoch(delta int) {
	if delta < 1 {
		delta = 1
	}
	t.epoch.Add(uint32(delta))
}

// ResetEpoch resets the generation counter to zero, e.g. on ucinewgame.
func (t *Table) ResetEpoch() {
	t.epoch.Store(0)
}

// Clear zero-fills every slot in parallel across threads goroutines.
func (t *Table) Clear(threads int) {
	t.cfgMu.Lock()
	defer t.cfgMu.Unlock()

	if threads < 1 {
		threads = 1
	}
	n := len(t.slots)
	if n == 0 {
		return
	}
	if threads > n {
		threads = n
	}

	chunk := (n + threads - 1) / threads
	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				t.slots[i].keyXorValue.Store(0)
				t.slots[i].value.Store(0)
			}
		}(lo, hi)
	}
	wg.Wait()
	t.epoch.Store(0)
}

// HashFull estimates the permille of the table in use by the current
// search generation, sampling the first 1000 slots.
func (t *Table) HashFull() int {
	n := len(t.slots)
	sample := 1000
	if sample > n {
		sample = n
	}
	if sample == 0 {
		return 0
	}
	epoch := t.epoch.Load()
	used := 0
	for i := 0; i < sample; i++ {
		v := t.slots[i].value.Load()
		_, e, valid := unpackValue(v)
		if valid && e == epoch {
			used++
		}
	}
	return used * 1000 / sample
}

const (
	// MateScore is the score magnitude assigned to an immediate checkmate;
	// stored scores closer to it than MaxPly are distance-to-mate values
	// and need ply adjustment on store/probe.
	MateScore = 32000
	// MaxPly bounds how deep a mate-distance adjustment can reach.
	MaxPly = 256
)

// ScoreToTT rewrites a search-relative mate score into a position-relative
// one for storage, adding ply so that the same mate found at different
// plies from the root hashes the same stored value.
func ScoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

// ScoreFromTT reverses ScoreToTT when reading a stored score back at ply.
func ScoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}
