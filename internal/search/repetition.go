package search

// bucketSize is the number of hashes each open-addressed slot can hold
// before RepetitionTable doubles its backing array.
const bucketSize = 4

// RepetitionTable tracks the Zobrist hashes seen along the current search
// path (seeded with the game's position-setup history) so a search node can
// detect that it revisits a prior position. Zero is used as the empty
// sentinel; a real Zobrist hash of exactly zero is astronomically unlikely
// and not worth guarding against.
type RepetitionTable struct {
	slots [][bucketSize]uint64
}

// NewRepetitionTable returns an empty table.
func NewRepetitionTable() *RepetitionTable {
	return &RepetitionTable{slots: make([][bucketSize]uint64, 16)}
}

func (r *RepetitionTable) mask() uint64 {
	return uint64(len(r.slots)) - 1
}

func (r *RepetitionTable) index(h uint64) uint64 {
	return h & r.mask()
}

// Contains reports whether h is currently recorded.
func (r *RepetitionTable) Contains(h uint64) bool {
	b := &r.slots[r.index(h)]
	for _, v := range b {
		if v == h {
			return true
		}
	}
	return false
}

// Insert records h and reports true, unless h is already present, in which
// case it reports false and leaves the table unchanged — the caller's
// signal that the current search path has looped back on itself.
func (r *RepetitionTable) Insert(h uint64) bool {
	if r.Contains(h) {
		return false
	}
	r.insertNew(h)
	return true
}

// insertNew adds h, which the caller has already confirmed is absent,
// growing the table if its bucket is full.
func (r *RepetitionTable) insertNew(h uint64) {
	b := &r.slots[r.index(h)]
	for i := range b {
		if b[i] == 0 {
			b[i] = h
			return
		}
	}
	r.grow()
	r.insertNew(h)
}

func (r *RepetitionTable) grow() {
	old := r.slots
	r.slots = make([][bucketSize]uint64, len(old)*2)
	for _, b := range old {
		for _, h := range b {
			if h != 0 {
				r.insertNew(h)
			}
		}
	}
}

// Remove erases h, the counterpart to Insert called on every exit path from
// the search node that inserted it.
func (r *RepetitionTable) Remove(h uint64) {
	b := &r.slots[r.index(h)]
	for i := range b {
		if b[i] == h {
			b[i] = 0
			return
		}
	}
}

// Seed inserts every hash from a position's setup history, e.g. the moves
// played before the search root, so in-path repetition can be detected
// against positions outside the search tree itself.
func (r *RepetitionTable) Seed(hashes []uint64) {
	for _, h := range hashes {
		r.Insert(h)
	}
}
