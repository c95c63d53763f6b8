package dynhash

// slot is one cell of a sub-table, packed into a single word:
//
//	0                   empty, never written
//	v+1                 live element v
//	tombstoneBit | v+1  deleted; v is stale
//
// Keys are at most MaxInt64-1, so v+1 never reaches the tombstone bit.
type slot uint64

const tombstoneBit = slot(1) << 63

func liveSlot(v uint64) slot {
	return slot(v + 1)
}

// live returns the element held by s, if s is live.
func (s slot) live() (uint64, bool) {
	if s == 0 || s&tombstoneBit != 0 {
		return 0, false
	}
	return uint64(s) - 1, true
}

// holds reports whether s is live and holds v.
func (s slot) holds(v uint64) bool {
	return s == liveSlot(v)
}

// free reports whether s may be overwritten (empty or tombstoned).
func (s slot) free() bool {
	return s == 0 || s&tombstoneBit != 0
}

// bury tombstones s, keeping the stale value. Empty slots stay empty.
func (s slot) bury() slot {
	if s == 0 {
		return 0
	}
	return s | tombstoneBit
}
