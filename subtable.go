package dynhash

import "github.com/tamirms/dynhash/internal/universal"

// subTable is a second-level perfect hash table backing one top-level bucket.
//
// Invariants between operations:
//   - len(slots) == spaceFor(capacity)
//   - count <= capacity
//   - hash.Range == len(slots) and hash is injective on the live elements,
//     each of which sits at slots[hash.Hash(v)]
type subTable struct {
	slots    []slot
	hash     universal.Func
	count    int // live elements (element_count)
	capacity int // max_element_count
}

// spaceFor returns the slot count for a bucket of the given capacity:
// 2·c·(c−1), quadratic so that a random draw is injective on c/2 elements
// with probability at least 3/4.
func spaceFor(capacity int) int {
	if capacity <= 1 {
		return 0
	}
	return 2 * capacity * (capacity - 1)
}

// capacityFor returns the capacity a bucket receives when (re)created holding
// n elements. An empty bucket gets no slots; its first insert grows it.
func capacityFor(n int) int {
	return 2 * n
}

// grownCapacity returns the capacity after a local overflow.
func grownCapacity(capacity int) int {
	return 2 * max(1, capacity)
}

// reset reallocates the bucket for n elements: capacity 2n and
// spaceFor(2n) empty slots. The caller installs a hash function with place.
func (st *subTable) reset(n int) {
	st.capacity = capacityFor(n)
	st.slots = make([]slot, spaceFor(st.capacity))
	st.hash = universal.Func{}
	st.count = 0
}

// find returns the slot index for v and whether it holds v live.
func (st *subTable) find(v uint64) (int, bool) {
	if len(st.slots) == 0 {
		return -1, false
	}
	i := int(st.hash.Hash(v))
	return i, st.slots[i].holds(v)
}

// appendLive appends the bucket's live elements to dst.
func (st *subTable) appendLive(dst []uint64) []uint64 {
	for _, s := range st.slots {
		if v, ok := s.live(); ok {
			dst = append(dst, v)
		}
	}
	return dst
}

// place tombstones every slot, grows the slot array to space if needed,
// switches to hash and writes keys at their new positions. hash must be
// injective on keys.
func (st *subTable) place(hash universal.Func, space int, keys []uint64) {
	for i := range st.slots {
		st.slots[i] = st.slots[i].bury()
	}
	if extra := space - len(st.slots); extra > 0 {
		st.slots = append(st.slots, make([]slot, extra)...)
	}
	st.hash = hash
	for _, v := range keys {
		st.slots[hash.Hash(v)] = liveSlot(v)
	}
	st.count = len(keys)
}
