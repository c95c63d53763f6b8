package dynhash

import (
	"fmt"
	"math"
	"math/rand/v2"

	dynerrors "github.com/tamirms/dynhash/errors"
	"github.com/tamirms/dynhash/internal/prime"
	"github.com/tamirms/dynhash/internal/universal"
)

const (
	// slack is c in the rebuild threshold M = ⌈(1+c)·max(count, 4)⌉.
	slack = 0.5

	// minLimitCount is the floor applied to count when computing M, so a
	// small table still has room to grow between rebuilds.
	minLimitCount = 4

	// maxUniverse keeps v+1 clear of the slot tombstone bit.
	maxUniverse = math.MaxInt64 - 1

	// pcgStream decorrelates the two PCG words derived from a single seed.
	pcgStream = 0x9E3779B97F4A7C15
)

// Table is a dynamic perfect hash set over the integers [0, universe].
//
// Elements are spread over s top-level buckets by a universal hash function;
// each bucket is a sub-table whose own hash function is injective on the
// bucket's elements, so Locate inspects exactly one slot. Inserts that
// collide inside a bucket re-seat or grow that bucket; when the table
// outgrows its threshold M, or a bucket cannot grow without breaking the
// global space bound, every element is redistributed by a full rebuild.
//
// Thread Safety: a Table is not safe for concurrent use. Callers sharing one
// across goroutines must guard the whole Table with a single lock; per-bucket
// locking is unsound because a rebuild moves elements between buckets.
type Table struct {
	universe uint64
	prime    uint64

	count     int // live elements
	limit     int // M: count must not exceed it
	allocated int // total slots across buckets

	top     universal.Func
	buckets []subTable

	search  *universal.Searcher
	cfg     *config
	scratch []uint64 // reused element buffer for rebuilds and reseats

	rebuilds uint64
	reseats  uint64
	growths  uint64
}

// New creates an empty Table for keys in [0, universe].
//
// The prime modulus is chosen once here and kept for the Table's lifetime.
// Selecting it trial-divides by primes up to √universe for universes up to
// 2^40 and runs a Baillie-PSW test per candidate above that, so every
// admissible universe up to math.MaxInt64-1 is cheap to set up.
func New(universe int64, opts ...Option) (*Table, error) {
	if universe < 0 || universe > maxUniverse {
		return nil, fmt.Errorf("%w: got %d", dynerrors.ErrInvalidUniverse, universe)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var src *rand.PCG
	if cfg.seeded {
		src = rand.NewPCG(cfg.seed, cfg.seed^pcgStream)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	t := &Table{
		universe: uint64(universe),
		prime:    prime.Above(uint64(universe)),
		search:   universal.NewSearcher(rand.New(src), cfg.maxAttempts),
		cfg:      cfg,
	}
	// Lay out the empty structure: M = 6, one bucket with no slots.
	if err := t.rehashAll(0, false); err != nil {
		return nil, err
	}
	return t, nil
}

// Universe returns the largest admissible key.
func (t *Table) Universe() int64 {
	return int64(t.universe)
}

// Len returns the number of live elements.
func (t *Table) Len() int {
	return t.count
}

// Insert adds x to the set. Inserting an element already present is a no-op.
// Returns dynerrors.ErrOutOfUniverse if x is outside [0, universe], and
// dynerrors.ErrRebuildFailed if a hash function search hits its attempt
// cap; in both cases the Table is unchanged.
func (t *Table) Insert(x int64) error {
	key, err := t.key(x)
	if err != nil {
		return err
	}

	j := t.top.Hash(key)
	b := &t.buckets[j]
	i, ok := b.find(key)
	if ok {
		return nil
	}

	if t.count+1 > t.limit {
		return t.rehashAll(key, true)
	}
	if b.count+1 > b.capacity {
		return t.grow(j, key)
	}
	if b.slots[i].free() {
		b.slots[i] = liveSlot(key)
		b.count++
		t.count++
		return nil
	}
	// Occupied by a different element: the bucket hash is no longer injective.
	return t.reseat(j, key)
}

// Delete removes x from the set. Returns dynerrors.ErrNotFound if x is not
// present (including a second delete of the same element), and
// dynerrors.ErrOutOfUniverse if x is outside [0, universe]; in both cases the
// Table is unchanged. A rebuild triggered by the delete policy that fails its
// hash search is logged and skipped: x is still removed and the next delete
// retries the rebuild.
func (t *Table) Delete(x int64) error {
	key, err := t.key(x)
	if err != nil {
		return err
	}

	b := &t.buckets[t.top.Hash(key)]
	i, ok := b.find(key)
	if !ok {
		return fmt.Errorf("%w: %d", dynerrors.ErrNotFound, x)
	}

	b.slots[i] = b.slots[i].bury()
	b.count--
	t.count--

	if t.rebuildAfterDelete() {
		// rehashAll leaves the table as it was on failure, and that layout is
		// valid without x.
		if err := t.rehashAll(0, false); err != nil {
			t.cfg.logger.Debug("rebuild after delete failed",
				"elements", t.count, "limit", t.limit, "error", err)
		}
	}
	return nil
}

// Locate reports whether x is in the set. It inspects exactly one slot.
// Returns dynerrors.ErrOutOfUniverse if x is outside [0, universe].
func (t *Table) Locate(x int64) (bool, error) {
	key, err := t.key(x)
	if err != nil {
		return false, err
	}
	_, ok := t.buckets[t.top.Hash(key)].find(key)
	return ok, nil
}

func (t *Table) key(x int64) (uint64, error) {
	if x < 0 || uint64(x) > t.universe {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", dynerrors.ErrOutOfUniverse, x, t.universe)
	}
	return uint64(x), nil
}

func (t *Table) rebuildAfterDelete() bool {
	switch t.cfg.deletePolicy {
	case RebuildOnShrink:
		return t.limit > limitFor(0) && 4*t.count < t.limit
	default:
		return t.count >= t.limit
	}
}

// limitFor returns M for a table holding n elements.
func limitFor(n int) int {
	return int(math.Ceil((1 + slack) * float64(max(n, minLimitCount))))
}

// bucketsFor returns the top-level bucket count for n elements.
func bucketsFor(n int) int {
	return max(1, 2*(n-1))
}

// withinBound reports whether total allocated slots satisfy the global space
// condition Σ space ≤ 32·M² / (s + 4M) for s buckets and threshold M.
func withinBound(total, s, limit int) bool {
	return float64(total) <= spaceBound(s, limit)
}

func spaceBound(s, limit int) float64 {
	m := float64(limit)
	return 32 * m * m / (float64(s) + 4*m)
}

// grow doubles bucket j's capacity and inserts key into it. If the larger
// bucket would break the global space bound, the whole table is rebuilt
// instead.
func (t *Table) grow(j, key uint64) error {
	b := &t.buckets[j]
	capacity := grownCapacity(b.capacity)
	space := spaceFor(capacity)
	total := t.allocated - len(b.slots) + space

	if !withinBound(total, len(t.buckets), t.limit) {
		t.cfg.logger.Debug("bucket grow exceeds space bound",
			"bucket", j, "capacity", capacity, "allocated", total,
			"bound", spaceBound(len(t.buckets), t.limit))
		return t.rehashAll(key, true)
	}

	attempts, err := t.rebuildBucket(j, key, space)
	if err != nil {
		return err
	}
	b.capacity = capacity
	t.allocated = total
	t.growths++
	t.cfg.logger.Debug("bucket grow",
		"bucket", j, "capacity", capacity, "slots", space, "attempts", attempts)
	return nil
}

// reseat inserts key into bucket j at its current size by drawing a new
// hash function injective on the bucket's elements plus key.
func (t *Table) reseat(j, key uint64) error {
	attempts, err := t.rebuildBucket(j, key, len(t.buckets[j].slots))
	if err != nil {
		return err
	}
	t.reseats++
	t.cfg.logger.Debug("bucket reseat",
		"bucket", j, "elements", t.buckets[j].count, "attempts", attempts)
	return nil
}

// rebuildBucket re-places bucket j's live elements plus key under a fresh
// hash function over space slots. Nothing is modified unless the search
// succeeds.
func (t *Table) rebuildBucket(j, key uint64, space int) (int, error) {
	b := &t.buckets[j]
	keys := append(b.appendLive(t.scratch[:0]), key)
	t.scratch = keys

	hash, attempts, err := t.search.FindInjective(keys, t.prime, uint64(space))
	if err != nil {
		return attempts, fmt.Errorf("rebuild bucket %d with %d elements: %w", j, len(keys), err)
	}
	b.place(hash, space, keys)
	t.count++
	return attempts, nil
}

// rehashAll rebuilds the table from scratch around its live elements plus
// pending (when hasPending), choosing a new threshold M, a new top-level
// partition satisfying the space bound, and a perfect hash per bucket.
// On error the table is left as it was.
func (t *Table) rehashAll(pending uint64, hasPending bool) error {
	keys := t.scratch[:0]
	for i := range t.buckets {
		keys = t.buckets[i].appendLive(keys)
	}
	if hasPending {
		keys = append(keys, pending)
	}
	t.scratch = keys

	n := len(keys)
	limit := limitFor(n)
	s := bucketsFor(n)

	// Partition search: accept the first top-level draw whose bucket sizes
	// fit the space bound.
	sizes := make([]int, s)
	var total int
	top, attempts, err := t.search.Search(t.prime, uint64(s), func(f universal.Func) bool {
		clear(sizes)
		for _, k := range keys {
			sizes[f.Hash(k)]++
		}
		total = 0
		for _, c := range sizes {
			total += spaceFor(capacityFor(c))
		}
		return withinBound(total, s, limit)
	})
	if err != nil {
		return fmt.Errorf("rebuild with %d elements: %w", n, err)
	}

	// Group keys by bucket with a counting sort over the accepted sizes.
	start := make([]int, s+1)
	for j, c := range sizes {
		start[j+1] = start[j] + c
	}
	cursor := sizes
	copy(cursor, start[:s])
	grouped := make([]uint64, n)
	for _, k := range keys {
		j := top.Hash(k)
		grouped[cursor[j]] = k
		cursor[j]++
	}

	buckets := make([]subTable, s)
	for j := range buckets {
		members := grouped[start[j]:start[j+1]]
		b := &buckets[j]
		b.reset(len(members))
		if len(members) == 0 {
			continue
		}
		hash, _, err := t.search.FindInjective(members, t.prime, uint64(len(b.slots)))
		if err != nil {
			return fmt.Errorf("rebuild bucket %d of %d: %w", j, s, err)
		}
		b.place(hash, len(b.slots), members)
	}

	t.top = top
	t.buckets = buckets
	t.count = n
	t.limit = limit
	t.allocated = total
	t.rebuilds++
	t.cfg.logger.Debug("rebuild",
		"elements", n, "buckets", s, "limit", limit,
		"allocated", total, "attempts", attempts)
	return nil
}
