package dynhash

import (
	"fmt"

	dynerrors "github.com/tamirms/dynhash/errors"
)

// Verify walks every slot and checks the structural invariants: slot counts
// match bucket capacities, each live element sits where the two-level hash
// sends it (so every bucket hash is injective on its elements), the counters
// agree with the slots, count stays within M, and the allocation satisfies
// the global space bound.
//
// Returns an error wrapping dynerrors.ErrCorrupted on the first violation.
func (t *Table) Verify() error {
	live := 0
	allocated := 0
	for j := range t.buckets {
		b := &t.buckets[j]
		if len(b.slots) != spaceFor(b.capacity) {
			return corrupted("bucket %d has %d slots, want %d for capacity %d",
				j, len(b.slots), spaceFor(b.capacity), b.capacity)
		}
		if len(b.slots) > 0 && b.hash.Range != uint64(len(b.slots)) {
			return corrupted("bucket %d hash range %d, want %d", j, b.hash.Range, len(b.slots))
		}
		if b.count > b.capacity {
			return corrupted("bucket %d holds %d elements, capacity %d", j, b.count, b.capacity)
		}

		inBucket := 0
		for i, s := range b.slots {
			v, ok := s.live()
			if !ok {
				continue
			}
			if v > t.universe {
				return corrupted("bucket %d slot %d holds %d outside universe", j, i, v)
			}
			if got := t.top.Hash(v); got != uint64(j) {
				return corrupted("element %d stored in bucket %d, hashes to %d", v, j, got)
			}
			if got := b.hash.Hash(v); got != uint64(i) {
				return corrupted("element %d stored in slot %d of bucket %d, hashes to %d", v, i, j, got)
			}
			inBucket++
		}
		if inBucket != b.count {
			return corrupted("bucket %d counts %d elements, slots hold %d", j, b.count, inBucket)
		}
		live += inBucket
		allocated += len(b.slots)
	}

	if live != t.count {
		return corrupted("count %d, slots hold %d", t.count, live)
	}
	if t.count > t.limit {
		return corrupted("count %d exceeds limit %d", t.count, t.limit)
	}
	if allocated != t.allocated {
		return corrupted("allocated %d, slots total %d", t.allocated, allocated)
	}
	if !withinBound(allocated, len(t.buckets), t.limit) {
		return corrupted("allocated %d exceeds space bound %.1f", allocated, spaceBound(len(t.buckets), t.limit))
	}
	return nil
}

func corrupted(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dynerrors.ErrCorrupted, fmt.Sprintf(format, args...))
}
