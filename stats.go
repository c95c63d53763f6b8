package dynhash

import (
	"encoding/binary"
	"iter"

	"github.com/cespare/xxhash/v2"
)

// Stats holds table statistics.
type Stats struct {
	Elements       int     // live elements
	Limit          int     // rebuild threshold M
	Buckets        int     // top-level buckets s
	// EmptyBuckets counts buckets with no slots. A rebuild allocates nothing
	// for a bucket that receives no elements; its first insert grows it to
	// capacity 2 and 4 slots.
	EmptyBuckets   int
	AllocatedSlots int     // slots across all sub-tables
	SpaceBound     float64 // 32·M² / (s + 4M)
	SlotsPerKey    float64
	Prime          uint64
	Universe       int64

	Rebuilds       uint64 // full rebuilds, including the one in New
	BucketReseats  uint64 // same-size bucket rebuilds after a collision
	BucketGrowths  uint64 // bucket capacity doublings
	SearchAttempts uint64 // hash functions drawn by all searches
}

// Stats returns current table statistics.
func (t *Table) Stats() Stats {
	empty := 0
	for i := range t.buckets {
		if len(t.buckets[i].slots) == 0 {
			empty++
		}
	}
	var perKey float64
	if t.count > 0 {
		perKey = float64(t.allocated) / float64(t.count)
	}
	return Stats{
		Elements:       t.count,
		Limit:          t.limit,
		Buckets:        len(t.buckets),
		EmptyBuckets:   empty,
		AllocatedSlots: t.allocated,
		SpaceBound:     spaceBound(len(t.buckets), t.limit),
		SlotsPerKey:    perKey,
		Prime:          t.prime,
		Universe:       int64(t.universe),
		Rebuilds:       t.rebuilds,
		BucketReseats:  t.reseats,
		BucketGrowths:  t.growths,
		SearchAttempts: t.search.Attempts(),
	}
}

// All returns an iterator over the live elements in unspecified order.
// The Table must not be modified during iteration.
func (t *Table) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for i := range t.buckets {
			for _, s := range t.buckets[i].slots {
				if v, ok := s.live(); ok {
					if !yield(int64(v)) {
						return
					}
				}
			}
		}
	}
}

// Digest returns a 64-bit fingerprint of the set's contents: the wrapping sum
// of xxHash64 over each element's 8-byte little-endian encoding. It depends
// only on which elements are present, not on layout, insertion order or the
// hash functions drawn, so two tables holding the same set agree.
func (t *Table) Digest() uint64 {
	var buf [8]byte
	var sum uint64
	for v := range t.All() {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		sum += xxhash.Sum64(buf[:])
	}
	return sum
}
