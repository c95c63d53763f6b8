// Package dynhash implements dynamic perfect hashing: a mutable set of
// integers drawn from a fixed universe [0, U] with worst-case O(1) lookup.
//
// The structure is the two-level scheme of Fredman, Komlós and Szemerédi,
// made dynamic by amortized rebuilding. A top-level universal hash function
// spreads elements over s buckets; each bucket is a sub-table with a
// quadratic number of slots and its own hash function, chosen to be
// injective on the bucket's elements. Lookups hash twice and inspect one
// slot. Inserts that collide re-draw the bucket's function or double its
// capacity; when the table outgrows its threshold, or growth would break the
// global space bound, the whole table is rebuilt. Total space stays O(n).
//
// # Basic Usage
//
//	t, err := dynhash.New(1_000_000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := t.Insert(42); err != nil {
//	    log.Fatal(err)
//	}
//	ok, err := t.Locate(42) // true, nil
//	err = t.Delete(42)
//	err = t.Delete(42) // wraps errors.ErrNotFound
//
// Keys outside [0, U] are rejected with errors.ErrOutOfUniverse by every
// operation rather than reported as absent.
//
// # Package Structure
//
//   - Public API: table.go (New, Insert, Delete, Locate), stats.go (Stats,
//     All, Digest), verify.go (Verify)
//   - Configuration: options.go (Option, With* functions)
//   - Buckets: subtable.go (subTable), slot.go (packed slot states)
//   - Hash family and searches: internal/universal/
//   - Prime modulus: internal/prime/
//   - Arithmetic: internal/bits/
//   - Error sentinels: errors/
//
// A Table is not safe for concurrent use.
package dynhash
