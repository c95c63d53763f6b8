package dynhash

import (
	"errors"
	"testing"

	dynerrors "github.com/tamirms/dynhash/errors"
)

// TestStressRandomMultiset inserts a large random multiset, checks every
// value locates, deletes each distinct value once (a repeated delete of a
// removed value must fail), and checks nothing locates afterwards.
func TestStressRandomMultiset(t *testing.T) {
	n := 1_000_000
	if testing.Short() {
		n = 50_000
	}
	universe := int64(4 * n)

	rng := newTestRNG(t)
	keys := randomKeys(rng, n, universe)
	tbl := newTestTable(t, universe)

	distinct := make(map[int64]struct{}, n)
	for _, x := range keys {
		mustInsert(t, tbl, x)
		distinct[x] = struct{}{}
	}
	if tbl.Len() != len(distinct) {
		t.Fatalf("Len() = %d, want %d distinct", tbl.Len(), len(distinct))
	}
	for _, x := range keys {
		if !mustLocate(t, tbl, x) {
			t.Fatalf("Locate(%d) = false after inserting", x)
		}
	}
	mustVerify(t, tbl)

	stats := tbl.Stats()
	if float64(stats.AllocatedSlots) > stats.SpaceBound {
		t.Errorf("allocated %d slots exceeds bound %.0f", stats.AllocatedSlots, stats.SpaceBound)
	}
	t.Logf("n=%d distinct=%d buckets=%d slots/key=%.2f rebuilds=%d reseats=%d growths=%d attempts=%d",
		n, stats.Elements, stats.Buckets, stats.SlotsPerKey,
		stats.Rebuilds, stats.BucketReseats, stats.BucketGrowths, stats.SearchAttempts)

	for _, x := range keys {
		err := tbl.Delete(x)
		if _, ok := distinct[x]; ok {
			if err != nil {
				t.Fatalf("Delete(%d): %v", x, err)
			}
			delete(distinct, x)
			continue
		}
		if !errors.Is(err, dynerrors.ErrNotFound) {
			t.Fatalf("repeated Delete(%d): got %v, want ErrNotFound", x, err)
		}
	}
	if tbl.Len() != 0 {
		t.Fatalf("Len() = %d after deleting everything", tbl.Len())
	}
	for _, x := range keys {
		if mustLocate(t, tbl, x) {
			t.Fatalf("Locate(%d) = true after delete", x)
		}
	}
	mustVerify(t, tbl)
}

// TestStressSequentialKeys inserts a strided run of keys, a pattern that is
// far from uniform, and checks the two-level layout copes.
func TestStressSequentialKeys(t *testing.T) {
	n := int64(200_000)
	if testing.Short() {
		n = 20_000
	}
	tbl := newTestTable(t, 3*n)
	for x := int64(0); x < 3*n; x += 3 {
		mustInsert(t, tbl, x)
	}
	if int64(tbl.Len()) != n {
		t.Fatalf("Len() = %d, want %d", tbl.Len(), n)
	}
	for x := int64(0); x < 3*n; x++ {
		if got, want := mustLocate(t, tbl, x), x%3 == 0; got != want {
			t.Fatalf("Locate(%d) = %v, want %v", x, got, want)
		}
	}
	mustVerify(t, tbl)
}

// TestShrinkPolicy checks RebuildOnShrink releases space as the table
// empties, while the default policy keeps the grown layout.
func TestShrinkPolicy(t *testing.T) {
	const n = 4000
	for _, policy := range []DeletePolicy{RebuildAtLimit, RebuildOnShrink} {
		t.Run(policy.String(), func(t *testing.T) {
			tbl := newTestTable(t, 10*n, WithDeletePolicy(policy))
			for x := int64(0); x < n; x++ {
				mustInsert(t, tbl, 10*x)
			}
			grown := tbl.Stats()
			for x := int64(0); x < n-10; x++ {
				mustDelete(t, tbl, 10*x)
			}
			for x := int64(n - 10); x < n; x++ {
				if !mustLocate(t, tbl, 10*x) {
					t.Fatalf("Locate(%d) = false for surviving key", 10*x)
				}
			}
			mustVerify(t, tbl)

			shrunk := tbl.Stats()
			switch policy {
			case RebuildOnShrink:
				if shrunk.Rebuilds <= grown.Rebuilds {
					t.Errorf("no rebuild while shrinking from %d to %d", n, shrunk.Elements)
				}
				if shrunk.Buckets >= grown.Buckets/4 {
					t.Errorf("buckets = %d after shrinking, grown table had %d", shrunk.Buckets, grown.Buckets)
				}
			default:
				if shrunk.Rebuilds != grown.Rebuilds {
					t.Errorf("default policy rebuilt %d times during deletes", shrunk.Rebuilds-grown.Rebuilds)
				}
				if shrunk.Buckets != grown.Buckets {
					t.Errorf("buckets = %d after deletes, want %d", shrunk.Buckets, grown.Buckets)
				}
			}
		})
	}
}
