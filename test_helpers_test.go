package dynhash

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// testNameHash folds the test name into 128 bits so each test gets its own
// reproducible stream.
func testNameHash(t testing.TB) (uint64, uint64) {
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8]), binary.LittleEndian.Uint64(sum[8:])
}

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	s1, s2 := testNameHash(t)
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// newTestTable creates a Table whose hash draws are seeded from the test name.
func newTestTable(t testing.TB, universe int64, opts ...Option) *Table {
	t.Helper()
	s1, _ := testNameHash(t)
	opts = append([]Option{WithSeed(testSeed1 ^ s1)}, opts...)
	tbl, err := New(universe, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", universe, err)
	}
	return tbl
}

func mustInsert(t testing.TB, tbl *Table, x int64) {
	t.Helper()
	if err := tbl.Insert(x); err != nil {
		t.Fatalf("Insert(%d): %v", x, err)
	}
}

func mustDelete(t testing.TB, tbl *Table, x int64) {
	t.Helper()
	if err := tbl.Delete(x); err != nil {
		t.Fatalf("Delete(%d): %v", x, err)
	}
}

func mustLocate(t testing.TB, tbl *Table, x int64) bool {
	t.Helper()
	ok, err := tbl.Locate(x)
	if err != nil {
		t.Fatalf("Locate(%d): %v", x, err)
	}
	return ok
}

func mustVerify(t testing.TB, tbl *Table) {
	t.Helper()
	if err := tbl.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

// randomKeys returns n keys drawn uniformly from [0, universe], duplicates allowed.
func randomKeys(rng *rand.Rand, n int, universe int64) []int64 {
	keys := make([]int64, n)
	for i := range keys {
		keys[i] = rng.Int64N(universe + 1)
	}
	return keys
}
