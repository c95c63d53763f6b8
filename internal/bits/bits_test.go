package bits

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/big"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// TestMulModMatchesBigInt compares MulMod against math/big on random
// full-width inputs, where a*b overflows 64 bits.
func TestMulModMatchesBigInt(t *testing.T) {
	rng := newTestRNG(t)
	const iterations = 10000

	var prod, mod big.Int
	for i := 0; i < iterations; i++ {
		a := rng.Uint64()
		b := rng.Uint64()
		m := rng.Uint64() | 1 // never zero

		prod.Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		mod.Mod(&prod, new(big.Int).SetUint64(m))

		if got := MulMod(a, b, m); got != mod.Uint64() {
			t.Fatalf("iter %d: MulMod(%d, %d, %d) = %d, want %d", i, a, b, m, got, mod.Uint64())
		}
	}
}

// TestMulModPinnedValues pins small and boundary cases.
func TestMulModPinnedValues(t *testing.T) {
	cases := []struct {
		a, b, m uint64
		want    uint64
	}{
		{0, 12345, 7, 0},
		{3, 5, 7, 1},
		{10, 10, 1, 0},
		{math.MaxUint64, 2, 503, (math.MaxUint64 % 503) * 2 % 503},
		{math.MaxUint64, math.MaxUint64, math.MaxUint64, 0},
		{1 << 62, 4, 1000000007, 0}, // filled in below
	}
	// 2^64 mod 1000000007
	cases[5].want = new(big.Int).Mod(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1000000007)).Uint64()

	for _, tc := range cases {
		if got := MulMod(tc.a, tc.b, tc.m); got != tc.want {
			t.Errorf("MulMod(%d, %d, %d) = %d, want %d", tc.a, tc.b, tc.m, got, tc.want)
		}
	}
}

// TestMulModRange verifies the result is always below the modulus.
func TestMulModRange(t *testing.T) {
	rng := newTestRNG(t)
	for i := 0; i < 10000; i++ {
		m := rng.Uint64N(1<<40) + 1
		if got := MulMod(rng.Uint64(), rng.Uint64(), m); got >= m {
			t.Fatalf("iter %d: MulMod result %d >= modulus %d", i, got, m)
		}
	}
}
