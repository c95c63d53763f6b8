// Package universal implements the multiplicative universal hash family
// h(x) = (k·x mod p) mod m and the randomized searches built on it.
package universal

import (
	"math/rand/v2"

	intbits "github.com/tamirms/dynhash/internal/bits"
)

// Func is one member of the family. The zero value hashes everything to 0.
type Func struct {
	Prime      uint64 // p, shared by every function of a table
	Range      uint64 // m, the number of target slots
	Multiplier uint64 // k in [1, p-1)
}

// Draw returns a fresh function with a multiplier chosen uniformly from
// [1, prime-1). A prime of 1 is coerced to 3 so the multiplier range is not
// degenerate; when the range is still empty the multiplier is 1.
func Draw(rng *rand.Rand, prime, m uint64) Func {
	if prime == 1 {
		prime = 3
	}
	k := uint64(1)
	if prime > 3 {
		k = 1 + rng.Uint64N(prime-2)
	}
	return Func{Prime: prime, Range: m, Multiplier: k}
}

// Hash maps x into [0, Range). x must be below Prime for the family's
// collision guarantees to hold.
func (f Func) Hash(x uint64) uint64 {
	if f.Range == 0 {
		return 0
	}
	return intbits.MulMod(f.Multiplier, x, f.Prime) % f.Range
}
