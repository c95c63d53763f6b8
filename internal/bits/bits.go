// Package bits provides low-level arithmetic primitives.
package bits

import "math/bits"

// MulMod returns (a*b) mod m using a 128-bit intermediate product, so it
// never overflows for any 64-bit inputs. m must be non-zero.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}
