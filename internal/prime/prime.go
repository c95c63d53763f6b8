// Package prime selects the modulus shared by every universal hash function
// of a table.
package prime

import "math/big"

// trialDivisionLimit is the largest candidate classified by trial division.
// Above it the divisor list would run past a million entries, so candidates
// go to math/big's Baillie-PSW test, which is exact below 2^64.
const trialDivisionLimit = 1 << 40

// Above returns the smallest prime strictly greater than universe. Above(0)
// is 1, which callers treat as a degenerate modulus.
//
// Candidates are odd numbers starting at 3. Each is trial-divided by the odd
// primes discovered so far, extending that list on demand until the square
// root of the candidate is covered. Candidates above trialDivisionLimit skip
// the list and take a single primality test.
func Above(universe uint64) uint64 {
	switch universe {
	case 0:
		return 1
	case 1:
		return 2
	}

	c := universe + 1
	if c%2 == 0 {
		c++
	}
	var s selector
	s.next = 3
	for ; ; c += 2 {
		if s.isPrime(c) {
			return c
		}
	}
}

// selector holds odd primes in ascending order, discovered incrementally.
type selector struct {
	primes []uint64
	next   uint64 // next odd number to classify
}

// isPrime reports whether the odd number c >= 3 is prime.
func (s *selector) isPrime(c uint64) bool {
	if c > trialDivisionLimit {
		return new(big.Int).SetUint64(c).ProbablyPrime(0)
	}
	for _, p := range s.primes {
		if p*p > c {
			return true
		}
		if c%p == 0 {
			return false
		}
	}
	for {
		p := s.discover()
		if p*p > c {
			return true
		}
		if c%p == 0 {
			return false
		}
	}
}

// discover classifies odd numbers until it finds the next prime, appends it
// and returns it. Every prime below the square root of a candidate is already
// in the list because discovery proceeds in ascending order.
func (s *selector) discover() uint64 {
	for {
		c := s.next
		s.next += 2
		composite := false
		for _, p := range s.primes {
			if p*p > c {
				break
			}
			if c%p == 0 {
				composite = true
				break
			}
		}
		if !composite {
			s.primes = append(s.primes, c)
			return c
		}
	}
}
