package universal

import (
	"fmt"
	"math/rand/v2"

	dynerrors "github.com/tamirms/dynhash/errors"
)

// Searcher runs Las Vegas searches over the family: draw a function, test it,
// repeat. Draws are side-effect free until one is accepted. Past the attempt
// cap a search fails with ErrRebuildFailed.
//
// A Searcher is not safe for concurrent use.
type Searcher struct {
	rng         *rand.Rand
	maxAttempts int

	// stamp[i] == gen marks slot i as taken in the current injectivity test.
	// Bumping gen clears every mark in O(1).
	stamp []uint32
	gen   uint32

	attempts uint64 // total draws over the Searcher's lifetime
}

// NewSearcher returns a Searcher drawing from rng. maxAttempts <= 0 means
// unbounded.
func NewSearcher(rng *rand.Rand, maxAttempts int) *Searcher {
	return &Searcher{rng: rng, maxAttempts: maxAttempts}
}

// Attempts returns the total number of functions drawn so far.
func (s *Searcher) Attempts() uint64 {
	return s.attempts
}

// Search draws functions with the given prime and range until accept returns
// true. It returns the accepted function and the number of draws it took.
func (s *Searcher) Search(prime, m uint64, accept func(Func) bool) (Func, int, error) {
	for n := 1; s.maxAttempts <= 0 || n <= s.maxAttempts; n++ {
		f := Draw(s.rng, prime, m)
		s.attempts++
		if accept(f) {
			return f, n, nil
		}
	}
	return Func{}, s.maxAttempts, fmt.Errorf("%w: %d draws over range %d", dynerrors.ErrRebuildFailed, s.maxAttempts, m)
}

// FindInjective returns a function with range m that maps the distinct keys to
// distinct slots. Because m is quadratic in len(keys), the expected number of
// draws is O(1).
func (s *Searcher) FindInjective(keys []uint64, prime, m uint64) (Func, int, error) {
	if uint64(len(keys)) > m {
		return Func{}, 0, fmt.Errorf("%w: %d keys cannot be injective over %d slots", dynerrors.ErrRebuildFailed, len(keys), m)
	}
	return s.Search(prime, m, func(f Func) bool {
		return s.Injective(f, keys)
	})
}

// Injective reports whether f maps no two of keys to the same slot. keys are
// assumed distinct.
func (s *Searcher) Injective(f Func, keys []uint64) bool {
	if len(keys) < 2 {
		return true
	}
	if uint64(len(s.stamp)) < f.Range {
		s.stamp = make([]uint32, f.Range)
		s.gen = 0
	}
	s.gen++
	if s.gen == 0 {
		clear(s.stamp)
		s.gen = 1
	}
	gen := s.gen
	for _, k := range keys {
		h := f.Hash(k)
		if s.stamp[h] == gen {
			return false
		}
		s.stamp[h] = gen
	}
	return true
}
