// Package errors defines all exported error sentinels for the dynhash library.
//
// This is the single source of truth for error values. Both the top-level
// dynhash package and internal packages import from here, ensuring errors.Is
// checks work across package boundaries.
package errors

import "errors"

// Operation errors
var (
	ErrOutOfUniverse = errors.New("dynhash: key outside universe")
	ErrNotFound      = errors.New("dynhash: key does not exist")
)

// Construction errors
var (
	ErrInvalidUniverse = errors.New("dynhash: universe size must be in [0, MaxInt64-1]")
)

// Structural errors
var (
	// ErrRebuildFailed is returned when a randomized hash search exceeds its
	// attempt cap. The structure is left as it was before the operation.
	ErrRebuildFailed = errors.New("dynhash: hash function search exceeded attempt limit")
	ErrCorrupted     = errors.New("dynhash: structural invariant violated")
)
