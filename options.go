package dynhash

import "log/slog"

const (
	// defaultMaxAttempts caps every randomized search. Each draw succeeds with
	// constant probability, so reaching the cap means the parameters are broken
	// rather than unlucky.
	defaultMaxAttempts = 4096
)

// DeletePolicy selects when Delete triggers a full rebuild.
type DeletePolicy uint8

const (
	// RebuildAtLimit rebuilds after a delete only when count >= M, the same
	// check Insert uses. Since count never exceeds M between operations this
	// rarely fires.
	RebuildAtLimit DeletePolicy = iota

	// RebuildOnShrink rebuilds once the table has shrunk to a quarter of M,
	// releasing the space held by deleted elements.
	RebuildOnShrink
)

// String returns the policy name.
func (p DeletePolicy) String() string {
	switch p {
	case RebuildAtLimit:
		return "rebuild-at-limit"
	case RebuildOnShrink:
		return "rebuild-on-shrink"
	default:
		return "unknown"
	}
}

// Option is a functional option for configuring a Table.
type Option func(*config)

type config struct {
	seed         uint64
	seeded       bool
	maxAttempts  int
	deletePolicy DeletePolicy
	logger       *slog.Logger
}

func defaultConfig() *config {
	return &config{
		maxAttempts: defaultMaxAttempts,
		logger:      slog.New(slog.DiscardHandler),
	}
}

// WithSeed makes every hash function draw deterministic for the given seed.
// Without it each Table draws from a randomly seeded source.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithMaxAttempts caps the number of draws any single hash function search
// may make before the operation fails with ErrRebuildFailed.
// n <= 0 removes the cap.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		c.maxAttempts = n
	}
}

// WithDeletePolicy sets the rebuild policy applied after Delete.
// Default is RebuildAtLimit.
func WithDeletePolicy(p DeletePolicy) Option {
	return func(c *config) {
		c.deletePolicy = p
	}
}

// WithLogger sets the logger for structural events (rebuilds, bucket growth
// and bucket reseats), all emitted at debug level. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
