package selection

import (
	"math"
	"math/rand"
)

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithEpsilon sets the probability of choosing the exploration strategy.
// Values outside [0,1] are ignored.
func WithEpsilon(epsilon float64) Option {
	return func(s *Selector) {
		if epsilon >= 0 && epsilon <= 1 {
			s.epsilon = epsilon
		}
	}
}

// WithAlpha sets the power-law exponent of the exploration weights.
// Negative or non-finite values are ignored.
func WithAlpha(alpha float64) Option {
	return func(s *Selector) {
		if alpha >= 0 && !math.IsInf(alpha, 1) {
			s.alpha = alpha
		}
	}
}

// WithRand injects the random source.
func WithRand(r Rand) Option {
	return func(s *Selector) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithSeed seeds a fresh math/rand generator.
func WithSeed(seed int64) Option {
	return func(s *Selector) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // sampling, not cryptography
	}
}
