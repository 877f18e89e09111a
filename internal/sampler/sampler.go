// Package sampler provides the random draws used to synthesize case records:
// weighted categorical picks, bounded rejection sampling from a normal
// distribution, uniform calendar dates and Bernoulli trials.
//
// Every function takes an explicit *rand.Rand so a seeded source yields a
// reproducible dataset.
package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// DateFormat is the ISO layout used for sampled dates.
const DateFormat = "2006-01-02"

// DefaultMaxAttempts bounds rejection sampling when no explicit bound is set.
const DefaultMaxAttempts = 1000

// ErrResampleLimit is returned when rejection sampling exhausts its attempts
// without producing a value inside the bounds.
var ErrResampleLimit = errors.New("rejection sampling exceeded attempt limit")

// NewRand returns a PCG-backed source seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Categorical draws one of a fixed set of outcomes with probability
// proportional to its weight.
type Categorical[T any] struct {
	outcomes   []T
	cumulative []float64
	total      float64
}

// NewCategorical builds a distribution over outcomes. Outcomes and weights
// must be non-empty, of equal length, and every weight must be positive and
// finite.
func NewCategorical[T any](outcomes []T, weights []float64) (*Categorical[T], error) {
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("no outcomes")
	}
	if len(outcomes) != len(weights) {
		return nil, fmt.Errorf("%d outcomes but %d weights", len(outcomes), len(weights))
	}

	c := &Categorical[T]{
		outcomes:   append([]T(nil), outcomes...),
		cumulative: make([]float64, len(weights)),
	}
	for i, w := range weights {
		if !(w > 0) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight %d must be positive and finite, got %v", i, w)
		}
		c.total += w
		c.cumulative[i] = c.total
	}
	return c, nil
}

// MustCategorical is NewCategorical for tables known to be valid.
func MustCategorical[T any](outcomes []T, weights []float64) *Categorical[T] {
	c, err := NewCategorical(outcomes, weights)
	if err != nil {
		panic(err)
	}
	return c
}

// Pick returns one outcome.
func (c *Categorical[T]) Pick(rng *rand.Rand) T {
	target := rng.Float64() * c.total
	lo, hi := 0, len(c.cumulative)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if target < c.cumulative[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return c.outcomes[lo]
}

// Outcomes returns a copy of the outcome set in declaration order.
func (c *Categorical[T]) Outcomes() []T {
	return append([]T(nil), c.outcomes...)
}

// Probability returns the selection probability of the i-th outcome.
func (c *Categorical[T]) Probability(i int) float64 {
	prev := 0.0
	if i > 0 {
		prev = c.cumulative[i-1]
	}
	return (c.cumulative[i] - prev) / c.total
}

// BoundedNormal samples integers from a normal distribution, rejecting
// draws outside [Min, Max] instead of clamping them.
type BoundedNormal struct {
	Mean        float64
	StdDev      float64
	Min         int
	Max         int
	MaxAttempts int
}

// Validate reports whether the distribution can be sampled.
func (b BoundedNormal) Validate() error {
	switch {
	case !(b.StdDev > 0):
		return fmt.Errorf("standard deviation must be positive, got %v", b.StdDev)
	case b.Min > b.Max:
		return fmt.Errorf("min %d is greater than max %d", b.Min, b.Max)
	case b.Mean < float64(b.Min) || b.Mean > float64(b.Max):
		return fmt.Errorf("mean %v lies outside [%d, %d]", b.Mean, b.Min, b.Max)
	case b.MaxAttempts < 0:
		return fmt.Errorf("max attempts must not be negative, got %d", b.MaxAttempts)
	}
	return nil
}

// Draw returns an integer in [Min, Max]. The draw is truncated toward zero
// before the bounds check. After MaxAttempts rejected draws it returns
// ErrResampleLimit.
func (b BoundedNormal) Draw(rng *rand.Rand) (int, error) {
	attempts := b.MaxAttempts
	if attempts == 0 {
		attempts = DefaultMaxAttempts
	}
	for range attempts {
		v := int(rng.NormFloat64()*b.StdDev + b.Mean)
		if v >= b.Min && v <= b.Max {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %d draws outside [%d, %d]", ErrResampleLimit, attempts, b.Min, b.Max)
}

// UniformDate returns a day chosen uniformly among all days of year,
// formatted with DateFormat.
func UniformDate(rng *rand.Rand, year int) string {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(1, 0, 0).Sub(start).Hours() / 24
	return start.AddDate(0, 0, rng.IntN(int(days))).Format(DateFormat)
}

// Bernoulli returns true with probability p.
func Bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
