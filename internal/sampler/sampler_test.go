package sampler

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategorical_ConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []string
		weights  []float64
		wantErr  string
	}{
		{"empty", nil, nil, "no outcomes"},
		{"length mismatch", []string{"a", "b"}, []float64{1}, "2 outcomes but 1 weights"},
		{"zero weight", []string{"a", "b"}, []float64{1, 0}, "weight 1 must be positive"},
		{"negative weight", []string{"a"}, []float64{-3}, "weight 0 must be positive"},
		{"nan weight", []string{"a"}, []float64{math.NaN()}, "weight 0 must be positive"},
		{"inf weight", []string{"a"}, []float64{math.Inf(1)}, "weight 0 must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCategorical(tt.outcomes, tt.weights)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMustCategorical_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustCategorical([]int{1}, []float64{})
	})
}

func TestCategorical_SingleOutcome(t *testing.T) {
	rng := NewRand(1)
	c := MustCategorical([]string{"only"}, []float64{7})
	for range 100 {
		assert.Equal(t, "only", c.Pick(rng))
	}
	assert.InDelta(t, 1.0, c.Probability(0), 1e-12)
}

func TestCategorical_Proportions(t *testing.T) {
	rng := NewRand(42)
	c := MustCategorical([]string{"a", "b", "c"}, []float64{70, 20, 10})

	const n = 50000
	counts := map[string]int{}
	for range n {
		counts[c.Pick(rng)]++
	}

	assert.InDelta(t, 0.70, float64(counts["a"])/n, 0.015)
	assert.InDelta(t, 0.20, float64(counts["b"])/n, 0.015)
	assert.InDelta(t, 0.10, float64(counts["c"])/n, 0.015)
	assert.Equal(t, []string{"a", "b", "c"}, c.Outcomes())
	assert.InDelta(t, 0.2, c.Probability(1), 1e-12)
}

func TestCategorical_Deterministic(t *testing.T) {
	c := MustCategorical([]int{1, 2, 3, 4}, []float64{1, 1, 1, 1})
	a, b := NewRand(7), NewRand(7)
	for range 200 {
		assert.Equal(t, c.Pick(a), c.Pick(b))
	}
}

func TestBoundedNormal_StaysInBounds(t *testing.T) {
	rng := NewRand(3)
	dist := BoundedNormal{Mean: 27, StdDev: 7, Min: 15, Max: 70}
	require.NoError(t, dist.Validate())

	for range 20000 {
		v, err := dist.Draw(rng)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 15)
		assert.LessOrEqual(t, v, 70)
	}
}

func TestBoundedNormal_RejectsInsteadOfClamping(t *testing.T) {
	// With clamping, roughly half the draws would pile up on the lower bound.
	rng := NewRand(11)
	dist := BoundedNormal{Mean: 15, StdDev: 7, Min: 15, Max: 70}

	const n = 20000
	atBound := 0
	for range n {
		v, err := dist.Draw(rng)
		require.NoError(t, err)
		if v == 15 {
			atBound++
		}
	}
	assert.Less(t, float64(atBound)/n, 0.2)
}

func TestBoundedNormal_AttemptLimit(t *testing.T) {
	rng := NewRand(5)
	dist := BoundedNormal{Mean: 1000, StdDev: 1, Min: 0, Max: 1, MaxAttempts: 25}

	_, err := dist.Draw(rng)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResampleLimit))
	assert.Contains(t, err.Error(), "25 draws")
}

func TestBoundedNormal_Validate(t *testing.T) {
	tests := []struct {
		name    string
		dist    BoundedNormal
		wantErr string
	}{
		{"zero stddev", BoundedNormal{Mean: 20, StdDev: 0, Min: 15, Max: 70}, "standard deviation"},
		{"inverted bounds", BoundedNormal{Mean: 20, StdDev: 1, Min: 70, Max: 15}, "greater than max"},
		{"mean below", BoundedNormal{Mean: 2, StdDev: 1, Min: 15, Max: 70}, "outside"},
		{"mean above", BoundedNormal{Mean: 90, StdDev: 1, Min: 15, Max: 70}, "outside"},
		{"negative attempts", BoundedNormal{Mean: 20, StdDev: 1, Min: 15, Max: 70, MaxAttempts: -1}, "attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dist.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUniformDate_WithinYear(t *testing.T) {
	rng := NewRand(9)
	for _, year := range []int{2020, 2023} {
		seen := map[string]bool{}
		for range 5000 {
			s := UniformDate(rng, year)
			d, err := time.Parse(DateFormat, s)
			require.NoError(t, err)
			assert.Equal(t, year, d.Year())
			seen[s] = true
		}
		// 5000 draws over at most 366 days should touch almost every day.
		assert.Greater(t, len(seen), 350)
	}
}

func TestUniformDate_LeapDayReachable(t *testing.T) {
	rng := NewRand(13)
	found := false
	for range 20000 {
		if UniformDate(rng, 2024) == "2024-02-29" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestBernoulli(t *testing.T) {
	rng := NewRand(17)
	assert.False(t, Bernoulli(rng, 0))
	assert.True(t, Bernoulli(rng, 1))

	const n = 40000
	hits := 0
	for range n {
		if Bernoulli(rng, 0.05) {
			hits++
		}
	}
	assert.InDelta(t, 0.05, float64(hits)/n, 0.006)
}
