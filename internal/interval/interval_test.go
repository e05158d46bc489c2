package interval

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bounds(lower, upper float64) Interval {
	return Interval{Center: (lower + upper) / 2, HalfWidth: (upper - lower) / 2}
}

func TestSummarize(t *testing.T) {
	got, err := Summarize([]float64{-70, -72, -68, -74}, DefaultZ)
	require.NoError(t, err)

	assert.InDelta(t, -71.0, got.Center, 1e-9)
	assert.InDelta(t, 2.582, got.HalfWidth/DefaultZ, 1e-3)
	assert.InDelta(t, 5.060, got.HalfWidth, 1e-3)
	assert.InDelta(t, -76.060, got.Lower(), 1e-3)
	assert.InDelta(t, -65.940, got.Upper(), 1e-3)
}

func TestSummarize_InsufficientSamples(t *testing.T) {
	for _, values := range [][]float64{nil, {}, {-70}} {
		_, err := Summarize(values, DefaultZ)
		assert.ErrorIs(t, err, ErrInsufficientSamples)
	}

	_, err := Summarize([]float64{1, 2}, -1)
	assert.Error(t, err)
}

func TestSummarize_Constant(t *testing.T) {
	got, err := Summarize([]float64{-60, -60, -60}, DefaultZ)
	require.NoError(t, err)
	assert.Equal(t, Interval{Center: -60, HalfWidth: 0}, got)
}

func TestZForConfidence(t *testing.T) {
	z, err := ZForConfidence(0.95)
	require.NoError(t, err)
	assert.Equal(t, DefaultZ, z)

	z, err = ZForConfidence(0.99)
	require.NoError(t, err)
	assert.InDelta(t, 2.5758, z, 1e-4)

	z, err = ZForConfidence(0.90)
	require.NoError(t, err)
	assert.InDelta(t, 1.6449, z, 1e-4)

	for _, level := range []float64{0, 1, -0.5, 95} {
		_, err := ZForConfidence(level)
		assert.Error(t, err, "level %v", level)
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(bounds(1, 3), bounds(2, 4)))
	assert.True(t, Overlaps(bounds(1, 10), bounds(2, 4)))
	assert.False(t, Overlaps(bounds(1, 3), bounds(3, 5)), "touching endpoints")
	assert.False(t, Overlaps(bounds(1, 3), bounds(5, 7)))
	assert.False(t, Overlaps(bounds(5, 7), bounds(1, 3)))
}

func TestMaxDisjoint(t *testing.T) {
	intervals := []Interval{bounds(1, 3), bounds(2, 4), bounds(5, 7), bounds(6, 8)}

	assert.Equal(t, 2, MaxDisjoint(intervals))
	assert.Equal(t, []Interval{bounds(1, 3), bounds(5, 7)}, SelectDisjoint(intervals))

	assert.Zero(t, MaxDisjoint(nil))
	assert.Equal(t, 1, MaxDisjoint([]Interval{bounds(-80, -70)}))
}

func TestSelectDisjoint_DoesNotMutateInput(t *testing.T) {
	intervals := []Interval{bounds(5, 7), bounds(1, 3)}
	SelectDisjoint(intervals)
	assert.Equal(t, []Interval{bounds(5, 7), bounds(1, 3)}, intervals)
}

// bruteForce returns the largest pairwise disjoint subset size by enumeration.
func bruteForce(intervals []Interval) int {
	best := 0
	for mask := 0; mask < 1<<len(intervals); mask++ {
		var chosen []Interval
		ok := true
		for i := range intervals {
			if mask&(1<<i) == 0 {
				continue
			}
			for _, c := range chosen {
				if Overlaps(c, intervals[i]) {
					ok = false
					break
				}
			}
			if !ok {
				break
			}
			chosen = append(chosen, intervals[i])
		}
		if ok {
			best = max(best, len(chosen))
		}
	}
	return best
}

func TestMaxDisjoint_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		intervals := make([]Interval, rng.Intn(9))
		for i := range intervals {
			lower := float64(rng.Intn(20))
			intervals[i] = bounds(lower, lower+float64(1+rng.Intn(6)))
		}

		greedy := SelectDisjoint(intervals)
		require.Equal(t, bruteForce(intervals), len(greedy), "round %d: %v", round, intervals)

		for i := range greedy {
			for j := i + 1; j < len(greedy); j++ {
				assert.False(t, Overlaps(greedy[i], greedy[j]))
			}
		}
	}
}
