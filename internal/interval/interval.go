package interval

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultZ is the two-sided 95% normal critical value.
const DefaultZ = 1.96

// ErrInsufficientSamples is returned when fewer than two values are summarized
var ErrInsufficientSamples = errors.New("at least two samples are required")

// Interval is a symmetric confidence interval around Center.
type Interval struct {
	Center    float64 `json:"center"`
	HalfWidth float64 `json:"halfWidth"`
}

// Lower returns the lower bound.
func (i Interval) Lower() float64 {
	return i.Center - i.HalfWidth
}

// Upper returns the upper bound.
func (i Interval) Upper() float64 {
	return i.Center + i.HalfWidth
}

func (i Interval) String() string {
	return fmt.Sprintf("%.3f ± %.3f", i.Center, i.HalfWidth)
}

// ZForConfidence returns the two-sided normal critical value for level,
// which must lie in (0, 1). 0.95 returns DefaultZ exactly.
func ZForConfidence(level float64) (float64, error) {
	if !(level > 0 && level < 1) {
		return 0, fmt.Errorf("confidence level must be in (0, 1): %v", level)
	}
	if level == 0.95 {
		return DefaultZ, nil
	}
	return distuv.UnitNormal.Quantile(1 - (1-level)/2), nil
}

// Summarize returns the mean of values with a half-width of z times the
// sample standard deviation (n-1 in the denominator).
func Summarize(values []float64, z float64) (Interval, error) {
	if len(values) < 2 {
		return Interval{}, fmt.Errorf("%w: got %d", ErrInsufficientSamples, len(values))
	}
	if z < 0 || math.IsNaN(z) {
		return Interval{}, fmt.Errorf("invalid critical value: %v", z)
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return Interval{}, fmt.Errorf("error computing mean: %w", err)
	}

	stdDev, err := stats.StandardDeviationSample(values)
	if err != nil {
		return Interval{}, fmt.Errorf("error computing standard deviation: %w", err)
	}

	return Interval{Center: mean, HalfWidth: z * stdDev}, nil
}
