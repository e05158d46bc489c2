package app

import "math"

const (
	defaultMinRSSI = -110.0 // dBm
	defaultMaxRSSI = -30.0  // dBm

	minimumRange = 20.0 // dB
	boundsStep   = 5.0  // dB, bounds are rounded outward to this step
)

// RSSIBounds represents the vertical range of a chart
type RSSIBounds struct {
	Min float64 // dBm
	Max float64 // dBm
}

func defaultRSSIBounds() RSSIBounds {
	return RSSIBounds{Min: defaultMinRSSI, Max: defaultMaxRSSI}
}

// BoundsTracker accumulates the values a chart has to show.
type BoundsTracker struct {
	min, max float64
	count    int
}

func NewBoundsTracker() *BoundsTracker {
	return &BoundsTracker{min: math.Inf(1), max: math.Inf(-1)}
}

// Update widens the tracked range to include every value.
func (b *BoundsTracker) Update(values ...float64) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		b.min = math.Min(b.min, v)
		b.max = math.Max(b.max, v)
		b.count++
	}
}

// Bounds returns the tracked range with a 10% margin, widened to at least
// minimumRange and rounded outward to boundsStep. Without values it returns
// the default bounds.
func (b *BoundsTracker) Bounds() RSSIBounds {
	if b.count == 0 {
		return defaultRSSIBounds()
	}

	lo, hi := b.min, b.max
	if hi-lo < minimumRange {
		center := (hi + lo) / 2
		lo = center - minimumRange/2
		hi = center + minimumRange/2
	}

	margin := (hi - lo) / 10
	return RSSIBounds{
		Min: math.Floor((lo-margin)/boundsStep) * boundsStep,
		Max: math.Ceil((hi+margin)/boundsStep) * boundsStep,
	}
}

// Override replaces either bound with a manual value.
func (r RSSIBounds) Override(minRSSI, maxRSSI *float64) RSSIBounds {
	if minRSSI != nil {
		r.Min = *minRSSI
	}
	if maxRSSI != nil {
		r.Max = *maxRSSI
	}
	if r.Min >= r.Max {
		// A single manual bound may cross the tracked one.
		if minRSSI != nil {
			r.Max = r.Min + minimumRange
		} else {
			r.Min = r.Max - minimumRange
		}
	}
	return r
}
