package interval

import (
	"slices"
)

// Overlaps reports whether a and b share more than a single point.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(a, b Interval) bool {
	return max(0, min(a.Upper(), b.Upper())-max(a.Lower(), b.Lower())) != 0
}

// SelectDisjoint returns a maximum set of pairwise non-overlapping intervals,
// picked greedily by ascending upper bound. Ties keep input order.
func SelectDisjoint(intervals []Interval) []Interval {
	remaining := slices.Clone(intervals)
	slices.SortStableFunc(remaining, func(a, b Interval) int {
		switch {
		case a.Upper() < b.Upper():
			return -1
		case a.Upper() > b.Upper():
			return 1
		}
		return 0
	})

	var selected []Interval
	for len(remaining) > 0 {
		accepted := remaining[0]
		selected = append(selected, accepted)

		remaining = slices.DeleteFunc(remaining[1:], func(i Interval) bool {
			return Overlaps(accepted, i)
		})
	}

	return selected
}

// MaxDisjoint returns the size of the largest set of pairwise non-overlapping
// intervals, i.e. how many of them are statistically distinguishable.
func MaxDisjoint(intervals []Interval) int {
	return len(SelectDisjoint(intervals))
}
