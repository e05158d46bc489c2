package table

import (
	"fmt"
	"slices"

	"github.com/ubc-systopia/pancast-code/internal/telemetry"
)

// DistanceSeries is the series recorded at one distance of a group.
type DistanceSeries struct {
	Label  string // Value column label
	Series telemetry.Series
}

// Group is a set of distances measured under one condition. Its samples are
// emitted one per row, distance after distance, under a single time column.
type Group struct {
	TimeLabel string
	Distances []DistanceSeries
}

// bucket holds the pending samples of one group.
type bucket struct {
	times     *Queue[float64]
	values    []*Queue[int] // One queue per distance, in distance order
	active    []int         // Distances that still have values, in order
	exhausted bool
}

func newBucket(g Group) *bucket {
	b := &bucket{
		times:  NewQueue[float64](),
		values: make([]*Queue[int], len(g.Distances)),
	}

	for i, d := range g.Distances {
		b.values[i] = NewQueue[int]()
		for _, s := range d.Series {
			b.times.Push(s.Time)
			b.values[i].Push(s.Value)
		}
		if d.Series.Len() > 0 {
			b.active = append(b.active, i)
		}
	}

	b.exhausted = b.times.IsEmpty()
	return b
}

// width is the number of cells the group contributes to a row.
func (b *bucket) width() int {
	return 1 + len(b.values)
}

// next pops one time and one value from the head active distance and returns
// the group's segment of the row.
func (b *bucket) next() ([]Cell, error) {
	row := make([]Cell, b.width())
	row[0] = MissingCell(TimeColumn)
	for i := range b.values {
		row[1+i] = MissingCell(ValueColumn)
	}

	if b.exhausted {
		return row, nil
	}

	t, _ := b.times.Pop()
	if len(b.active) == 0 {
		return nil, fmt.Errorf("%w: time %.3f has no distance left", ErrQueueMismatch, t)
	}

	d := b.active[0]
	v, ok := b.values[d].Pop()
	if !ok {
		return nil, fmt.Errorf("%w: active distance %d has no value", ErrQueueMismatch, d)
	}

	row[0] = TimeCell(t)
	row[1+d] = ValueCell(v)

	if b.values[d].IsEmpty() {
		b.active = slices.Delete(b.active, 0, 1)
	}

	if b.times.IsEmpty() {
		if len(b.active) > 0 {
			return nil, fmt.Errorf("%w: values left for %d distances after the last time", ErrQueueMismatch, len(b.active))
		}
		b.exhausted = true
	}

	return row, nil
}

// Chronological merges groups into consecutive single-sample rows. Each row
// carries, per group, the next pending time and the next value of the first
// distance that still has samples, with every other value cell padded. A group
// with nothing left contributes missing markers until all groups are drained.
func Chronological(groups []Group) (*Table, error) {
	var header []Column
	buckets := make([]*bucket, len(groups))

	for i, g := range groups {
		header = append(header, Column{Label: g.TimeLabel, Kind: TimeColumn})
		for _, d := range g.Distances {
			header = append(header, Column{Label: d.Label, Kind: ValueColumn})
		}
		buckets[i] = newBucket(g)
	}

	return drain(newTable(header), buckets)
}

func drain(t *Table, buckets []*bucket) (*Table, error) {
	for !allExhausted(buckets) {
		row := make([]Cell, 0, t.Width())
		for i, b := range buckets {
			segment, err := b.next()
			if err != nil {
				return nil, fmt.Errorf("group %d, row %d: %w", i, len(t.Rows), err)
			}
			row = append(row, segment...)
		}

		if err := t.appendRow(row); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func allExhausted(buckets []*bucket) bool {
	for _, b := range buckets {
		if !b.exhausted {
			return false
		}
	}
	return true
}
