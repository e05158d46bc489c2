package telemetry

import (
	"fmt"
)

// Iterator yields samples one at a time. It is finite and cannot be restarted.
type Iterator interface {
	// Next advances to the next sample and reports whether one is available.
	// It returns false when the input is exhausted or an error occurred.
	Next() bool

	// Current returns the sample produced by the last successful Next.
	Current() Sample

	// Error returns the error that stopped the iteration, if any.
	Error() error
}

// Extractor converts windowed records into samples whose time is relative to
// the first record. Records stamped earlier than the previous sample are
// skipped and kept for Dropped.
type Extractor struct {
	records []Record
	pos     int
	origin  float64
	last    float64
	current Sample
	dropped []Record
}

// NewExtractor returns an extractor over records, which must be in file order.
func NewExtractor(records []Record) *Extractor {
	return &Extractor{records: records}
}

func (e *Extractor) Next() bool {
	for ; e.pos < len(e.records); e.pos++ {
		rec := e.records[e.pos]
		seconds := rec.Timestamp.Seconds()

		if e.pos == 0 {
			e.origin = seconds
		} else if seconds < e.last {
			e.dropped = append(e.dropped, rec)
			continue
		}

		e.last = seconds
		e.current = Sample{Time: seconds - e.origin, Value: rec.Value}
		e.pos++
		return true
	}
	return false
}

// Dropped returns the records skipped so far because their timestamp went
// back in time.
func (e *Extractor) Dropped() []Record {
	return e.dropped
}

func (e *Extractor) Current() Sample {
	return e.current
}

// Error always returns nil: out of order records are dropped, not fatal.
func (e *Extractor) Error() error {
	return nil
}

// Collect drains it into a series.
func Collect(it Iterator) (Series, error) {
	var series Series
	for it.Next() {
		series = append(series, it.Current())
	}
	if err := it.Error(); err != nil {
		return series, fmt.Errorf("extracting series: %w", err)
	}
	return series, nil
}

// Extract is shorthand for collecting a new extractor over records. It also
// returns the records dropped for going back in time.
func Extract(records []Record) (Series, []Record, error) {
	e := NewExtractor(records)
	series, err := Collect(e)
	return series, e.Dropped(), err
}
