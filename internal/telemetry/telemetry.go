package telemetry

import (
	"github.com/ubc-systopia/pancast-code/internal/timestamp"
)

// Record is one well-formed log line: where it was read and what it carried.
type Record struct {
	Line      int                 `json:"line"`      // 1-based line number within the source file
	Timestamp timestamp.Timestamp `json:"timestamp"` // Wall-clock time printed on the line
	Value     int                 `json:"value"`     // RSSI in dBm, or a raw integer reading
}

// Sample is a single reading relative to the start of its series.
type Sample struct {
	Time  float64 `json:"time"`  // Seconds since the first retained record, >= 0
	Value int     `json:"value"` // RSSI in dBm
}

// Series is a time-ascending sequence of samples for one experiment cell.
type Series []Sample

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s)
}

// Values returns the sample values as float64, ready for statistics.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, sample := range s {
		values[i] = float64(sample.Value)
	}
	return values
}

// Times returns the relative sample times.
func (s Series) Times() []float64 {
	times := make([]float64, len(s))
	for i, sample := range s {
		times[i] = sample.Time
	}
	return times
}

// Duration returns the relative time of the last sample, or zero for an empty series.
func (s Series) Duration() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Time
}
