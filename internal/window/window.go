package window

import (
	"fmt"
	"time"

	"github.com/ubc-systopia/pancast-code/internal/timestamp"
)

// DefaultLength is the observation window used by the experiments: ten minutes
// from the first sample of a log.
const DefaultLength = 10 * time.Minute

// Window is an inclusive [Start, End] observation window. End is always
// normalized, so comparisons near a minute rollover are exact.
type Window struct {
	Start timestamp.Timestamp
	End   timestamp.Timestamp
}

// New returns the window of the given length beginning at start.
func New(start timestamp.Timestamp, length time.Duration) (Window, error) {
	if length < 0 {
		return Window{}, fmt.Errorf("window length must not be negative: %s", length)
	}
	return Window{Start: start, End: start.Add(length)}, nil
}

// Between returns a window with explicit bounds.
func Between(start, end timestamp.Timestamp) (Window, error) {
	if start.After(end) {
		return Window{}, fmt.Errorf("window start %s is after end %s", start, end)
	}
	return Window{Start: start, End: end}, nil
}

// Contains reports whether ts falls inside the window, both bounds included.
func (w Window) Contains(ts timestamp.Timestamp) bool {
	return !ts.Before(w.Start) && notAfter(ts, w.End)
}

// IsWithin reports whether ts lies in [start, end]. The end bound must already
// be normalized; windows built with New always are.
func IsWithin(ts, start, end timestamp.Timestamp) bool {
	return Window{Start: start, End: end}.Contains(ts)
}

// notAfter compares ts against end field by field: the first field that is
// strictly less decides true, the first strictly greater decides false, and a
// timestamp equal to end is included.
func notAfter(ts, end timestamp.Timestamp) bool {
	if ts.Hour < end.Hour {
		return true
	}
	if ts.Hour > end.Hour {
		return false
	}
	if ts.Minute < end.Minute {
		return true
	}
	if ts.Minute > end.Minute {
		return false
	}
	return ts.Second <= end.Second
}

// Length returns the span of the window.
func (w Window) Length() time.Duration {
	return time.Duration(w.End.Sub(w.Start) * float64(time.Second))
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s]", w.Start, w.End)
}

// Filter returns the items whose timestamp lies inside w, preserving order.
func Filter[T any](w Window, items []T, key func(T) timestamp.Timestamp) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if w.Contains(key(item)) {
			kept = append(kept, item)
		}
	}
	return kept
}
