package timestamp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrMalformed is returned when a timestamp field is absent or cannot be parsed.
var ErrMalformed = errors.New("malformed timestamp")

// Timestamp is a wall-clock reading taken from a log line. Comparison is
// lexicographic on (Hour, Minute, Second); producers must keep Minute and
// Second normalized below 60 for the ordering to be meaningful.
type Timestamp struct {
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
	Second float64 `json:"second"` // Fractional seconds are preserved
}

// New returns a normalized timestamp for the given components.
func New(hour, minute int, second float64) Timestamp {
	return Timestamp{Hour: hour, Minute: minute}.Add(time.Duration(second * float64(time.Second)))
}

// Parse parses an "h:m:s" token. Hour and minute must be integers, the second
// part may carry a fraction.
func Parse(field string) (Timestamp, error) {
	parts := strings.Split(strings.TrimSpace(field), ":")
	if len(parts) != 3 {
		return Timestamp{}, fmt.Errorf("%w: %q: expected h:m:s", ErrMalformed, field)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: %q: invalid hour: %w", ErrMalformed, field, err)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: %q: invalid minute: %w", ErrMalformed, field, err)
	}

	second, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: %q: invalid second: %w", ErrMalformed, field, err)
	}

	if hour < 0 || minute < 0 || second < 0 || math.IsNaN(second) || math.IsInf(second, 0) {
		return Timestamp{}, fmt.Errorf("%w: %q: negative component", ErrMalformed, field)
	}

	return Timestamp{Hour: hour, Minute: minute, Second: second}, nil
}

// FromLine splits the line on whitespace and parses the token at position field.
// A negative field counts from the end of the line.
func FromLine(line string, field int) (Timestamp, error) {
	tokens := strings.Fields(line)
	token, ok := Token(tokens, field)
	if !ok {
		return Timestamp{}, fmt.Errorf("%w: no field %d in %d tokens", ErrMalformed, field, len(tokens))
	}
	return Parse(token)
}

// Token returns tokens[i], where a negative i counts from the end.
func Token(tokens []string, i int) (string, bool) {
	if i < 0 {
		i += len(tokens)
	}
	if i < 0 || i >= len(tokens) {
		return "", false
	}
	return tokens[i], true
}

// Seconds returns the number of seconds since midnight.
func (t Timestamp) Seconds() float64 {
	return 3600*float64(t.Hour) + 60*float64(t.Minute) + t.Second
}

// Compare returns -1, 0 or +1 comparing t and o field by field.
func (t Timestamp) Compare(o Timestamp) int {
	switch {
	case t.Hour < o.Hour:
		return -1
	case t.Hour > o.Hour:
		return 1
	case t.Minute < o.Minute:
		return -1
	case t.Minute > o.Minute:
		return 1
	case t.Second < o.Second:
		return -1
	case t.Second > o.Second:
		return 1
	}
	return 0
}

// Before reports whether t is strictly earlier than o.
func (t Timestamp) Before(o Timestamp) bool {
	return t.Compare(o) < 0
}

// After reports whether t is strictly later than o.
func (t Timestamp) After(o Timestamp) bool {
	return t.Compare(o) > 0
}

// Add returns t shifted by d. Seconds overflowing 60 carry into minutes and
// minutes overflowing 60 carry into hours. Hours are not wrapped at 24.
func (t Timestamp) Add(d time.Duration) Timestamp {
	// Whole seconds carry as integers so the fraction of t.Second survives
	// unchanged when d is a whole number of seconds.
	whole := math.Floor(t.Second)
	frac := t.Second - whole
	if rem := d % time.Second; rem != 0 {
		frac += rem.Seconds()
	}

	carry := math.Floor(frac)
	frac -= carry

	seconds := int64(whole) + int64(d/time.Second) + int64(carry)
	minutes := int64(t.Minute) + floorDiv(seconds, 60)
	hours := int64(t.Hour) + floorDiv(minutes, 60)

	return Timestamp{
		Hour:   int(hours),
		Minute: int(minutes - floorDiv(minutes, 60)*60),
		Second: float64(seconds-floorDiv(seconds, 60)*60) + frac,
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Sub returns t - o in seconds.
func (t Timestamp) Sub(o Timestamp) float64 {
	return t.Seconds() - o.Seconds()
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%d:%02d:%06.3f", t.Hour, t.Minute, t.Second)
}
