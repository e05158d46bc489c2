package logformat

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks a line whose timestamp or value field is absent or unparsable
	ErrMalformed = errors.New("malformed record")

	// ErrSkipped marks a line that carries no record for this layout (blank, or without the required token)
	ErrSkipped = errors.New("line skipped")
)

// MalformedRecordError is a custom error type describing a line that could not be parsed
type MalformedRecordError struct {
	Line   int    // 1-based line number, 0 when unknown
	Text   string // Offending line
	Reason string
	Err    error // Underlying parse error, if any
}

func newMalformedRecordError(line int, text, reason string, err error) *MalformedRecordError {
	return &MalformedRecordError{Line: line, Text: text, Reason: reason, Err: err}
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports ErrMalformed as the kind of every MalformedRecordError.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformed
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// LayoutError is a custom error type for invalid layout descriptions
type LayoutError struct {
	msg string
}

func newLayoutError(format string, args ...any) *LayoutError {
	return &LayoutError{fmt.Sprintf(format, args...)}
}

func (e *LayoutError) Error() string {
	return e.msg
}
