package logformat

import (
	"strconv"
	"strings"

	"github.com/ubc-systopia/pancast-code/internal/telemetry"
	"github.com/ubc-systopia/pancast-code/internal/timestamp"
)

// Parser turns log lines into records according to a Layout.
type Parser struct {
	layout Layout
}

// NewParser returns a parser for a validated layout.
func NewParser(layout Layout) (*Parser, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Parser{layout: layout}, nil
}

// Layout returns the layout the parser was built with.
func (p *Parser) Layout() Layout {
	return p.layout
}

// Parse parses a single line. It returns ErrSkipped for lines the layout does
// not apply to and a *MalformedRecordError for lines it cannot read.
func (p *Parser) Parse(line string) (telemetry.Record, error) {
	return p.ParseLine(0, line)
}

// ParseLine is Parse with the line number recorded in the result and errors.
func (p *Parser) ParseLine(n int, line string) (telemetry.Record, error) {
	text := strings.TrimSpace(line)
	if text == "" {
		return telemetry.Record{}, ErrSkipped
	}
	if p.layout.Require != "" && !strings.Contains(text, p.layout.Require) {
		return telemetry.Record{}, ErrSkipped
	}

	tokens := p.layout.split(text)

	field, ok := timestamp.Token(tokens, p.layout.TimestampField)
	if !ok {
		return telemetry.Record{}, newMalformedRecordError(n, text, "missing timestamp field", nil)
	}
	ts, err := timestamp.Parse(field)
	if err != nil {
		return telemetry.Record{}, newMalformedRecordError(n, text, "invalid timestamp", err)
	}

	raw, ok := p.valueField(text, tokens)
	if !ok {
		return telemetry.Record{}, newMalformedRecordError(n, text, "missing value field", nil)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return telemetry.Record{}, newMalformedRecordError(n, text, "invalid value", err)
	}

	return telemetry.Record{Line: n, Timestamp: ts, Value: value}, nil
}

func (p *Parser) valueField(text string, tokens []string) (string, bool) {
	rule := p.layout.Value

	var raw string
	if rule.Marker != "" {
		_, after, found := strings.Cut(text, rule.Marker)
		if !found {
			return "", false
		}
		if rule.Terminator != "" {
			after, _, _ = strings.Cut(after, rule.Terminator)
		}
		raw = after
	} else {
		token, ok := timestamp.Token(tokens, rule.Field)
		if !ok {
			return "", false
		}
		raw = token
	}

	if rule.Trim != "" {
		raw = strings.Trim(raw, rule.Trim)
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
