package collect

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ubc-systopia/pancast-code/internal/logformat"
	"github.com/ubc-systopia/pancast-code/internal/telemetry"
	"github.com/ubc-systopia/pancast-code/internal/timestamp"
	"github.com/ubc-systopia/pancast-code/internal/window"
)

const maxLineSize = 1024 * 1024

// ErrTooManyMalformed is returned when a file has more malformed lines than allowed
var ErrTooManyMalformed = errors.New("too many malformed lines")

// Report summarises what happened to the lines of one file.
type Report struct {
	File        string `json:"file"`
	Lines       int    `json:"lines"`       // Lines read
	Skipped     int    `json:"skipped"`     // Blank lines and lines the layout does not apply to
	Malformed   int    `json:"malformed"`   // Lines that failed to parse
	Retained    int    `json:"retained"`    // Samples kept in the series
	OutOfWindow int    `json:"outOfWindow"` // Well-formed records outside the observation window
	OutOfOrder  int    `json:"outOfOrder"`  // In-window records stamped earlier than the sample before them
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("file", r.File),
		slog.Int("lines", r.Lines),
		slog.Int("skipped", r.Skipped),
		slog.Int("malformed", r.Malformed),
		slog.Int("retained", r.Retained),
		slog.Int("outOfWindow", r.OutOfWindow),
		slog.Int("outOfOrder", r.OutOfOrder),
	)
}

// WithLogger sets the logger for the collector
func WithLogger(logger *slog.Logger) func(c *Collector) {
	return func(c *Collector) {
		c.logger = logger.With(slog.String("layout", c.parser.Layout().String()))
	}
}

// WithMaxMalformed sets how many malformed lines a file may contain, 0 means no limit
func WithMaxMalformed(limit int) func(c *Collector) {
	return func(c *Collector) {
		c.maxMalformed = limit
	}
}

// WithWindow sets the observation window length
func WithWindow(length time.Duration) func(c *Collector) {
	return func(c *Collector) {
		c.window = length
	}
}

// Collector reads log files and turns them into windowed series
type Collector struct {
	parser       *logformat.Parser
	window       time.Duration
	maxMalformed int
	logger       *slog.Logger
}

// NewCollector creates a new Collector instance with a discard logger
func NewCollector(parser *logformat.Parser, options ...func(c *Collector)) *Collector {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // nil logger

	c := Collector{
		parser: parser,
		window: window.DefaultLength,
		logger: logger,
	}

	for _, option := range options {
		option(&c)
	}

	return &c
}

// Collect reads the whole file at path and returns the series observed in the
// window that starts at its first well-formed record. Malformed lines are
// logged and skipped. An empty series is not an error.
func (c *Collector) Collect(path string) (telemetry.Series, Report, error) {
	records, report, err := c.read(path)
	if err != nil {
		return nil, report, err
	}

	series, kept, err := c.extract(path, records, nil)
	if err != nil {
		return nil, report, fmt.Errorf("%s: %w", path, err)
	}

	report.Retained = series.Len()
	report.OutOfWindow = len(records) - len(kept)
	report.OutOfOrder = len(kept) - series.Len()
	return series, report, nil
}

// CollectSegments reads a log holding consecutive segments, one per distance,
// and returns one series per segment. Each segment is restricted to its bounds
// and then windowed from its own first record.
func (c *Collector) CollectSegments(path string, segments []window.Window) ([]telemetry.Series, Report, error) {
	records, report, err := c.read(path)
	if err != nil {
		return nil, report, err
	}

	// Segments may overlap, so a record counts as in a window once.
	inWindow := make(map[int]struct{}, len(records))

	result := make([]telemetry.Series, len(segments))
	for i := range segments {
		series, kept, err := c.extract(path, records, &segments[i])
		if err != nil {
			return nil, report, fmt.Errorf("%s: segment %s: %w", path, segments[i], err)
		}

		for _, rec := range kept {
			inWindow[rec.Line] = struct{}{}
		}
		result[i] = series
		report.Retained += series.Len()
		report.OutOfOrder += len(kept) - series.Len()
	}

	report.OutOfWindow = len(records) - len(inWindow)
	return result, report, nil
}

func (c *Collector) read(path string) ([]telemetry.Record, Report, error) {
	report := Report{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, report, fmt.Errorf("error reading log: %w", err)
	}

	var records []telemetry.Record

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	for scanner.Scan() {
		report.Lines++
		line := scanner.Text()

		rec, err := c.parser.ParseLine(report.Lines, line)
		switch {
		case err == nil:
			records = append(records, rec)

		case errors.Is(err, logformat.ErrSkipped):
			report.Skipped++

		case errors.Is(err, logformat.ErrMalformed):
			report.Malformed++
			c.logger.Warn(fmt.Sprintf("skipping malformed record: %s", err.Error()),
				slog.String("file", path),
				slog.Int("line", report.Lines),
				slog.String("text", line))

			if c.maxMalformed > 0 && report.Malformed > c.maxMalformed {
				return nil, report, fmt.Errorf("%s: %w (%d)", path, ErrTooManyMalformed, report.Malformed)
			}

		default:
			return nil, report, fmt.Errorf("%s: line %d: %w", path, report.Lines, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, report, fmt.Errorf("error scanning %s: %w", path, err)
	}

	return records, report, nil
}

// extract windows records, optionally restricted to bounds first, and returns
// the resulting series with the records that fell inside the window. Records
// going back in time are logged and left out of the series.
func (c *Collector) extract(path string, records []telemetry.Record, bounds *window.Window) (telemetry.Series, []telemetry.Record, error) {
	key := func(r telemetry.Record) timestamp.Timestamp { return r.Timestamp }

	if bounds != nil {
		records = window.Filter(*bounds, records, key)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	w, err := window.New(records[0].Timestamp, c.window)
	if err != nil {
		return nil, nil, err
	}

	kept := window.Filter(w, records, key)
	c.logger.Debug("window applied",
		slog.String("window", w.String()),
		slog.Int("records", len(records)),
		slog.Int("kept", len(kept)))

	series, dropped, err := telemetry.Extract(kept)
	if err != nil {
		return nil, nil, err
	}
	for _, rec := range dropped {
		c.logger.Warn("skipping record out of order",
			slog.String("file", path),
			slog.Int("line", rec.Line),
			slog.String("timestamp", rec.Timestamp.String()))
	}

	return series, kept, nil
}
