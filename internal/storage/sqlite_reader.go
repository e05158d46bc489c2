package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ubc-systopia/pancast-code/internal/experiment"
	"github.com/ubc-systopia/pancast-code/internal/telemetry"
)

// SeriesReader provides an iterator-based interface for reading the series
// archived for a run, one experiment cell at a time.
type SeriesReader interface {
	// Run returns metadata about the run this reader is accessing.
	Run() *Run

	// Next advances the iterator and returns true if there is another cell
	// to read, false when the iteration is complete or if an error occurred.
	Next(context.Context) bool

	// Current returns the current cell series in the iteration.
	// If called after Next() returns false, the behavior is undefined.
	Current() *CellSeries

	// Error returns any error that occurred during iteration.
	// If Next() returns false, Error() should be checked to distinguish between
	// end of data and an error condition.
	Error() error

	// Close releases any resources associated with the reader.
	// After Close is called, the reader should not be used.
	Close() error
}

// ReaderOption configures a SeriesReader with specific filtering criteria.
type ReaderOption func(*SqliteSeriesReader)

// WithSource restricts the reader to cells of one source.
func WithSource(source string) ReaderOption {
	return func(r *SqliteSeriesReader) {
		r.source = &source
	}
}

// WithCondition restricts the reader to cells of one condition.
func WithCondition(condition string) ReaderOption {
	return func(r *SqliteSeriesReader) {
		r.condition = &condition
	}
}

// WithDistance restricts the reader to cells of one distance.
func WithDistance(distance string) ReaderOption {
	return func(r *SqliteSeriesReader) {
		r.distance = &distance
	}
}

// newSqliteSeriesReader creates a new SeriesReader instance for reading series from a database,
// applying optional filters.
func newSqliteSeriesReader(ctx context.Context, db *sql.DB, runID int64, opts ...ReaderOption) (*SqliteSeriesReader, error) {
	sr := &SqliteSeriesReader{
		db:    db,
		runID: runID,
	}
	for _, opt := range opts {
		opt(sr)
	}
	if err := sr.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return sr, nil
}

// SqliteSeriesReader implements SeriesReader for SQLite database backend.
type SqliteSeriesReader struct {
	db *sql.DB

	runID int64
	run   *Run

	source    *string // Optional source filter
	condition *string // Optional condition filter
	distance  *string // Optional distance filter

	current    *CellSeries
	next       *CellSeries // Cell whose first row was read ahead
	nextCellID int64
	rows       *sql.Rows
	err        error
}

var _ SeriesReader = (*SqliteSeriesReader)(nil)

func (sr *SqliteSeriesReader) init(ctx context.Context) error {
	if sr.db == nil {
		return errors.New("database connection required")
	}
	if sr.runID <= 0 {
		return errors.New("run ID required")
	}

	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "loading run", fn: sr.loadRun},
		{msg: "initializing query", fn: sr.initQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (sr *SqliteSeriesReader) loadRun(ctx context.Context) (err error) {
	stmt, err := sr.db.PrepareContext(ctx, selectRunSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var data runData
	if err = stmt.QueryRowContext(ctx, sr.runID).Scan(&data.ID, &data.Tag, &data.StartTime, &data.Config); err != nil {
		return fmt.Errorf("querying run: %w", err)
	}

	sr.run = data.toRun()
	return
}

func (sr *SqliteSeriesReader) initQuery(ctx context.Context) (err error) {
	sr.rows, err = sr.db.QueryContext(ctx, selectSeriesSQL,
		sr.runID,
		nullString(sr.source),
		nullString(sr.condition),
		nullString(sr.distance),
	)
	return err
}

// scanRow reads one joined row. The sample is absent for a cell without samples.
func (sr *SqliteSeriesReader) scanRow() (int64, experiment.Cell, *telemetry.Sample, error) {
	var (
		cellID  int64
		cell    experiment.Cell
		relTime sql.NullFloat64
		value   sql.NullInt64
	)

	if err := sr.rows.Scan(&cellID, &cell.Source, &cell.Condition, &cell.Distance, &relTime, &value); err != nil {
		return 0, cell, nil, fmt.Errorf("scanning sample: %w", err)
	}
	if !relTime.Valid || !value.Valid {
		return cellID, cell, nil, nil
	}
	return cellID, cell, &telemetry.Sample{Time: relTime.Float64, Value: int(value.Int64)}, nil
}

func (sr *SqliteSeriesReader) Run() *Run {
	return sr.run
}

func (sr *SqliteSeriesReader) Next(ctx context.Context) bool {
	if sr.err != nil || sr.rows == nil {
		return false
	}

	sr.current = sr.next
	currentID := sr.nextCellID
	sr.next = nil

	for {
		select {
		case <-ctx.Done():
			sr.err = ctx.Err()
			return false
		default:
		}

		if !sr.rows.Next() {
			return sr.current != nil
		}

		cellID, cell, sample, err := sr.scanRow()
		if err != nil {
			sr.err = err
			return false
		}

		// A new cell begins: hold it for the following call
		if sr.current != nil && cellID != currentID {
			sr.next = &CellSeries{Cell: cell}
			sr.nextCellID = cellID
			if sample != nil {
				sr.next.Series = append(sr.next.Series, *sample)
			}
			return true
		}

		if sr.current == nil {
			sr.current = &CellSeries{Cell: cell}
			currentID = cellID
		}
		if sample != nil {
			sr.current.Series = append(sr.current.Series, *sample)
		}
	}
}

func (sr *SqliteSeriesReader) Current() *CellSeries {
	return sr.current
}

func (sr *SqliteSeriesReader) Error() error {
	if sr.err != nil {
		return sr.err
	}
	if sr.rows != nil {
		return sr.rows.Err()
	}
	return nil
}

func (sr *SqliteSeriesReader) Close() error {
	if sr.rows != nil {
		err := sr.rows.Close()
		sr.current = nil
		sr.next = nil
		sr.rows = nil
		return err
	}
	return nil
}

// ReadAll drains r into a slice.
func ReadAll(ctx context.Context, r SeriesReader) ([]CellSeries, error) {
	var all []CellSeries
	for r.Next(ctx) {
		all = append(all, *r.Current())
	}
	if err := r.Error(); err != nil {
		return nil, err
	}
	return all, nil
}
