package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ubc-systopia/pancast-code/internal/experiment"
	"github.com/ubc-systopia/pancast-code/internal/telemetry"
)

// samplesPerInsert bounds the number of rows in one batch insert, keeping the
// statement under SQLite's host parameter limit.
const samplesPerInsert = 200

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

var _ Store = (*SqliteStore)(nil)

// NewSqliteStore creates a new store backed by the Sqlite database at dbPath.
// Connections are opened lazily and the schema is initialized on first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateRun(ctx context.Context, tag string, config any) (runID int64, err error) {
	if tag == "" {
		return 0, errors.New("run tag required")
	}

	configData, err := toConfigData(config)
	if err != nil {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertRunSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, tag, configData)
	if err != nil {
		err = fmt.Errorf("inserting run: %w", err)
		return
	}

	runID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting run ID: %w", err)
	}
	return
}

func (s *SqliteStore) Run(ctx context.Context, id int64) (*Run, error) {
	return s.queryRun(ctx, selectRunSQL, id)
}

func (s *SqliteStore) RunByTag(ctx context.Context, tag string) (*Run, error) {
	return s.queryRun(ctx, selectRunByTagSQL, tag)
}

func (s *SqliteStore) queryRun(ctx context.Context, query string, arg any) (run *Run, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var data runData
	if err = stmt.QueryRowContext(ctx, arg).Scan(&data.ID, &data.Tag, &data.StartTime, &data.Config); err != nil {
		err = fmt.Errorf("scanning run: %w", err)
		return
	}

	return data.toRun(), nil
}

func (s *SqliteStore) Runs(ctx context.Context) (runs []*Run, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectRunsSQL)
	if err != nil {
		err = fmt.Errorf("querying runs: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data runData
		if err = rows.Scan(&data.ID, &data.Tag, &data.StartTime, &data.Config); err != nil {
			err = fmt.Errorf("scanning run: %w", err)
			return
		}
		runs = append(runs, data.toRun())
	}
	err = rows.Err()
	return
}

// ReadSeries creates a new SeriesReader over the cells archived for a run, in
// the order they were stored. The reader supports filtering by source,
// condition and distance (WithSource, WithCondition, WithDistance).
//
// The returned reader must be closed after use to release database resources.
// Each reader instance should only be used from a single goroutine.
//
// Returns error if reader creation fails or the run doesn't exist.
func (s *SqliteStore) ReadSeries(ctx context.Context, runID int64, opts ...ReaderOption) (*SqliteSeriesReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newSqliteSeriesReader(ctx, db, runID, opts...)
}

func (s *SqliteStore) StoreSeries(ctx context.Context, runID int64, cell experiment.Cell, series telemetry.Series) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	result, err := tx.ExecContext(ctx, insertCellSQL, runID, cell.Source, cell.Condition, cell.Distance)
	if err != nil {
		return fmt.Errorf("inserting cell %s: %w", cell.Label(), err)
	}

	cellID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting cell ID: %w", err)
	}

	samples := toSampleData(cellID, series)
	for start := 0; start < len(samples); start += samplesPerInsert {
		batch := samples[start:min(start+samplesPerInsert, len(samples))]

		// Prepare values array
		values := make([]interface{}, 0, len(batch)*4)

		// Build batch insert query
		valuesPlaceholder := "(?, ?, ?, ?)"

		var sb strings.Builder

		sb.WriteString(insertSamplesSQL)

		for i, data := range batch {
			values = append(values,
				data.CellID,
				data.Seq,
				data.RelTime,
				data.Value,
			)

			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(valuesPlaceholder)
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			return fmt.Errorf("batch inserting samples: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
