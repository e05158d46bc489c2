package storage

import (
	"context"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ubc-systopia/pancast-code/internal/experiment"
	"github.com/ubc-systopia/pancast-code/internal/telemetry"
)

// Store provides an interface for archiving aligned RSSI series.
// It handles runs and the per-cell series extracted during each run.
// All operations that write to the database should be considered atomic.
type Store interface {
	// CreateRun registers a new aligner run and returns its unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - tag: Unique user-facing name of the run
	//   - config: Optional run configuration. Can be string, []byte, or JSON-serializable object
	//
	// Returns:
	//   - runID: Unique identifier for the created run
	//   - error: If run creation fails, the tag is taken or context is cancelled
	CreateRun(ctx context.Context, tag string, config any) (runID int64, err error)

	// Run retrieves a specific run by its ID.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - id: Unique run identifier
	//
	// Returns:
	//   - run: Pointer to run data
	//   - error: If retrieval fails, the run does not exist or context is cancelled
	Run(ctx context.Context, id int64) (run *Run, err error)

	// RunByTag retrieves a specific run by its tag.
	RunByTag(ctx context.Context, tag string) (run *Run, err error)

	// Runs returns all runs stored in the database, oldest first.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//
	// Returns:
	//   - runs: Slice of pointers to run data
	//   - error: If retrieval fails or context is cancelled
	Runs(ctx context.Context) (runs []*Run, err error)

	// StoreSeries saves the series of one experiment cell. An empty series is
	// stored as a cell without samples so that readers still see it.
	// The cell and all of its samples are stored in a single atomic transaction.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - runID: ID of the run this series belongs to
	//   - cell: Experiment cell the series was collected for
	//   - series: Samples in time order
	//
	// Returns:
	//   - error: If storage fails or context is cancelled
	StoreSeries(ctx context.Context, runID int64, cell experiment.Cell, series telemetry.Series) error

	// Close releases all database connections and resources.
	// After Close is called, the store instance cannot be reused.
	// It is safe to call Close multiple times.
	//
	// Returns:
	//   - error: If closing connections fails
	Close() error
}
