package storage

import (
	"database/sql"
	"time"

	"github.com/ubc-systopia/pancast-code/internal/experiment"
	"github.com/ubc-systopia/pancast-code/internal/telemetry"
)

// Run represents one invocation of the aligner and the series it archived.
type Run struct {
	ID        int64     `json:"ID"`                      // Unique identifier for the run
	Tag       string    `json:"tag"`                     // Unique user-facing name (a UUID unless configured)
	StartTime time.Time `json:"startTime"`               // When the run was archived
	Config    *string   `json:"config,string,omitempty"` // Optional run configuration in JSON format
}

// CellSeries is the series archived for one experiment cell.
type CellSeries struct {
	Cell   experiment.Cell  `json:"cell"`
	Series telemetry.Series `json:"series"`
}

type runData struct {
	ID        int64
	Tag       string
	StartTime time.Time
	Config    sql.NullString
}

type sampleData struct {
	CellID  int64
	Seq     int
	RelTime float64
	Value   int
}
