package table

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// MissingTime marks a time cell past the end of its series
	MissingTime = "N/A"

	// MissingValue marks a value cell past the end of its series. It lies
	// outside any plausible dBm reading.
	MissingValue = 127

	// DefaultPrecision is the number of decimals written for time cells
	DefaultPrecision = 3
)

var (
	// ErrRaggedRow is returned when a row's width differs from the header width
	ErrRaggedRow = errors.New("row width does not match header")

	// ErrQueueMismatch is returned when a group's time and value queues disagree
	ErrQueueMismatch = errors.New("time and value queues out of step")
)

// ColumnKind tells whether a column holds times or values.
type ColumnKind int

const (
	TimeColumn ColumnKind = iota
	ValueColumn
)

func (k ColumnKind) String() string {
	switch k {
	case TimeColumn:
		return "time"
	case ValueColumn:
		return "value"
	default:
		return fmt.Sprintf("ColumnKind(%d)", int(k))
	}
}

// Column is a table header entry.
type Column struct {
	Label string
	Kind  ColumnKind
}

// Cell is one table entry: a relative time, an RSSI value, or the missing
// marker for its column kind.
type Cell struct {
	Kind    ColumnKind
	Missing bool
	Time    float64
	Value   int
}

// TimeCell returns a cell holding a relative time in seconds.
func TimeCell(t float64) Cell {
	return Cell{Kind: TimeColumn, Time: t}
}

// ValueCell returns a cell holding a value.
func ValueCell(v int) Cell {
	return Cell{Kind: ValueColumn, Value: v}
}

// MissingCell returns the padding cell for kind.
func MissingCell(kind ColumnKind) Cell {
	return Cell{Kind: kind, Missing: true}
}

// Format renders the cell, writing times with precision decimals
// (or the shortest exact form when precision is negative).
func (c Cell) Format(precision int) string {
	switch c.Kind {
	case TimeColumn:
		if c.Missing {
			return MissingTime
		}
		return strconv.FormatFloat(c.Time, 'f', precision, 64)
	default:
		if c.Missing {
			return strconv.Itoa(MissingValue)
		}
		return strconv.Itoa(c.Value)
	}
}

// Table is a rectangular result: every row has one cell per column.
type Table struct {
	Columns   []Column
	Rows      [][]Cell
	Precision int // Decimals for time cells
}

func newTable(columns []Column) *Table {
	return &Table{Columns: columns, Precision: DefaultPrecision}
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Columns)
}

// Header returns the column labels.
func (t *Table) Header() []string {
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
	}
	return header
}

// Validate checks that every row matches the header in width and cell kinds.
func (t *Table) Validate() error {
	for r, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d cells, header has %d", ErrRaggedRow, r, len(row), len(t.Columns))
		}
		for c, cell := range row {
			if cell.Kind != t.Columns[c].Kind {
				return fmt.Errorf("row %d column %q: %s cell in %s column", r, t.Columns[c].Label, cell.Kind, t.Columns[c].Kind)
			}
		}
	}
	return nil
}

// Records formats the rows as strings, without the header.
func (t *Table) Records() [][]string {
	records := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		record := make([]string, len(row))
		for c, cell := range row {
			record[c] = cell.Format(t.Precision)
		}
		records[r] = record
	}
	return records
}

// ValueCount returns the number of value cells that are not padding.
func (t *Table) ValueCount() int {
	var n int
	for _, row := range t.Rows {
		for _, cell := range row {
			if cell.Kind == ValueColumn && !cell.Missing {
				n++
			}
		}
	}
	return n
}

func (t *Table) appendRow(row []Cell) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("%w: row %d has %d cells, header has %d", ErrRaggedRow, len(t.Rows), len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}
