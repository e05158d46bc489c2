package table

import (
	"github.com/ubc-systopia/pancast-code/internal/telemetry"
)

// SeriesColumn is one independently timed series and the labels of its
// time and value columns.
type SeriesColumn struct {
	TimeLabel  string
	ValueLabel string
	Series     telemetry.Series
}

// Padded merges series row by row. The table has as many rows as the longest
// series; row i holds the i-th sample of every series, or the missing markers
// once a series is exhausted.
func Padded(columns []SeriesColumn) (*Table, error) {
	header := make([]Column, 0, 2*len(columns))
	maxLength := 0
	for _, c := range columns {
		header = append(header,
			Column{Label: c.TimeLabel, Kind: TimeColumn},
			Column{Label: c.ValueLabel, Kind: ValueColumn})
		maxLength = max(maxLength, c.Series.Len())
	}

	t := newTable(header)
	t.Rows = make([][]Cell, 0, maxLength)

	for i := 0; i < maxLength; i++ {
		row := make([]Cell, 0, len(header))
		for _, c := range columns {
			if i < c.Series.Len() {
				s := c.Series[i]
				row = append(row, TimeCell(s.Time), ValueCell(s.Value))
				continue
			}
			row = append(row, MissingCell(TimeColumn), MissingCell(ValueColumn))
		}

		if err := t.appendRow(row); err != nil {
			return nil, err
		}
	}

	return t, nil
}
