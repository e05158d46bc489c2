package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ubc-systopia/pancast-code/internal/telemetry"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && cErr != sql.ErrTxDone && *err == nil {
		*err = cErr
	}
}

// toConfigData accepts a string, []byte or any JSON-serializable value.
func toConfigData(config any) (sql.NullString, error) {
	var configData sql.NullString

	switch c := config.(type) {
	case nil:
	case string:
		configData.Valid = true
		configData.String = c

	case []byte:
		configData.Valid = true
		configData.String = string(c)

	default:
		p, err := json.Marshal(config)
		if err != nil {
			return configData, fmt.Errorf("marshaling config: %w", err)
		}

		configData.Valid = true
		configData.String = string(p)
	}

	return configData, nil
}

func toSampleData(cellID int64, series telemetry.Series) []sampleData {
	data := make([]sampleData, len(series))
	for i, s := range series {
		data[i] = sampleData{
			CellID:  cellID,
			Seq:     i,
			RelTime: s.Time,
			Value:   s.Value,
		}
	}
	return data
}

func (d runData) toRun() *Run {
	run := Run{
		ID:        d.ID,
		Tag:       d.Tag,
		StartTime: d.StartTime,
	}
	if d.Config.Valid {
		run.Config = &d.Config.String
	}
	return &run
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
