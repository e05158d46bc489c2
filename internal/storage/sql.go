package storage

import (
	_ "embed"
)

//go:embed schema.sql
var initSchemaSQL string

const (
	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_cells_run_id ON cells (run_id)`

	insertRunSQL = `
INSERT INTO runs (
                  tag,
                  start_time,
                  config)
VALUES (?, CURRENT_TIMESTAMP, ?)`

	selectRunSQL = `
SELECT 
    id, 
    tag, 
    start_time, 
    config 
FROM runs 
WHERE 
    id = ?`

	selectRunByTagSQL = `
SELECT 
    id, 
    tag, 
    start_time, 
    config 
FROM runs 
WHERE 
    tag = ?`

	selectRunsSQL = `
SELECT 
    id, 
    tag, 
    start_time, 
    config 
FROM runs
ORDER BY id`

	insertCellSQL = `
INSERT INTO cells (run_id,
                   source,
                   condition,
                   distance)
VALUES (?, ?, ?, ?)`

	insertSamplesSQL = `
INSERT INTO samples (cell_id,
                     seq,
                     rel_time,
                     value)
VALUES `

	selectSeriesSQL = `
SELECT 
    c.id,
    c.source,
    c.condition,
    c.distance,
    s.rel_time,
    s.value
FROM cells c
    LEFT JOIN samples s ON s.cell_id = c.id
WHERE 
    c.run_id = ?1
    AND (?2 IS NULL OR c.source = ?2)
    AND (?3 IS NULL OR c.condition = ?3)
    AND (?4 IS NULL OR c.distance = ?4)
ORDER BY c.id, s.seq`
)
