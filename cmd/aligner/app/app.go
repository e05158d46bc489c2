package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/ubc-systopia/pancast-code/internal/collect"
	"github.com/ubc-systopia/pancast-code/internal/experiment"
	"github.com/ubc-systopia/pancast-code/internal/logformat"
	"github.com/ubc-systopia/pancast-code/internal/storage"
	"github.com/ubc-systopia/pancast-code/internal/table"
	"github.com/ubc-systopia/pancast-code/internal/telemetry"
)

// ErrNoSamples is returned when no cell of the experiment produced a sample,
// which usually means the layout or the path template does not match the logs.
var ErrNoSamples = errors.New("no samples collected for any cell")

// collected is the series of every cell, in experiment order.
type collected struct {
	cells  []experiment.Cell
	series map[experiment.Cell]telemetry.Series
}

func (c *collected) total() int {
	var n int
	for _, s := range c.series {
		n += s.Len()
	}
	return n
}

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	exp := config.Experiment.Build()

	layout, err := config.Layout.Resolve()
	if err != nil {
		return fmt.Errorf("resolving layout: %w", err)
	}

	parser, err := logformat.NewParser(layout)
	if err != nil {
		return fmt.Errorf("creating parser: %w", err)
	}

	collector := collect.NewCollector(parser,
		collect.WithLogger(logger),
		collect.WithMaxMalformed(config.Experiment.MaxMalformed),
		collect.WithWindow(exp.Window),
	)

	result, err := collectAll(ctx, exp, collector, logger)
	if err != nil {
		return err
	}

	t, err := buildTable(exp, result, config.Output.Protocol)
	if err != nil {
		return fmt.Errorf("building %s table: %w", config.Output.Protocol, err)
	}
	t.Precision = config.Output.precision()

	if err = writeOutputs(t, &config.Output, logger); err != nil {
		return err
	}

	if config.Archive.Enabled {
		if err = archive(ctx, config, result, logger); err != nil {
			return fmt.Errorf("archiving run: %w", err)
		}
	}

	return nil
}

func collectAll(ctx context.Context, exp *experiment.Config, collector *collect.Collector, logger *slog.Logger) (*collected, error) {
	result := &collected{
		cells:  exp.Cells(),
		series: make(map[experiment.Cell]telemetry.Series),
	}

	if exp.Segmented() {
		for _, g := range exp.Groups() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			windows, err := exp.SegmentWindows(g.Condition)
			if err != nil {
				return nil, err
			}

			series, report, err := collector.CollectSegments(exp.Path(g.Cell("")), windows)
			if err != nil {
				return nil, fmt.Errorf("collecting %s: %w", g.Label(), err)
			}
			logger.Info("log collected", slog.String("group", g.Label()), slog.Any("report", report))

			for i, distance := range exp.Distances {
				result.series[g.Cell(distance)] = series[i]
			}
		}
	} else {
		for _, cell := range result.cells {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			series, report, err := collector.Collect(exp.Path(cell))
			if err != nil {
				return nil, fmt.Errorf("collecting %s: %w", cell.Label(), err)
			}
			logger.Info("log collected", slog.String("cell", cell.Label()), slog.Any("report", report))

			result.series[cell] = series
		}
	}

	for _, cell := range result.cells {
		if result.series[cell].Len() == 0 {
			logger.Warn("empty series", slog.String("cell", cell.Label()), slog.String("path", exp.Path(cell)))
		}
	}

	total := result.total()
	if total == 0 {
		return nil, ErrNoSamples
	}

	logger.Info("collection complete",
		slog.Int("cells", len(result.cells)),
		slog.String("samples", humanize.Comma(int64(total))))

	return result, nil
}

func buildTable(exp *experiment.Config, result *collected, protocol Protocol) (*table.Table, error) {
	switch protocol {
	case ProtocolChronological:
		groups := exp.Groups()
		tableGroups := make([]table.Group, 0, len(groups))
		for _, g := range groups {
			tg := table.Group{TimeLabel: g.TimeHeader()}
			for _, distance := range exp.Distances {
				tg.Distances = append(tg.Distances, table.DistanceSeries{
					Label:  g.ValueHeader(distance),
					Series: result.series[g.Cell(distance)],
				})
			}
			tableGroups = append(tableGroups, tg)
		}
		return table.Chronological(tableGroups)

	default:
		columns := make([]table.SeriesColumn, 0, len(result.cells))
		for _, cell := range result.cells {
			columns = append(columns, table.SeriesColumn{
				TimeLabel:  cell.TimeHeader(),
				ValueLabel: cell.ValueHeader(),
				Series:     result.series[cell],
			})
		}
		return table.Padded(columns)
	}
}

func writeOutputs(t *table.Table, config *OutputConfig, logger *slog.Logger) error {
	if config.CSV != "" {
		if err := writeCSV(config.CSV, t); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		logger.Info("table written",
			slog.String("path", config.CSV),
			slog.Int("rows", len(t.Rows)),
			slog.Int("columns", t.Width()))
	}

	if config.XLSX != "" {
		if err := table.WriteXLSX(config.XLSX, t, config.Sheet); err != nil {
			return fmt.Errorf("writing XLSX: %w", err)
		}
		logger.Info("workbook written", slog.String("path", config.XLSX))
	}

	return nil
}

func writeCSV(path string, t *table.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return table.WriteCSV(f, t)
}

func archive(ctx context.Context, config *Config, result *collected, logger *slog.Logger) error {
	store := storage.NewSqliteStore(config.Archive.Path)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(fmt.Sprintf("failed to close archive: %s", err.Error()))
		}
	}()

	tag := config.Archive.Tag
	if tag == "" {
		tag = uuid.NewString()
	}

	runID, err := store.CreateRun(ctx, tag, config)
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}

	for _, cell := range result.cells {
		if err = store.StoreSeries(ctx, runID, cell, result.series[cell]); err != nil {
			return fmt.Errorf("storing %s: %w", cell.Label(), err)
		}
	}

	logger.Info("run archived",
		slog.String("tag", tag),
		slog.Int64("runID", runID),
		slog.String("path", config.Archive.Path))
	return nil
}
