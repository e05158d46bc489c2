package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ubc-systopia/pancast-code/internal/interval"
	"github.com/ubc-systopia/pancast-code/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer closeStore(store, logger)

	return plotIntervals(ctx, store, config, logger)
}

func closeStore(store io.Closer, logger *slog.Logger) {
	if err := store.Close(); err != nil {
		logger.Error(fmt.Sprintf("failed to close archive: %s", err.Error()))
	}
}

func findRun(ctx context.Context, store *storage.SqliteStore, tag string) (*storage.Run, error) {
	if tag != "" {
		return store.RunByTag(ctx, tag)
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, errors.New("the archive holds no runs")
	}
	return runs[len(runs)-1], nil
}

func plotIntervals(ctx context.Context, store *storage.SqliteStore, config *Config, logger *slog.Logger) error {
	run, err := findRun(ctx, store, config.RunTag)
	if err != nil {
		return fmt.Errorf("finding run: %w", err)
	}

	z, err := interval.ZForConfidence(config.Confidence)
	if err != nil {
		return err
	}

	logger.Info("reading run",
		slog.String("tag", run.Tag),
		slog.Int64("runID", run.ID),
		slog.String("archived", humanize.Time(run.StartTime)))

	reader, err := store.ReadSeries(ctx, run.ID)
	if err != nil {
		return err
	}
	defer reader.Close()

	cells, err := storage.ReadAll(ctx, reader)
	if err != nil {
		return err
	}

	groups, err := Summarize(cells, z, logger)
	if err != nil {
		return err
	}

	renderer, err := NewIntervalRenderer(RenderConfig{
		Width:       config.Width,
		Height:      config.Height,
		Theme:       config.Theme,
		Scatter:     config.Scatter,
		Annotations: !config.NoAnnotations,
		MinRSSI:     config.MinRSSI,
		MaxRSSI:     config.MaxRSSI,
	})
	if err != nil {
		return fmt.Errorf("creating interval renderer: %w", err)
	}

	if err = os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return err
	}

	info := RunInfo{Tag: run.Tag, StartTime: run.StartTime, Confidence: config.Confidence, Z: z}
	for _, g := range groups {
		if err = ctx.Err(); err != nil {
			return err
		}

		for _, c := range g.Cells {
			logger.Debug("interval",
				slog.String("cell", c.Cell.Label()),
				slog.Int("samples", len(c.Values)),
				slog.Float64("mean", c.Interval.Center),
				slog.Float64("lower", c.Interval.Lower()),
				slog.Float64("upper", c.Interval.Upper()),
				slog.Bool("disjoint", c.Disjoint))
		}

		logger.Info("group summarized",
			slog.String("group", g.Group.Label()),
			slog.Int("distances", len(g.Cells)),
			slog.Int("skipped", len(g.Skipped)),
			slog.Int("distinguishable", g.Distinguishable()),
			slog.String("samples", humanize.Comma(int64(g.Samples()))))

		img, err := renderer.Render(g, info)
		if errors.Is(err, errNothingToPlot) {
			logger.Warn("chart skipped", slog.String("group", g.Group.Label()), slog.String("reason", err.Error()))
			continue
		}
		if err != nil {
			return fmt.Errorf("rendering %s: %w", g.Group.Label(), err)
		}

		path := outputPath(config, g)
		if err = writeImage(path, img, config.Format); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		logger.Info("chart written",
			slog.Group("image",
				slog.String("destination", path),
				slog.String("format", string(config.Format)),
				slog.String("theme", string(config.Theme)),
				slog.Int("width", config.Width),
				slog.Int("height", config.Height),
			))
	}

	return nil
}

func outputPath(config *Config, g *GroupSummary) string {
	name := strings.Map(func(r rune) rune {
		if r == os.PathSeparator || r == ' ' {
			return '_'
		}
		return r
	}, g.Group.Label())
	return filepath.Join(config.OutputDir, fmt.Sprintf("%s.%s", name, config.Format))
}

func writeImage(path string, img image.Image, format ImageFormat) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	switch format {
	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})

	default:
		err = png.Encode(out, img)
	}
	return err
}
