package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ubc-systopia/pancast-code/internal/experiment"
	"github.com/ubc-systopia/pancast-code/internal/interval"
	"github.com/ubc-systopia/pancast-code/internal/storage"
)

// CellSummary is the confidence interval of one archived cell.
type CellSummary struct {
	Cell     experiment.Cell
	Values   []float64
	Interval interval.Interval
	Disjoint bool // Member of the group's maximum disjoint set
}

// GroupSummary holds the summaries of one source and condition, in distance order.
type GroupSummary struct {
	Group   experiment.Group
	Cells   []CellSummary
	Skipped []experiment.Cell // Cells with too few samples for an interval
}

// Distinguishable returns how many intervals of the group are pairwise disjoint.
func (g *GroupSummary) Distinguishable() int {
	var n int
	for _, c := range g.Cells {
		if c.Disjoint {
			n++
		}
	}
	return n
}

// Samples returns the number of samples behind the group's intervals.
func (g *GroupSummary) Samples() int {
	var n int
	for _, c := range g.Cells {
		n += len(c.Values)
	}
	return n
}

// Summarize computes an interval for every cell and marks the maximum
// disjoint set of each group. Groups keep the order in which they first appear.
func Summarize(cells []storage.CellSeries, z float64, logger *slog.Logger) ([]*GroupSummary, error) {
	var groups []*GroupSummary
	index := make(map[experiment.Group]*GroupSummary)

	for _, cs := range cells {
		g, ok := index[cs.Cell.Group()]
		if !ok {
			g = &GroupSummary{Group: cs.Cell.Group()}
			index[g.Group] = g
			groups = append(groups, g)
		}

		values := cs.Series.Values()
		iv, err := interval.Summarize(values, z)
		if errors.Is(err, interval.ErrInsufficientSamples) {
			logger.Warn("cell skipped",
				slog.String("cell", cs.Cell.Label()),
				slog.Int("samples", len(values)),
				slog.String("reason", err.Error()))
			g.Skipped = append(g.Skipped, cs.Cell)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("summarizing %s: %w", cs.Cell.Label(), err)
		}

		g.Cells = append(g.Cells, CellSummary{Cell: cs.Cell, Values: values, Interval: iv})
	}

	for _, g := range groups {
		g.markDisjoint()
	}
	return groups, nil
}

func (g *GroupSummary) markDisjoint() {
	intervals := make([]interval.Interval, len(g.Cells))
	for i, c := range g.Cells {
		intervals[i] = c.Interval
	}

	// Equal intervals are interchangeable, so each selected one claims the
	// first unclaimed cell that produced it.
	for _, selected := range interval.SelectDisjoint(intervals) {
		for i := range g.Cells {
			if !g.Cells[i].Disjoint && g.Cells[i].Interval == selected {
				g.Cells[i].Disjoint = true
				break
			}
		}
	}
}
