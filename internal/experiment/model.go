package experiment

import (
	"strings"
)

// Cell identifies one series: a source device, an experimental condition and
// a distance. Source may be empty when a run has a single unnamed source.
type Cell struct {
	Source    string `json:"source,omitempty"` // Phone model or log folder (e.g., "samsung")
	Condition string `json:"condition"`        // Condition label (e.g., "minus10db")
	Distance  string `json:"distance"`         // Distance label (e.g., "2.0m")
}

// Group returns the group the cell belongs to.
func (c Cell) Group() Group {
	return Group{Source: c.Source, Condition: c.Condition}
}

// Label returns the non-empty identifiers joined with "_".
func (c Cell) Label() string {
	return join("_", c.Source, c.Condition, c.Distance)
}

// TimeHeader is the column label of the cell's time axis in a padded table.
func (c Cell) TimeHeader() string {
	return c.Label() + "_time"
}

// ValueHeader is the column label of the cell's RSSI values in a padded table.
func (c Cell) ValueHeader() string {
	return c.Label() + "_rssi"
}

// Group identifies the distances measured under one condition on one source.
type Group struct {
	Source    string `json:"source,omitempty"`
	Condition string `json:"condition"`
}

// Label returns the non-empty identifiers joined with "_".
func (g Group) Label() string {
	return join("_", g.Source, g.Condition)
}

// Title is the human-readable group name used in chronological headers and charts.
func (g Group) Title() string {
	return join(" ", g.Source, g.Condition)
}

// Cell returns the cell of the group at distance.
func (g Group) Cell(distance string) Cell {
	return Cell{Source: g.Source, Condition: g.Condition, Distance: distance}
}

// TimeHeader is the shared time column label of the group in a chronological table.
func (g Group) TimeHeader() string {
	return g.Title() + " Time (s)"
}

// ValueHeader is the column label of one distance in a chronological table.
func (g Group) ValueHeader(distance string) string {
	return g.Title() + " RSSI " + distance + " (dBm)"
}

func join(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
