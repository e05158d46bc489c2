package experiment

import (
	"fmt"
	"strings"
	"time"

	"github.com/ubc-systopia/pancast-code/internal/timestamp"
	"github.com/ubc-systopia/pancast-code/internal/window"
)

// Path template placeholders.
const (
	SourcePlaceholder    = "{source}"
	ConditionPlaceholder = "{condition}"
	DistancePlaceholder  = "{distance}"
)

// Segment bounds the part of a condition log recorded at one distance.
type Segment struct {
	Start string `yaml:"start" json:"start"` // h:m:s
	End   string `yaml:"end" json:"end"`     // h:m:s
}

// Window returns the segment bounds as a window.
func (s Segment) Window() (window.Window, error) {
	start, err := timestamp.Parse(s.Start)
	if err != nil {
		return window.Window{}, fmt.Errorf("segment start: %w", err)
	}
	end, err := timestamp.Parse(s.End)
	if err != nil {
		return window.Window{}, fmt.Errorf("segment end: %w", err)
	}
	return window.Between(start, end)
}

// Config enumerates an experiment: which sources, conditions and distances were
// recorded, and where their logs live. The order of every list is the column
// order of the resulting tables.
type Config struct {
	Sources      []string             `yaml:"sources,omitempty" json:"sources,omitempty"`
	Conditions   []string             `yaml:"conditions" json:"conditions"`
	Distances    []string             `yaml:"distances" json:"distances"`
	Window       time.Duration        `yaml:"-" json:"-"`
	PathTemplate string               `yaml:"pathTemplate" json:"pathTemplate"`
	Segments     map[string][]Segment `yaml:"segments,omitempty" json:"segments,omitempty"` // Condition -> one segment per distance
}

// Groups enumerates source -> condition.
func (c *Config) Groups() []Group {
	sources := c.Sources
	if len(sources) == 0 {
		sources = []string{""}
	}

	groups := make([]Group, 0, len(sources)*len(c.Conditions))
	for _, source := range sources {
		for _, condition := range c.Conditions {
			groups = append(groups, Group{Source: source, Condition: condition})
		}
	}
	return groups
}

// Cells enumerates source -> condition -> distance.
func (c *Config) Cells() []Cell {
	groups := c.Groups()

	cells := make([]Cell, 0, len(groups)*len(c.Distances))
	for _, g := range groups {
		for _, distance := range c.Distances {
			cells = append(cells, g.Cell(distance))
		}
	}
	return cells
}

// Segmented reports whether the logs hold every distance of a condition in one file.
func (c *Config) Segmented() bool {
	return len(c.Segments) > 0
}

// Path expands the path template for cell. For segmented experiments the
// distance is usually absent from the template.
func (c *Config) Path(cell Cell) string {
	r := strings.NewReplacer(
		SourcePlaceholder, cell.Source,
		ConditionPlaceholder, cell.Condition,
		DistancePlaceholder, cell.Distance,
	)
	return r.Replace(c.PathTemplate)
}

// SegmentWindows returns the per-distance bounds of condition, in distance order.
func (c *Config) SegmentWindows(condition string) ([]window.Window, error) {
	segments, ok := c.Segments[condition]
	if !ok {
		return nil, fmt.Errorf("no segments for condition %q", condition)
	}

	windows := make([]window.Window, len(segments))
	for i, s := range segments {
		w, err := s.Window()
		if err != nil {
			return nil, fmt.Errorf("condition %q, segment %d: %w", condition, i+1, err)
		}
		windows[i] = w
	}
	return windows, nil
}

// Validate validates the experiment enumeration.
func (c *Config) Validate() error {
	if len(c.Conditions) == 0 {
		return fmt.Errorf("at least one condition is required")
	}
	if len(c.Distances) == 0 {
		return fmt.Errorf("at least one distance is required")
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive: %s", c.Window)
	}
	if c.PathTemplate == "" {
		return fmt.Errorf("path template is required")
	}
	if len(c.Sources) > 1 && !strings.Contains(c.PathTemplate, SourcePlaceholder) {
		return fmt.Errorf("path template must contain %s with more than one source", SourcePlaceholder)
	}
	if len(c.Conditions) > 1 && !strings.Contains(c.PathTemplate, ConditionPlaceholder) {
		return fmt.Errorf("path template must contain %s with more than one condition", ConditionPlaceholder)
	}
	if !c.Segmented() && len(c.Distances) > 1 && !strings.Contains(c.PathTemplate, DistancePlaceholder) {
		return fmt.Errorf("path template must contain %s with more than one distance", DistancePlaceholder)
	}

	for _, list := range []struct {
		name   string
		values []string
	}{
		{"source", c.Sources},
		{"condition", c.Conditions},
		{"distance", c.Distances},
	} {
		seen := make(map[string]struct{}, len(list.values))
		for _, v := range list.values {
			if v == "" {
				return fmt.Errorf("empty %s label", list.name)
			}
			if _, ok := seen[v]; ok {
				return fmt.Errorf("duplicate %s label %q", list.name, v)
			}
			seen[v] = struct{}{}
		}
	}

	if c.Segmented() {
		for _, condition := range c.Conditions {
			segments, ok := c.Segments[condition]
			if !ok {
				return fmt.Errorf("no segments for condition %q", condition)
			}
			if len(segments) != len(c.Distances) {
				return fmt.Errorf("condition %q has %d segments for %d distances", condition, len(segments), len(c.Distances))
			}
			if _, err := c.SegmentWindows(condition); err != nil {
				return err
			}
		}
	}

	return nil
}
