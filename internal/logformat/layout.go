package logformat

import (
	"fmt"
	"slices"
	"strings"
)

// ValueRule describes where the telemetry value sits on a line.
//
// With a Marker, the value is the text following the marker up to the first
// Terminator (or the end of the line). Without one, the value is the token at
// position Field, negative positions counting from the end of the line. In both
// cases characters in Trim are stripped from either side before parsing.
type ValueRule struct {
	Marker     string `yaml:"marker,omitempty" json:"marker,omitempty"`
	Terminator string `yaml:"terminator,omitempty" json:"terminator,omitempty"`
	Field      int    `yaml:"field,omitempty" json:"field,omitempty"`
	Trim       string `yaml:"trim,omitempty" json:"trim,omitempty"`
}

// Layout is a declarative description of one log format variant.
type Layout struct {
	Name           string    `yaml:"name,omitempty" json:"name,omitempty"`
	Delimiter      string    `yaml:"delimiter,omitempty" json:"delimiter,omitempty"` // Empty means any run of whitespace
	TimestampField int       `yaml:"timestampField" json:"timestampField"`           // Token holding h:m:s, negative counts from the end
	Require        string    `yaml:"require,omitempty" json:"require,omitempty"`     // Lines without this substring are skipped
	Value          ValueRule `yaml:"value" json:"value"`
}

// Preset names.
const (
	PresetTelemetry = "telemetry"
	PresetFixed     = "fixed"
	PresetDongle    = "dongle"
)

var presets = map[string]Layout{
	// 2021-07-14 10:59:58.125 ... TELEMETRY: [-71, 3, ...]
	PresetTelemetry: {
		Name:           PresetTelemetry,
		TimestampField: 1,
		Value:          ValueRule{Marker: "TELEMETRY: [", Terminator: ","},
	},
	// 07-14 10:59:58.125  1234  1250 D Scanner: [-71]
	PresetFixed: {
		Name:           PresetFixed,
		TimestampField: 1,
		Value:          ValueRule{Field: 6, Trim: "[]"},
	},
	// [I] 0:10:48.125 3 ../src/dongle.c:685 :dongle_track: dongle_track -71
	PresetDongle: {
		Name:           PresetDongle,
		TimestampField: 1,
		Require:        "dongle_track",
		Value:          ValueRule{Field: -1},
	},
}

// Preset returns the named built-in layout.
func Preset(name string) (Layout, error) {
	l, ok := presets[name]
	if !ok {
		return Layout{}, newLayoutError("unknown layout preset %q, expected one of %s", name, strings.Join(PresetNames(), ", "))
	}
	return l, nil
}

// PresetNames returns the names of the built-in layouts in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate validates the layout.
func (l Layout) Validate() error {
	if l.Value.Marker == "" && l.Value.Terminator != "" {
		return newLayoutError("value terminator %q requires a marker", l.Value.Terminator)
	}
	if l.Value.Marker == "" && l.Value.Field == l.TimestampField {
		return newLayoutError("value field and timestamp field are both %d", l.TimestampField)
	}
	return nil
}

func (l Layout) String() string {
	if l.Name != "" {
		return l.Name
	}
	if l.Value.Marker != "" {
		return fmt.Sprintf("timestamp@%d value after %q", l.TimestampField, l.Value.Marker)
	}
	return fmt.Sprintf("timestamp@%d value@%d", l.TimestampField, l.Value.Field)
}

func (l Layout) split(line string) []string {
	if l.Delimiter == "" {
		return strings.Fields(line)
	}
	tokens := strings.Split(line, l.Delimiter)
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	return tokens
}
