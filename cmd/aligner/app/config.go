package app

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ubc-systopia/pancast-code/internal/experiment"
	"github.com/ubc-systopia/pancast-code/internal/logformat"
	"github.com/ubc-systopia/pancast-code/internal/table"
	"github.com/ubc-systopia/pancast-code/internal/window"
)

const (
	// ProtocolPadded emits one time and one value column per cell, padded to the longest series
	ProtocolPadded Protocol = "padded"

	// ProtocolChronological emits one time column per group and one sample per row
	ProtocolChronological Protocol = "chronological"
)

var validProtocols = map[Protocol]struct{}{
	ProtocolPadded:        {},
	ProtocolChronological: {},
}

type Protocol string

func (p Protocol) String() string {
	return string(p)
}

// Config represents the main application configuration
type Config struct {
	Settings   Settings         `yaml:"settings" json:"settings"`
	Experiment ExperimentConfig `yaml:"experiment" json:"experiment"`
	Layout     LayoutConfig     `yaml:"layout" json:"layout"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	Archive    ArchiveConfig    `yaml:"archive" json:"archive"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel slog.Level `yaml:"logLevel" json:"logLevel"`
}

// ExperimentConfig enumerates the experiment and the window applied to each log
type ExperimentConfig struct {
	experiment.Config `yaml:",inline"`

	Window       Duration `yaml:"window" json:"window"`             // Default: 10m
	MaxMalformed int      `yaml:"maxMalformed" json:"maxMalformed"` // Per file, 0 means no limit
}

// Build returns the experiment configuration with the window applied.
func (c *ExperimentConfig) Build() *experiment.Config {
	cfg := c.Config
	cfg.Window = time.Duration(c.Window)
	if cfg.Window == 0 {
		cfg.Window = window.DefaultLength
	}
	return &cfg
}

// LayoutConfig selects a built-in layout by name or describes one explicitly
type LayoutConfig struct {
	Preset           string `yaml:"preset,omitempty" json:"preset,omitempty"`
	logformat.Layout `yaml:",inline"`
}

// Resolve returns the layout to parse logs with.
func (c *LayoutConfig) Resolve() (logformat.Layout, error) {
	if c.Preset != "" {
		return logformat.Preset(c.Preset)
	}
	return c.Layout, c.Layout.Validate()
}

// OutputConfig represents table output settings
type OutputConfig struct {
	Protocol  Protocol `yaml:"protocol" json:"protocol"`
	CSV       string   `yaml:"csv" json:"csv"`
	XLSX      string   `yaml:"xlsx,omitempty" json:"xlsx,omitempty"`
	Sheet     string   `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Precision *int     `yaml:"precision,omitempty" json:"precision,omitempty"` // Decimals for times, default 3
}

// ArchiveConfig represents the SQLite archive settings
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Tag     string `yaml:"tag,omitempty" json:"tag,omitempty"` // Default: a random UUID
}

// LoadConfig reads and validates the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	config := Config{
		Settings: Settings{LogLevel: slog.LevelInfo},
		Output:   OutputConfig{Protocol: ProtocolPadded},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Experiment.Window.Validate(); err != nil {
		return fmt.Errorf("experiment: invalid window: %w", err)
	}
	if c.Experiment.MaxMalformed < 0 {
		return fmt.Errorf("experiment: maxMalformed must not be negative: %d", c.Experiment.MaxMalformed)
	}
	if err := c.Experiment.Build().Validate(); err != nil {
		return fmt.Errorf("experiment: %w", err)
	}

	if _, err := c.Layout.Resolve(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	if _, ok := validProtocols[c.Output.Protocol]; !ok {
		protocols := make([]string, 0, len(validProtocols))
		for p := range validProtocols {
			protocols = append(protocols, p.String())
		}
		slices.Sort(protocols)
		return fmt.Errorf("output: invalid protocol %q, expected one of %v", c.Output.Protocol, protocols)
	}
	if c.Output.CSV == "" && c.Output.XLSX == "" {
		return fmt.Errorf("output: at least one of csv or xlsx is required")
	}
	if c.Output.Precision != nil && (*c.Output.Precision < 0 || *c.Output.Precision > 9) {
		return fmt.Errorf("output: precision must be between 0 and 9: %d given", *c.Output.Precision)
	}

	if c.Archive.Enabled && c.Archive.Path == "" {
		return fmt.Errorf("archive: path is required when enabled")
	}

	return nil
}

func (c *OutputConfig) precision() int {
	if c.Precision == nil {
		return table.DefaultPrecision
	}
	return *c.Precision
}
