package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
settings:
  logLevel: debug
experiment:
  sources: [samsung]
  conditions: [4db, minus10db]
  distances: [1.0m, 2.0m]
  window: 5m
  pathTemplate: logs/{source}/{condition}/raw_{distance}.txt
  maxMalformed: 10
layout:
  preset: telemetry
output:
  protocol: chronological
  csv: processed_data.csv
  xlsx: processed_data.xlsx
  precision: 2
archive:
  enabled: true
  path: archive.db
`

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, config.Settings.LogLevel)
	assert.Equal(t, []string{"samsung"}, config.Experiment.Sources)
	assert.Equal(t, []string{"4db", "minus10db"}, config.Experiment.Conditions)
	assert.Equal(t, Duration(5*time.Minute), config.Experiment.Window)
	assert.Equal(t, 10, config.Experiment.MaxMalformed)
	assert.Equal(t, ProtocolChronological, config.Output.Protocol)
	assert.Equal(t, 2, config.Output.precision())
	assert.True(t, config.Archive.Enabled)

	exp := config.Experiment.Build()
	assert.Equal(t, 5*time.Minute, exp.Window)
	assert.Len(t, exp.Cells(), 4)

	layout, err := config.Layout.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "TELEMETRY: [", layout.Value.Marker)
}

func TestParseConfig_Defaults(t *testing.T) {
	config, err := ParseConfig([]byte(`
experiment:
  conditions: [4db]
  distances: [1m]
  pathTemplate: raw.txt
layout:
  timestampField: 1
  value:
    field: -1
output:
  csv: out.csv
`))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelInfo, config.Settings.LogLevel)
	assert.Equal(t, ProtocolPadded, config.Output.Protocol)
	assert.Equal(t, 3, config.Output.precision())
	assert.Equal(t, 10*time.Minute, config.Experiment.Build().Window)

	layout, err := config.Layout.Resolve()
	require.NoError(t, err)
	assert.Equal(t, -1, layout.Value.Field)
}

func TestParseConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "experiment: ["},
		{"bad window", "experiment:\n  window: soon\n"},
		{"no conditions", "experiment:\n  distances: [1m]\n  pathTemplate: x\noutput:\n  csv: a.csv\n"},
		{"unknown preset", "experiment:\n  conditions: [a]\n  distances: [1m]\n  pathTemplate: x\nlayout:\n  preset: nope\noutput:\n  csv: a.csv\n"},
		{"bad protocol", "experiment:\n  conditions: [a]\n  distances: [1m]\n  pathTemplate: x\nlayout:\n  preset: fixed\noutput:\n  protocol: zigzag\n  csv: a.csv\n"},
		{"no output", "experiment:\n  conditions: [a]\n  distances: [1m]\n  pathTemplate: x\nlayout:\n  preset: fixed\n"},
		{"archive without path", "experiment:\n  conditions: [a]\n  distances: [1m]\n  pathTemplate: x\nlayout:\n  preset: fixed\noutput:\n  csv: a.csv\narchive:\n  enabled: true\n"},
		{"short window", "experiment:\n  conditions: [a]\n  distances: [1m]\n  pathTemplate: x\n  window: 10ms\nlayout:\n  preset: fixed\noutput:\n  csv: a.csv\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aligner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "archive.db", config.Archive.Path)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDuration_String(t *testing.T) {
	assert.Equal(t, "10m", Duration(10*time.Minute).String())
	assert.Equal(t, "1h", Duration(time.Hour).String())
	assert.Equal(t, "90s", Duration(90*time.Second).String())
	assert.Equal(t, "0s", Duration(0).String())
}
