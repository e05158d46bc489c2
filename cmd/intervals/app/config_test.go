package app

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(args ...string) (*Config, error) {
	fs := flag.NewFlagSet("intervals", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return ParseFlags(fs, args)
}

func TestParseFlags(t *testing.T) {
	c, err := parse("-db", "archive.db", "-o", "charts", "-f", "JPEG", "-run", "walls",
		"-confidence", "0.99", "-theme", "marine", "-min-rssi", "-100", "-scatter")
	require.NoError(t, err)

	assert.Equal(t, "archive.db", c.DBPath)
	assert.Equal(t, "charts", c.OutputDir)
	assert.Equal(t, ImageFormat(ImageJPEG), c.Format)
	assert.Equal(t, "walls", c.RunTag)
	assert.Equal(t, 0.99, c.Confidence)
	assert.Equal(t, MarineTheme, c.Theme)
	require.NotNil(t, c.MinRSSI)
	assert.Equal(t, -100.0, *c.MinRSSI)
	assert.Nil(t, c.MaxRSSI)
	assert.True(t, c.Scatter)
	assert.False(t, c.NoAnnotations)
}

func TestParseFlags_Defaults(t *testing.T) {
	c, err := parse("-db", "archive.db", "-o", "charts")
	require.NoError(t, err)

	assert.Equal(t, ImageFormat(ImagePNG), c.Format)
	assert.Equal(t, defaultConfidence, c.Confidence)
	assert.Equal(t, ClassicTheme, c.Theme)
	assert.Empty(t, c.RunTag)
	assert.Equal(t, defaultWidth, c.Width)
}

func TestParseFlags_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"no db", []string{"-o", "charts"}},
		{"no output", []string{"-db", "a.db"}},
		{"format", []string{"-db", "a.db", "-o", "c", "-f", "gif"}},
		{"theme", []string{"-db", "a.db", "-o", "c", "-theme", "neon"}},
		{"confidence", []string{"-db", "a.db", "-o", "c", "-confidence", "1"}},
		{"bounds", []string{"-db", "a.db", "-o", "c", "-min-rssi", "-40", "-max-rssi", "-60"}},
		{"size", []string{"-db", "a.db", "-o", "c", "-width", "100"}},
		{"unknown flag", []string{"-db", "a.db", "-o", "c", "-s", "1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(tc.args...)
			assert.Error(t, err)
		})
	}
}
