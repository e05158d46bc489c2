package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"

	defaultConfidence = 0.95
	defaultWidth      = 1280
	defaultHeight     = 720
)

type ImageFormat string

type Config struct {
	DBPath        string
	RunTag        string // Empty selects the latest run
	OutputDir     string
	Format        ImageFormat
	Confidence    float64
	Theme         Theme
	MinRSSI       *float64
	MaxRSSI       *float64
	Width         int
	Height        int
	Verbose       bool
	NoAnnotations bool
	Scatter       bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format:     ImagePNG,
		Confidence: defaultConfidence,
		Theme:      ClassicTheme,
		Width:      defaultWidth,
		Height:     defaultHeight,
	}
}

func NewConfigFromCLI() (*Config, error) {
	return ParseFlags(flag.CommandLine, os.Args[1:])
}

// ParseFlags registers the tool's flags on fs and parses args into a Config.
func ParseFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	c := NewConfig()

	var imageFormat, theme string
	var minRSSI, maxRSSI float64
	fs.StringVar(&c.DBPath, "db", "", "Path to the archive database file")
	fs.StringVar(&c.RunTag, "run", "", "Run tag (default: the latest run)")
	fs.StringVar(&c.OutputDir, "o", "", "Directory to write the charts to")
	fs.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	fs.Float64Var(&c.Confidence, "confidence", defaultConfidence, "Confidence level of the intervals, in (0, 1)")
	fs.StringVar(&theme, "theme", string(ClassicTheme), fmt.Sprintf("Color theme. %v", ThemeNames()))
	fs.Float64Var(&minRSSI, "min-rssi", 0, "Define a manual lower chart bound (format nn.n)")
	fs.Float64Var(&maxRSSI, "max-rssi", 0, "Define a manual upper chart bound (format nn.n)")
	fs.IntVar(&c.Width, "width", defaultWidth, "Chart width in pixels")
	fs.IntVar(&c.Height, "height", defaultHeight, "Chart height in pixels")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	fs.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable the run information panel")
	fs.BoolVar(&c.Scatter, "scatter", false, "Plot every sample behind the intervals")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	imageFormat = strings.ToLower(imageFormat)
	theme = strings.ToLower(theme)

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "min-rssi" {
			c.MinRSSI = &minRSSI
		}
		if f.Name == "max-rssi" {
			c.MaxRSSI = &maxRSSI
		}
	})

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.OutputDir == "" {
		err = errors.New("output directory is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if !slices.Contains(ThemeNames(), theme) {
		err = fmt.Errorf("invalid theme: %s", theme)
	} else if !(c.Confidence > 0 && c.Confidence < 1) {
		err = fmt.Errorf("confidence must be in (0, 1): %v", c.Confidence)
	} else if c.MinRSSI != nil && c.MaxRSSI != nil && *c.MinRSSI >= *c.MaxRSSI {
		err = fmt.Errorf("min-rssi must be below max-rssi: %.1f >= %.1f", *c.MinRSSI, *c.MaxRSSI)
	} else if c.Width < 320 || c.Height < 240 {
		err = fmt.Errorf("chart must be at least 320x240 pixels: %dx%d given", c.Width, c.Height)
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.Theme = Theme(theme)
	return c, nil
}
