package app

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	capWidth    = 0.08 // Half width of the error bar caps, in distance slots
	jitterWidth = 0.3  // Half width of the scatter cloud, in distance slots

	barWidth         = 2.0
	disjointBarWidth = 4.0
	meanDotWidth     = 6.0
	sampleDotWidth   = 2.0
)

var errNothingToPlot = errors.New("no intervals to plot")

// RenderConfig holds all configuration options for interval charts
type RenderConfig struct {
	Width  int
	Height int
	Theme  Theme

	Scatter     bool // Plot every sample behind its interval
	Annotations bool // Append the run information panel

	MinRSSI *float64 // Manual lower bound
	MaxRSSI *float64 // Manual upper bound
}

// IntervalRenderer draws one chart per group: the mean and confidence
// interval of every distance, with the maximum disjoint set drawn bold.
type IntervalRenderer struct {
	config    RenderConfig
	annotator *Annotator
}

func NewIntervalRenderer(config RenderConfig) (*IntervalRenderer, error) {
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.Theme == "" {
		config.Theme = ClassicTheme
	}

	r := &IntervalRenderer{config: config}
	if config.Annotations {
		annotator, err := NewAnnotator()
		if err != nil {
			return nil, fmt.Errorf("creating annotator: %w", err)
		}
		r.annotator = annotator
	}
	return r, nil
}

// Bounds returns the vertical range the chart of g is drawn with.
func (r *IntervalRenderer) Bounds(g *GroupSummary) RSSIBounds {
	tracker := NewBoundsTracker()
	for _, c := range g.Cells {
		tracker.Update(c.Interval.Lower(), c.Interval.Upper())
		if r.config.Scatter {
			tracker.Update(c.Values...)
		}
	}
	return tracker.Bounds().Override(r.config.MinRSSI, r.config.MaxRSSI)
}

func (r *IntervalRenderer) Render(g *GroupSummary, info RunInfo) (*image.RGBA, error) {
	if len(g.Cells) == 0 {
		return nil, errNothingToPlot
	}

	chartHeight := r.config.Height
	if r.annotator != nil {
		chartHeight -= PanelHeight()
	}

	ch := r.chart(g, chartHeight)

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	plot, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decoding chart: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, plot.Bounds(), plot, image.Point{}, draw.Over)

	if r.annotator != nil {
		if err = r.annotator.Annotate(img, info, g); err != nil {
			return nil, fmt.Errorf("annotating chart: %w", err)
		}
	}

	return img, nil
}

func (r *IntervalRenderer) chart(g *GroupSummary, height int) chart.Chart {
	colors := Palette(r.config.Theme, len(g.Cells))
	bounds := r.Bounds(g)

	ticks := make([]chart.Tick, len(g.Cells))
	var series []chart.Series
	for i, c := range g.Cells {
		x := float64(i + 1)
		ticks[i] = chart.Tick{Value: x, Label: c.Cell.Distance}

		if r.config.Scatter {
			series = append(series, scatterSeries(x, c.Values, colors[i]))
		}
		series = append(series, intervalSeries(x, c, colors[i])...)
	}

	return chart.Chart{
		Title:      fmt.Sprintf("%s: %d of %d distinguishable", g.Group.Title(), g.Distinguishable(), len(g.Cells)),
		Width:      r.config.Width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 30, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Distance",
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(g.Cells)) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           "RSSI (dBm)",
			Range:          &chart.ContinuousRange{Min: bounds.Min, Max: bounds.Max},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
		},
		Series: series,
	}
}

// intervalSeries draws the error bar with its caps and the mean dot.
func intervalSeries(x float64, c CellSummary, col drawing.Color) []chart.Series {
	width := barWidth
	if c.Disjoint {
		width = disjointBarWidth
	}
	bar := chart.Style{StrokeColor: col, StrokeWidth: width}
	lo, hi := c.Interval.Lower(), c.Interval.Upper()

	return []chart.Series{
		chart.ContinuousSeries{Style: bar, XValues: []float64{x, x}, YValues: []float64{lo, hi}},
		chart.ContinuousSeries{Style: bar, XValues: []float64{x - capWidth, x + capWidth}, YValues: []float64{lo, lo}},
		chart.ContinuousSeries{Style: bar, XValues: []float64{x - capWidth, x + capWidth}, YValues: []float64{hi, hi}},
		chart.ContinuousSeries{
			Name:    c.Cell.Distance,
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: meanDotWidth, DotColor: col},
			XValues: []float64{x},
			YValues: []float64{c.Interval.Center},
		},
	}
}

// scatterSeries spreads the samples of one distance evenly across its slot,
// in arrival order.
func scatterSeries(x float64, values []float64, col drawing.Color) chart.Series {
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = x
		if len(values) > 1 {
			xs[i] += -jitterWidth + 2*jitterWidth*float64(i)/float64(len(values)-1)
		}
	}

	return chart.ContinuousSeries{
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    sampleDotWidth,
			DotColor:    drawing.Color{R: col.R, G: col.G, B: col.B, A: sampleAlpha},
		},
		XValues: xs,
		YValues: values,
	}
}
