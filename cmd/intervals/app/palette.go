package app

import (
	"math"
	"slices"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Theme names a predefined palette for distance series. Each theme spreads
// the distances of a group evenly across its range.
type Theme string

const (
	ClassicTheme   Theme = "classic"   // Blue to red transition
	GrayscaleTheme Theme = "grayscale" // Dark gray to light gray transition
	MarineTheme    Theme = "marine"    // Deep blue to cyan transition

	sampleAlpha = 90 // Alpha of scatter dots, out of 255
)

var themes = map[Theme]func(float64) drawing.Color{
	ClassicTheme: func(f float64) drawing.Color {
		return HSV{H: 240 - (f * 240), S: 0.85, V: 0.85}.RGB()
	},
	GrayscaleTheme: func(f float64) drawing.Color {
		v := uint8((0.15 + f*0.55) * 255)
		return drawing.Color{R: v, G: v, B: v, A: 255}
	},
	MarineTheme: func(f float64) drawing.Color {
		return HSV{H: 240 - (f * 60), S: 1.0 - (f * 0.6), V: 0.45 + (math.Pow(f, 0.6) * 0.45)}.RGB()
	},
}

// ThemeNames returns the known theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for t := range themes {
		names = append(names, string(t))
	}
	slices.Sort(names)
	return names
}

// Palette returns n colors of theme, one per distance. Unknown themes fall
// back to ClassicTheme.
func Palette(theme Theme, n int) []drawing.Color {
	fn, ok := themes[theme]
	if !ok {
		fn = themes[ClassicTheme]
	}

	colors := make([]drawing.Color, n)
	for i := range colors {
		var f float64
		if n > 1 {
			f = float64(i) / float64(n-1)
		}
		colors[i] = fn(f)
	}
	return colors
}

// HSV represents a color in HSV (Hue, Saturation, Value) color space
type HSV struct {
	H float64 // Hue angle in degrees [0-360]
	S float64 // Saturation [0-1]
	V float64 // Value/Brightness [0-1]
}

// RGB converts HSV to an opaque chart color
func (hsv HSV) RGB() drawing.Color {
	if hsv.S <= 0.0 {
		v := uint8(hsv.V * 255)
		return drawing.Color{R: v, G: v, B: v, A: 255}
	}

	h := math.Mod(hsv.H, 360)
	if h < 0 {
		h += 360
	}
	h /= 60

	i := int(h)
	f := h - float64(i)

	v := uint8(hsv.V * 255)
	p := uint8((hsv.V * (1 - hsv.S)) * 255)
	q := uint8((hsv.V * (1 - (hsv.S * f))) * 255)
	t := uint8((hsv.V * (1 - (hsv.S * (1 - f)))) * 255)

	switch i {
	case 0:
		return drawing.Color{R: v, G: t, B: p, A: 255}
	case 1:
		return drawing.Color{R: q, G: v, B: p, A: 255}
	case 2:
		return drawing.Color{R: p, G: v, B: t, A: 255}
	case 3:
		return drawing.Color{R: p, G: q, B: v, A: 255}
	case 4:
		return drawing.Color{R: t, G: p, B: v, A: 255}
	default:
		return drawing.Color{R: v, G: p, B: q, A: 255}
	}
}
