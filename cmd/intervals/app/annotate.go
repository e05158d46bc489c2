package app

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dpi      float64 = 72
	hinting  string  = "full"
	size     float64 = 14
	spacing  float64 = 1.3
	infoRows int     = 4

	panelMargin = 12
)

// RunInfo describes the archived run a chart was drawn from.
type RunInfo struct {
	Tag        string
	StartTime  time.Time
	Confidence float64
	Z          float64
}

type Annotator struct {
	context *freetype.Context
}

func NewAnnotator() (*Annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetFontSize(size)
	context.SetSrc(image.Black)

	switch hinting {
	case "full":
		context.SetHinting(font.HintingFull)
	default:
		context.SetHinting(font.HintingNone)
	}

	return &Annotator{context: context}, nil
}

// PanelHeight returns the height in pixels of the information panel.
func PanelHeight() int {
	rows := float64(infoRows) * size * spacing
	return int(rows) + 2*panelMargin
}

// Annotate draws the run information panel into the bottom PanelHeight
// pixels of img.
func (a *Annotator) Annotate(img *image.RGBA, info RunInfo, g *GroupSummary) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	top := img.Bounds().Max.Y - PanelHeight() + panelMargin + int(size)
	pt := freetype.Pt(panelMargin, top)
	for _, s := range infoLines(info, g) {
		if _, err := a.context.DrawString(s, pt); err != nil {
			return fmt.Errorf("drawing %q: %w", s, err)
		}
		pt.Y += a.context.PointToFixed(size * spacing)
	}

	return nil
}

func infoLines(info RunInfo, g *GroupSummary) []string {
	var distinct, skipped []string
	for _, c := range g.Cells {
		if c.Disjoint {
			distinct = append(distinct, c.Cell.Distance)
		}
	}
	for _, c := range g.Skipped {
		skipped = append(skipped, c.Distance)
	}

	lines := []string{
		fmt.Sprintf("Run: %s, archived %s (%s)", info.Tag, humanize.Time(info.StartTime), info.StartTime.Local().Format(time.DateTime)),
		fmt.Sprintf("Confidence: %s%% (z = %.3f)", humanize.FtoaWithDigits(info.Confidence*100, 2), info.Z),
		fmt.Sprintf("Samples: %s across %d distances", humanize.Comma(int64(g.Samples())), len(g.Cells)),
		fmt.Sprintf("Distinguishable: %d of %d [%s]", g.Distinguishable(), len(g.Cells), strings.Join(distinct, ", ")),
	}
	if len(skipped) > 0 {
		lines[2] += fmt.Sprintf(", too few samples at %s", strings.Join(skipped, ", "))
	}
	return lines
}
