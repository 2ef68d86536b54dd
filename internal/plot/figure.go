// Package plot renders x/y line charts and sends them to a file or the terminal.
package plot

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"vaspio/internal/theme"
)

// Margins around the plotting area, in pixels
const (
	marginLeft   = 80.0
	marginRight  = 24.0
	marginTop    = 20.0
	marginBottom = 50.0

	tickCount  = 6
	tickLength = 5.0
)

var ErrLengthMismatch = errors.New("x and y series differ in length")

// Series is one line of a chart
type Series struct {
	X      []float64
	Y      []float64
	XLabel string
	YLabel string
}

// Figure is a rendered chart. Path is set once the figure has been saved.
type Figure struct {
	Image  image.Image
	XLabel string
	YLabel string
	Path   string
}

// FileName returns the file name a saved figure uses, e.g. "E0_vs_step.png"
func FileName(yLabel, xLabel string) string {
	return fmt.Sprintf("%s_vs_%s.png", yLabel, xLabel)
}

// Render draws s as a line chart of the configured size
func Render(s Series, opts Options, colors theme.PlotColors) (*Figure, error) {
	if len(s.X) != len(s.Y) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(s.X), len(s.Y))
	}
	if float64(opts.Width) <= marginLeft+marginRight || float64(opts.Height) <= marginTop+marginBottom {
		return nil, fmt.Errorf("figure size %dx%d is too small", opts.Width, opts.Height)
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(theme.RGBA(colors.Background))
	dc.Clear()

	pw := float64(opts.Width) - marginLeft - marginRight
	ph := float64(opts.Height) - marginTop - marginBottom

	xt := niceTicks(finiteBounds(s.X))
	yt := niceTicks(finiteBounds(s.Y))
	xmin, xmax := xt[0], xt[len(xt)-1]
	ymin, ymax := yt[0], yt[len(yt)-1]

	toX := func(v float64) float64 { return marginLeft + (v-xmin)/(xmax-xmin)*pw }
	toY := func(v float64) float64 { return marginTop + ph - (v-ymin)/(ymax-ymin)*ph }

	// Grid and tick labels
	dc.SetLineWidth(1)
	for _, v := range xt {
		x := toX(v)
		dc.SetColor(theme.RGBA(colors.Grid))
		dc.DrawLine(x, marginTop, x, marginTop+ph)
		dc.Stroke()
		dc.SetColor(theme.RGBA(colors.Axis))
		dc.DrawLine(x, marginTop+ph, x, marginTop+ph+tickLength)
		dc.Stroke()
		dc.SetColor(theme.RGBA(colors.Text))
		dc.DrawStringAnchored(formatTick(v), x, marginTop+ph+tickLength+2, 0.5, 1)
	}
	for _, v := range yt {
		y := toY(v)
		dc.SetColor(theme.RGBA(colors.Grid))
		dc.DrawLine(marginLeft, y, marginLeft+pw, y)
		dc.Stroke()
		dc.SetColor(theme.RGBA(colors.Axis))
		dc.DrawLine(marginLeft-tickLength, y, marginLeft, y)
		dc.Stroke()
		dc.SetColor(theme.RGBA(colors.Text))
		dc.DrawStringAnchored(formatTick(v), marginLeft-tickLength-3, y, 1, 0.5)
	}

	dc.SetColor(theme.RGBA(colors.Axis))
	dc.DrawRectangle(marginLeft, marginTop, pw, ph)
	dc.Stroke()

	// Data; non-finite points break the line
	dc.SetColor(theme.RGBA(colors.Line))
	dc.SetLineWidth(opts.LineWidth)
	penDown := false
	points := 0
	for i := range s.X {
		if !finite(s.X[i]) || !finite(s.Y[i]) {
			penDown = false
			continue
		}
		x, y := toX(s.X[i]), toY(s.Y[i])
		if penDown {
			dc.LineTo(x, y)
		} else {
			dc.MoveTo(x, y)
			penDown = true
		}
		points++
	}
	dc.Stroke()
	if points == 1 {
		for i := range s.X {
			if finite(s.X[i]) && finite(s.Y[i]) {
				dc.DrawCircle(toX(s.X[i]), toY(s.Y[i]), opts.LineWidth+1)
				dc.Fill()
			}
		}
	}

	// Axis labels
	dc.SetColor(theme.RGBA(colors.Text))
	dc.DrawStringAnchored(s.XLabel, marginLeft+pw/2, float64(opts.Height)-12, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(-math.Pi/2, 14, marginTop+ph/2)
	dc.DrawStringAnchored(s.YLabel, 14, marginTop+ph/2, 0.5, 0.5)
	dc.Pop()

	return &Figure{
		Image:  dc.Image(),
		XLabel: s.XLabel,
		YLabel: s.YLabel,
	}, nil
}

// finiteBounds returns the min and max over finite values, or 0, 1 when
// there are none
func finiteBounds(values []float64) (float64, float64, int) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !finite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 1, tickCount
	}
	return lo, hi, tickCount
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
