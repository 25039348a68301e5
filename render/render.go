// Package render draws plotted series as PNG or SVG images with go-chart.
package render

import (
	"io"
	"math"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/zephyrtronium/mathlab/plot"
	"github.com/zephyrtronium/mathlab/sample"
)

// Format is an image format.
type Format int

const (
	PNG Format = iota
	SVG
)

// ParseFormat returns the format with the given name, "png" or "svg".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	}
	return PNG, errors.Errorf("unknown image format %q", name)
}

func (f Format) String() string {
	if f == SVG {
		return "svg"
	}
	return "png"
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Default image size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 600
)

// Theme colors.
var (
	background = drawing.ColorFromHex("1e1e1e")
	textColor  = drawing.ColorFromHex("f5f5f5")
	tickColor  = drawing.ColorFromHex("bbbbbb")
	gridColor  = drawing.ColorWhite.WithAlpha(0x1a)
)

// Options configure charts. Zero values select defaults.
type Options struct {
	Width  int
	Height int
	Log    logrus.FieldLogger
}

// ErrDestroyed is returned when rendering a chart after Destroy.
var ErrDestroyed = errors.New("chart destroyed")

// Chart is a plot.Display that renders its series on demand. It is not safe
// for concurrent use.
type Chart struct {
	opts      Options
	series    *plot.Series
	destroyed bool
}

var _ plot.Display = (*Chart)(nil)

// New returns a display factory for a plot.Session.
func New(opts Options) plot.NewDisplay {
	return func(s *plot.Series) (plot.Display, error) {
		return NewChart(s, opts)
	}
}

// NewChart creates a chart showing s.
func NewChart(s *plot.Series, opts Options) (*Chart, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	c := &Chart{opts: opts}
	if err := c.Update(s); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the series shown by the chart.
func (c *Chart) Update(s *plot.Series) error {
	if c.destroyed {
		return ErrDestroyed
	}
	if s == nil {
		return errors.New("no series to show")
	}
	c.series = s
	return nil
}

// Destroy drops the chart's data.
func (c *Chart) Destroy() {
	c.series = nil
	c.destroyed = true
}

// Series returns the series the chart shows, or nil after Destroy.
func (c *Chart) Series() *plot.Series {
	return c.series
}

// Render writes the chart as an image.
func (c *Chart) Render(w io.Writer, f Format) error {
	if c.destroyed {
		return ErrDestroyed
	}
	ch := Build(c.series, c.opts.Width, c.opts.Height)
	if err := ch.Render(f.provider(), w); err != nil {
		return errors.Wrapf(err, "rendering %s", f)
	}
	c.opts.Log.WithFields(logrus.Fields{
		"format":   f,
		"segments": len(ch.Series),
	}).Debug("rendered chart")
	return nil
}

// Build lays out a series as a go-chart chart. Each run of consecutive
// non-gap points becomes its own line so that gaps break the curve.
func Build(s *plot.Series, width, height int) chart.Chart {
	color := drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#"))
	line := chart.Style{
		StrokeColor: color,
		StrokeWidth: 3,
		FillColor:   color.WithAlpha(0x20),
	}
	lo, hi := YRange(s.Points)
	var series []chart.Series
	for _, run := range Segments(s.Points) {
		st := line
		if len(run) == 1 {
			st.DotWidth = 2
			st.DotColor = color
		}
		cs := chart.ContinuousSeries{
			Name:    s.Label,
			Style:   st,
			XValues: make([]float64, len(run)),
			YValues: make([]float64, len(run)),
		}
		for i, p := range run {
			cs.XValues[i] = p.X
			cs.YValues[i] = math.Max(lo, math.Min(p.Y, hi))
		}
		series = append(series, cs)
	}
	if len(series) == 0 {
		// go-chart refuses to draw without a visible series, so an empty plot
		// gets a transparent one.
		series = append(series, chart.ContinuousSeries{
			Style: chart.Style{
				StrokeColor: drawing.ColorTransparent,
				FillColor:   drawing.ColorTransparent,
			},
			XValues: []float64{s.Range.Min, s.Range.Max},
			YValues: []float64{0, 0},
		})
	}
	axis := chart.Style{FontColor: tickColor, StrokeColor: tickColor}
	grid := chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	return chart.Chart{
		Title:      s.Label,
		TitleStyle: chart.Style{FontColor: textColor, FontSize: 14},
		Width:      width,
		Height:     height,
		Background: chart.Style{
			FillColor: background,
			Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: background},
		XAxis: chart.XAxis{
			Name:           "X axis",
			NameStyle:      chart.Style{FontColor: tickColor},
			Style:          axis,
			Range:          &chart.ContinuousRange{Min: s.Range.Min, Max: s.Range.Max},
			ValueFormatter: formatTick,
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           "Y axis",
			NameStyle:      chart.Style{FontColor: tickColor},
			Style:          axis,
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: formatTick,
			GridMajorStyle: grid,
		},
		Series: series,
	}
}

func formatTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return plot.Label(f)
	}
	return ""
}

// Segments splits points into runs of consecutive non-gap points.
func Segments(pts []sample.Point) [][]sample.Point {
	var runs [][]sample.Point
	start := -1
	for i, p := range pts {
		switch {
		case p.Gap() && start >= 0:
			runs = append(runs, pts[start:i])
			start = -1
		case !p.Gap() && start < 0:
			start = i
		}
	}
	if start >= 0 {
		runs = append(runs, pts[start:])
	}
	return runs
}

// YRange returns the y-axis bounds for points: the extent of the finite
// values with 5% padding. A flat curve is padded by 5% of its value but at
// least 1, and a curve with no values uses [-1, 1]. Values beyond
// ±MaxFloat64/4 count as that limit.
func YRange(pts []sample.Point) (lo, hi float64) {
	ys := make(stats.Float64Data, 0, len(pts))
	for _, p := range pts {
		if !p.Gap() && !math.IsInf(p.Y, 0) {
			ys = append(ys, p.Y)
		}
	}
	if len(ys) == 0 {
		return -1, 1
	}
	// Min and Max only fail on empty input.
	lo, _ = stats.Min(ys)
	hi, _ = stats.Max(ys)
	lo, hi = clampY(lo), clampY(hi)
	pad := hi*0.05 - lo*0.05
	if lo == hi {
		pad = math.Max(1, math.Abs(lo)*0.05)
	}
	return lo - pad, hi + pad
}

// yLimit bounds the plotted y values so that the padded axis extent is finite.
const yLimit = math.MaxFloat64 / 4

func clampY(y float64) float64 {
	return math.Max(-yLimit, math.Min(y, yLimit))
}
