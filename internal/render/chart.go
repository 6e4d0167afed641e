package render

import (
	"bytes"
	"errors"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/preston-bernstein/nba-shot-charts/internal/court"
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
)

// ErrNoShots is returned when there is nothing to plot.
var ErrNoShots = errors.New("no shots to plot")

// Series names used for the scatter layers.
const (
	SeriesMissed = "Missed"
	SeriesMade   = "Made"
)

// Options controls chart appearance.
type Options struct {
	Width       int
	Height      int
	OuterLines  bool
	DotWidth    float64
	LineWidth   float64
	MadeColor   drawing.Color
	MissedColor drawing.Color
	CourtColor  drawing.Color
}

// DefaultOptions returns a square chart with green makes and red misses.
func DefaultOptions() Options {
	return Options{
		Width:       600,
		Height:      600,
		OuterLines:  true,
		DotWidth:    1.5,
		LineWidth:   2,
		MadeColor:   drawing.ColorFromHex("008000"),
		MissedColor: drawing.ColorFromHex("ff0000"),
		CourtColor:  drawing.ColorBlack,
	}
}

// Renderer draws shot charts over the court diagram.
type Renderer struct {
	opts     Options
	elements []court.Element
}

// New constructs a Renderer. Zero-valued sizes and colors fall back to DefaultOptions.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.DotWidth <= 0 {
		opts.DotWidth = def.DotWidth
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = def.LineWidth
	}
	if opts.MadeColor.IsZero() {
		opts.MadeColor = def.MadeColor
	}
	if opts.MissedColor.IsZero() {
		opts.MissedColor = def.MissedColor
	}
	if opts.CourtColor.IsZero() {
		opts.CourtColor = def.CourtColor
	}
	return &Renderer{opts: opts, elements: court.Elements(opts.OuterLines)}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Chart builds the chart definition. Missed shots are layered under made shots.
// Shots outside the view are not plotted.
func (r *Renderer) Chart(title string, made, missed []shots.Shot) (chart.Chart, error) {
	made = shots.FilterInBounds(made)
	missed = shots.FilterInBounds(missed)
	if len(made) == 0 && len(missed) == 0 {
		return chart.Chart{}, ErrNoShots
	}

	series := make([]chart.Series, 0, 2)
	if len(missed) > 0 {
		series = append(series, r.scatter(SeriesMissed, missed, r.opts.MissedColor))
	}
	if len(made) > 0 {
		series = append(series, r.scatter(SeriesMade, made, r.opts.MadeColor))
	}

	return chart.Chart{
		Title:      title,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: court.ViewMinX, Max: court.ViewMaxX},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: court.ViewMinY, Max: court.ViewMaxY},
		},
		Series:   series,
		Elements: []chart.Renderable{r.courtLayer()},
	}, nil
}

// Render encodes the chart to w.
func (r *Renderer) Render(w io.Writer, format Format, title string, made, missed []shots.Shot) error {
	c, err := r.Chart(title, made, missed)
	if err != nil {
		return err
	}
	provider := chart.SVG
	if format == FormatPNG {
		provider = chart.PNG
	}
	return c.Render(provider, w)
}

// RenderBytes renders into memory so callers can fail before writing headers.
func (r *Renderer) RenderBytes(format Format, title string, made, missed []shots.Shot) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, format, title, made, missed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// scatter renders points only; the connecting stroke is transparent.
func (r *Renderer) scatter(name string, rows []shots.Shot, col drawing.Color) chart.ContinuousSeries {
	xs, ys := shots.Coordinates(rows)
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: 1,
			StrokeColor: drawing.ColorTransparent,
			DotWidth:    r.opts.DotWidth,
			DotColor:    col,
		},
	}
}

func (r *Renderer) courtLayer() chart.Renderable {
	return func(rr chart.Renderer, canvas chart.Box, defaults chart.Style) {
		xr := &chart.ContinuousRange{Min: court.ViewMinX, Max: court.ViewMaxX, Domain: canvas.Width()}
		yr := &chart.ContinuousRange{Min: court.ViewMinY, Max: court.ViewMaxY, Domain: canvas.Height()}
		for _, el := range r.elements {
			drawPath(rr, canvas, xr, yr, el.Outline(), r.opts)
		}
		rr.ResetStyle()
	}
}

var dashPattern = []float64{6, 4}

func drawPath(rr chart.Renderer, canvas chart.Box, xr, yr chart.Range, path court.Path, opts Options) {
	if len(path.Points) < 2 {
		return
	}
	rr.ResetStyle()
	rr.SetStrokeColor(opts.CourtColor)
	rr.SetStrokeWidth(opts.LineWidth)
	if path.Dashed {
		rr.SetStrokeDashArray(dashPattern)
	}

	for i, p := range path.Points {
		x, y := project(canvas, xr, yr, p)
		if i == 0 {
			rr.MoveTo(x, y)
			continue
		}
		rr.LineTo(x, y)
	}
	if path.Closed {
		rr.Close()
	}
	if path.Filled {
		rr.SetFillColor(opts.CourtColor)
		rr.FillStroke()
		return
	}
	rr.Stroke()
}

// project maps court units to canvas pixels the same way go-chart maps series values.
func project(canvas chart.Box, xr, yr chart.Range, p court.Point) (int, int) {
	return canvas.Left + xr.Translate(p.X), canvas.Bottom - yr.Translate(p.Y)
}
