// Package snapshot draws static SVG images of dashboard charts with
// go-chart, for exports and clients without JavaScript.
package snapshot

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

const (
	defaultWidth  = 800
	defaultHeight = 400
)

// ErrNoData is returned when a spec has nothing drawable.
var ErrNoData = errors.New("snapshot: chart has no data")

var fallbackPalette = []drawing.Color{
	{R: 94, G: 114, B: 228, A: 255},
	{R: 45, G: 206, B: 137, A: 255},
	{R: 251, G: 99, B: 64, A: 255},
	{R: 17, G: 205, B: 239, A: 255},
	{R: 245, G: 54, B: 92, A: 255},
}

// Options sizes the rendered images.
type Options struct {
	Width  int
	Height int
}

// Renderer turns ChartSpecs into SVG.
type Renderer struct {
	width  int
	height int
}

// NewRenderer builds a renderer with default dimensions for unset options.
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	return &Renderer{width: opts.Width, height: opts.Height}
}

// RenderSVG draws spec into w. Bar charts with more than one dataset are
// drawn as lines since go-chart bars carry a single series.
func (r *Renderer) RenderSVG(spec dashboard.ChartSpec, w io.Writer) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if !spec.HasData() {
		return ErrNoData
	}
	spec = escapeText(spec)
	var err error
	switch {
	case spec.Kind == dashboard.ChartPie:
		err = r.pie(spec, w)
	case spec.Kind == dashboard.ChartBar && len(spec.Datasets) == 1:
		err = r.bar(spec, w)
	default:
		err = r.line(spec, w)
	}
	if err != nil && !errors.Is(err, ErrNoData) {
		return fmt.Errorf("snapshot: render %q: %w", spec.Title, err)
	}
	return err
}

func (r *Renderer) bar(spec dashboard.ChartSpec, w io.Writer) error {
	ds := spec.Datasets[0]
	labels := spec.AxisLabels()
	var bars []chart.Value
	var values []float64
	for i, point := range ds.Points {
		if point.Value == nil {
			continue
		}
		label := point.Label
		if label == "" && i < len(labels) {
			label = labels[i]
		}
		color := datasetColor(ds.Style, i, 0)
		bars = append(bars, chart.Value{
			Label: label,
			Value: *point.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		})
		values = append(values, *point.Value)
	}
	if len(bars) == 0 {
		return ErrNoData
	}
	graph := chart.BarChart{
		Title:    spec.Title,
		Width:    r.width,
		Height:   r.height,
		BarWidth: barWidth(r.width, len(bars)),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Bars: bars,
		YAxis: chart.YAxis{
			Name:  spec.Options.YAxisLabel,
			Range: valueRange(spec.Options, values),
		},
	}
	return graph.Render(chart.SVG, w)
}

func (r *Renderer) line(spec dashboard.ChartSpec, w io.Writer) error {
	labels := spec.AxisLabels()
	var series []chart.Series
	var values []float64
	for idx, ds := range spec.Datasets {
		var xs, ys []float64
		for i, point := range ds.Points {
			if point.Value == nil {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, *point.Value)
		}
		if len(xs) == 0 {
			continue
		}
		values = append(values, ys...)
		color := datasetColor(ds.Style, -1, idx)
		style := chart.Style{StrokeColor: color, StrokeWidth: 2, DotColor: color, DotWidth: 3}
		if ds.Style.Fill {
			style.FillColor = color.WithAlpha(48)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}
	ticks := make([]chart.Tick, len(labels))
	for i, label := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	graph := chart.Chart{
		Title:  spec.Title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  spec.Options.XAxisLabel,
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(float64(len(labels)-1), 1)},
		},
		YAxis: chart.YAxis{
			Name:  spec.Options.YAxisLabel,
			Range: valueRange(spec.Options, values),
		},
		Series: series,
	}
	if spec.Options.Legend != dashboard.LegendHidden {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}
	return graph.Render(chart.SVG, w)
}

func (r *Renderer) pie(spec dashboard.ChartSpec, w io.Writer) error {
	ds := spec.Datasets[0]
	labels := spec.AxisLabels()
	var slices []chart.Value
	for i, point := range ds.Points {
		if point.Value == nil || *point.Value <= 0 {
			continue
		}
		label := point.Label
		if label == "" && i < len(labels) {
			label = labels[i]
		}
		slices = append(slices, chart.Value{
			Label: label,
			Value: *point.Value,
			Style: chart.Style{FillColor: datasetColor(ds.Style, i, i)},
		})
	}
	if len(slices) == 0 {
		return ErrNoData
	}
	graph := chart.PieChart{
		Title:  spec.Title,
		Width:  r.width,
		Height: r.height,
		Values: slices,
	}
	return graph.Render(chart.SVG, w)
}

// escapeText escapes every string go-chart writes verbatim into the SVG.
func escapeText(spec dashboard.ChartSpec) dashboard.ChartSpec {
	spec.Title = html.EscapeString(spec.Title)
	spec.Options.XAxisLabel = html.EscapeString(spec.Options.XAxisLabel)
	spec.Options.YAxisLabel = html.EscapeString(spec.Options.YAxisLabel)
	labels := make([]string, len(spec.Labels))
	for i, label := range spec.Labels {
		labels[i] = html.EscapeString(label)
	}
	spec.Labels = labels
	datasets := make([]dashboard.Dataset, len(spec.Datasets))
	for i, ds := range spec.Datasets {
		ds.Label = html.EscapeString(ds.Label)
		points := make([]dashboard.ChartPoint, len(ds.Points))
		for j, point := range ds.Points {
			point.Label = html.EscapeString(point.Label)
			points[j] = point
		}
		ds.Points = points
		datasets[i] = ds
	}
	spec.Datasets = datasets
	return spec
}

// valueRange honours the configured bounds and widens a flat range so
// go-chart never sees a zero-height axis.
func valueRange(opts dashboard.RenderOptions, values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if opts.BeginAtZero && lo > 0 {
		lo = 0
	}
	if opts.ValueMin != nil {
		lo = *opts.ValueMin
	}
	if opts.ValueMax != nil {
		hi = *opts.ValueMax
	}
	if hi <= lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func barWidth(width, bars int) int {
	if bars == 0 {
		return 0
	}
	return max(8, min(60, (width-80)/(bars*2)))
}

// datasetColor picks the per-point color when present, then the dataset
// color, then the palette entry for fallback.
func datasetColor(style dashboard.DatasetStyle, point, fallback int) drawing.Color {
	if point >= 0 && point < len(style.Colors) {
		if c, ok := ParseColor(style.Colors[point]); ok {
			return c
		}
	}
	if c, ok := ParseColor(style.Color); ok {
		return c
	}
	return fallbackPalette[fallback%len(fallbackPalette)]
}

// ParseColor reads CSS hex, rgb() and rgba() colors.
func ParseColor(raw string) (drawing.Color, bool) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch {
	case raw == "":
		return drawing.Color{}, false
	case strings.HasPrefix(raw, "#"):
		hex := strings.TrimPrefix(raw, "#")
		if len(hex) != 3 && len(hex) != 6 {
			return drawing.Color{}, false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return drawing.Color{}, false
		}
		return drawing.ColorFromHex(hex), true
	case strings.HasPrefix(raw, "rgb"):
		open, end := strings.IndexByte(raw, '('), strings.LastIndexByte(raw, ')')
		if open < 0 || end < open {
			return drawing.Color{}, false
		}
		parts := strings.Split(raw[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return drawing.Color{}, false
		}
		var channels [3]uint8
		for i := range channels {
			v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || v < 0 || v > 255 {
				return drawing.Color{}, false
			}
			channels[i] = uint8(v)
		}
		alpha := uint8(255)
		if len(parts) == 4 {
			a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil || a < 0 || a > 1 {
				return drawing.Color{}, false
			}
			alpha = uint8(math.Round(a * 255))
		}
		return drawing.Color{R: channels[0], G: channels[1], B: channels[2], A: alpha}, true
	default:
		return drawing.Color{}, false
	}
}
