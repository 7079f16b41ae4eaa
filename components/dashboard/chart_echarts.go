package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	defaultChartHeight = "360px"
	// DefaultEChartsAssetsHost serves echarts.min.js from a CDN.
	DefaultEChartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	gapValue                 = "-"
)

// ChartEngine draws a ChartSpec into standalone HTML.
type ChartEngine interface {
	Draw(ctx context.Context, chartID string, spec ChartSpec) (string, error)
}

// ChartEngineFunc adapts a function into a ChartEngine.
type ChartEngineFunc func(ctx context.Context, chartID string, spec ChartSpec) (string, error)

// Draw implements ChartEngine.
func (fn ChartEngineFunc) Draw(ctx context.Context, chartID string, spec ChartSpec) (string, error) {
	return fn(ctx, chartID, spec)
}

// EChartsEngine renders server-side chart HTML with go-echarts.
type EChartsEngine struct {
	theme      string
	assetsHost string
	height     string
}

// EChartsOption customizes engine behavior.
type EChartsOption func(*EChartsEngine)

// WithChartTheme sets the default theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(e *EChartsEngine) {
		if theme != "" {
			e.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(e *EChartsEngine) {
		if host != "" {
			e.assetsHost = host
		}
	}
}

// WithChartHeight sets the default canvas height.
func WithChartHeight(height string) EChartsOption {
	return func(e *EChartsEngine) {
		if height != "" {
			e.height = height
		}
	}
}

// NewEChartsEngine builds the default chart engine.
func NewEChartsEngine(options ...EChartsOption) *EChartsEngine {
	e := &EChartsEngine{
		theme:      types.ThemeWesteros,
		assetsHost: DefaultEChartsAssetsHost,
		height:     defaultChartHeight,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Draw implements ChartEngine.
func (e *EChartsEngine) Draw(ctx context.Context, chartID string, spec ChartSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch spec.Kind {
	case ChartBar:
		return e.renderBarChart(chartID, spec)
	case ChartLine:
		return e.renderLineChart(chartID, spec)
	case ChartPie:
		return e.renderPieChart(chartID, spec)
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedChart, spec.Kind)
	}
}

func (e *EChartsEngine) renderBarChart(chartID string, spec ChartSpec) (string, error) {
	bar := charts.NewBar()
	global := e.globalChartOptions(chartID, spec)
	if spec.Options.Horizontal {
		global = append(global,
			charts.WithXAxisOpts(valueXAxis(spec.Options)),
			charts.WithYAxisOpts(opts.YAxis{Name: spec.Options.YAxisLabel}),
		)
	} else {
		global = append(global,
			charts.WithXAxisOpts(opts.XAxis{Name: spec.Options.XAxisLabel}),
			charts.WithYAxisOpts(valueYAxis(spec.Options)),
		)
	}
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(spec.AxisLabels())
	for _, ds := range spec.Datasets {
		bar.AddSeries(ds.Label, toBarData(ds), seriesStyle(ds.Style)...)
	}
	if spec.Options.Horizontal {
		bar.XYReversal()
	}
	return renderChart(bar)
}

func (e *EChartsEngine) renderLineChart(chartID string, spec ChartSpec) (string, error) {
	line := charts.NewLine()
	global := append(e.globalChartOptions(chartID, spec),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.Options.XAxisLabel}),
		charts.WithYAxisOpts(valueYAxis(spec.Options)),
	)
	line.SetGlobalOptions(global...)
	line.SetXAxis(spec.AxisLabels())
	for _, ds := range spec.Datasets {
		seriesOpts := seriesStyle(ds.Style)
		seriesOpts = append(seriesOpts, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(ds.Style.Smooth)}))
		if ds.Style.Fill {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{}))
		}
		line.AddSeries(ds.Label, toLineData(ds), seriesOpts...)
	}
	return renderChart(line)
}

func (e *EChartsEngine) renderPieChart(chartID string, spec ChartSpec) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(e.globalChartOptions(chartID, spec)...)
	for _, ds := range spec.Datasets {
		pie.AddSeries(ds.Label, toPieData(ds))
	}
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *EChartsEngine) globalChartOptions(chartID string, spec ChartSpec) []charts.GlobalOpts {
	theme := e.theme
	if spec.Options.Theme != "" {
		theme = spec.Options.Theme
	}
	height := e.height
	if spec.Options.Height != "" {
		height = spec.Options.Height
	}
	initOpts := opts.Initialization{
		PageTitle:  spec.Title,
		ChartID:    chartDOMID(chartID),
		Theme:      theme,
		Width:      "100%",
		Height:     height,
		AssetsHost: e.assetsHost,
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(legendOptions(spec.Options.Legend)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func legendOptions(position LegendPosition) opts.Legend {
	switch position {
	case LegendHidden:
		return opts.Legend{Show: opts.Bool(false)}
	case LegendBottom:
		return opts.Legend{Show: opts.Bool(true), Bottom: "0"}
	default:
		return opts.Legend{Show: opts.Bool(true)}
	}
}

func valueYAxis(o RenderOptions) opts.YAxis {
	axis := opts.YAxis{Name: o.YAxisLabel, Scale: opts.Bool(!o.BeginAtZero)}
	if o.ValueMin != nil {
		axis.Min = *o.ValueMin
	}
	if o.ValueMax != nil {
		axis.Max = *o.ValueMax
	}
	return axis
}

func valueXAxis(o RenderOptions) opts.XAxis {
	axis := opts.XAxis{Name: o.XAxisLabel, Scale: opts.Bool(!o.BeginAtZero)}
	if o.ValueMin != nil {
		axis.Min = *o.ValueMin
	}
	if o.ValueMax != nil {
		axis.Max = *o.ValueMax
	}
	return axis
}

func seriesStyle(style DatasetStyle) []charts.SeriesOpts {
	if style.Color == "" || len(style.Colors) > 0 {
		return nil
	}
	return []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: style.Color})}
}

func pointValue(point ChartPoint) any {
	if point.Value == nil {
		return gapValue
	}
	return *point.Value
}

func pointColor(style DatasetStyle, i int) *opts.ItemStyle {
	if len(style.Colors) == 0 {
		return nil
	}
	return &opts.ItemStyle{Color: style.Colors[i%len(style.Colors)]}
}

func toBarData(ds Dataset) []opts.BarData {
	data := make([]opts.BarData, len(ds.Points))
	for i, point := range ds.Points {
		data[i] = opts.BarData{
			Name:      point.Label,
			Value:     pointValue(point),
			ItemStyle: pointColor(ds.Style, i),
		}
	}
	return data
}

func toLineData(ds Dataset) []opts.LineData {
	data := make([]opts.LineData, len(ds.Points))
	for i, point := range ds.Points {
		data[i] = opts.LineData{
			Name:  point.Label,
			Value: pointValue(point),
		}
	}
	return data
}

func toPieData(ds Dataset) []opts.PieData {
	data := make([]opts.PieData, 0, len(ds.Points))
	for i, point := range ds.Points {
		if point.Value == nil {
			continue
		}
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data = append(data, opts.PieData{
			Name:      name,
			Value:     *point.Value,
			ItemStyle: pointColor(ds.Style, i),
		})
	}
	return data
}

func chartDOMID(id string) string {
	if id == "" {
		return ""
	}
	return "chart_" + strings.ReplaceAll(id, "-", "")
}
