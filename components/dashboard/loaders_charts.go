package dashboard

import (
	"cmp"
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// ChartOptions are the indicator options shared by every chart loader.
type ChartOptions struct {
	Chart       string   `mapstructure:"chart"`
	Horizontal  bool     `mapstructure:"horizontal"`
	BeginAtZero bool     `mapstructure:"begin_at_zero"`
	Min         *float64 `mapstructure:"min"`
	Max         *float64 `mapstructure:"max"`
	XAxisLabel  string   `mapstructure:"x_axis_label"`
	YAxisLabel  string   `mapstructure:"y_axis_label"`
	Legend      string   `mapstructure:"legend"`
	Theme       string   `mapstructure:"theme"`
	Height      string   `mapstructure:"height"`
	SourceLabel string   `mapstructure:"source_label"`
}

func (o ChartOptions) kind(fallback ChartKind) ChartKind {
	if o.Chart == "" {
		return fallback
	}
	return ChartKind(o.Chart)
}

func (o ChartOptions) renderOptions(lc LoadContext) RenderOptions {
	return RenderOptions{
		Horizontal:  o.Horizontal,
		BeginAtZero: o.BeginAtZero,
		ValueMin:    o.Min,
		ValueMax:    o.Max,
		XAxisLabel:  lc.Expand(o.XAxisLabel),
		YAxisLabel:  lc.Expand(o.YAxisLabel),
		Legend:      LegendPosition(o.Legend),
		Theme:       o.Theme,
		Height:      o.Height,
	}
}

type seriesChartOptions struct {
	ChartOptions `mapstructure:",squash"`
	SeriesCode   string `mapstructure:"series_code"`
	DatasetLabel string `mapstructure:"dataset_label"`
	DatePattern  string `mapstructure:"date_pattern"`
	Color        string `mapstructure:"color"`
	Fill         bool   `mapstructure:"fill"`
	Dedupe       string `mapstructure:"dedupe"`
}

// loadSeriesChart draws one provider series as a line (or bar) chart.
func loadSeriesChart(ctx context.Context, lc LoadContext) error {
	var o seriesChartOptions
	if err := lc.DecodeOptions(&o); err != nil {
		return err
	}
	src, err := lc.Sources.SeriesSource(lc.Definition.Source)
	if err != nil {
		return err
	}
	code := cmp.Or(o.SeriesCode, lc.Definition.Code)
	raw, ok := src.FetchSeries(ctx, SeriesQuery{
		Code:        code,
		Order:       OrderAsc,
		RegionID:    lc.RegionID(),
		SourceLabel: o.SourceLabel,
		Options:     lc.Definition.Options,
	})
	if !ok || len(raw.Points) == 0 {
		lc.Unavailable(ctx, code)
		return nil
	}

	series := Normalize(raw.Points, raw.DateField, raw.ValueField,
		WithLocation(lc.Location),
		WithDedupe(parseDedupe(o.Dedupe)),
	)
	lc.logger().Debug().Int("raw", len(raw.Points)).Int("points", len(series)).Msg("series normalized")

	title := lc.Title()
	pattern := DatePattern(cmp.Or(o.DatePattern, string(PatternYearOnly)))
	labels, dataset := SeriesDataset(lc.Expand(cmp.Or(o.DatasetLabel, title)), series, lc.Formatter, pattern)
	dataset.Style = DatasetStyle{Color: o.Color, Fill: o.Fill, Smooth: true}

	spec := ChartSpec{
		Kind:     o.kind(ChartLine),
		Title:    title,
		Labels:   labels,
		Datasets: []Dataset{dataset},
		Options:  o.renderOptions(lc),
	}
	return lc.Charts.Render(ctx, lc.RegionID(), spec)
}

type alignedSeriesOption struct {
	Code  string `mapstructure:"code"`
	Label string `mapstructure:"label"`
	Color string `mapstructure:"color"`
	Fill  bool   `mapstructure:"fill"`
}

type alignedChartOptions struct {
	ChartOptions `mapstructure:",squash"`
	Series       []alignedSeriesOption `mapstructure:"series"`
	Bucket       string                `mapstructure:"bucket"`
}

// loadAlignedChart fetches several series concurrently, waits for all of
// them and draws them on one shared axis. Only the first fetch drives the
// region's loading state.
func loadAlignedChart(ctx context.Context, lc LoadContext) error {
	var o alignedChartOptions
	if err := lc.DecodeOptions(&o); err != nil {
		return err
	}
	if len(o.Series) == 0 {
		return fmt.Errorf("dashboard: aligned chart %s has no series", lc.Definition.Code)
	}
	src, err := lc.Sources.SeriesSource(lc.Definition.Source)
	if err != nil {
		return err
	}

	raws := make([]RawSeries, len(o.Series))
	oks := make([]bool, len(o.Series))
	var g errgroup.Group
	for i, s := range o.Series {
		query := SeriesQuery{
			Code:        s.Code,
			Order:       OrderAsc,
			SourceLabel: o.SourceLabel,
			Options:     lc.Definition.Options,
		}
		if i == 0 {
			query.RegionID = lc.RegionID()
		}
		g.Go(func() error {
			raws[i], oks[i] = src.FetchSeries(ctx, query)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	var missing []string
	series := make([]Series, len(o.Series))
	names := make([]string, len(o.Series))
	styles := make([]DatasetStyle, len(o.Series))
	for i, s := range o.Series {
		if !oks[i] || len(raws[i].Points) == 0 {
			missing = append(missing, s.Code)
			continue
		}
		series[i] = Normalize(raws[i].Points, raws[i].DateField, raws[i].ValueField, WithLocation(lc.Location))
		names[i] = lc.Expand(cmp.Or(s.Label, s.Code))
		styles[i] = DatasetStyle{Color: s.Color, Fill: s.Fill, Smooth: true}
	}
	if len(missing) > 0 {
		lc.Unavailable(ctx, missing...)
		return nil
	}

	var (
		labels   []string
		datasets []Dataset
	)
	switch o.Bucket {
	case "", "year":
		labels, datasets = AlignedDatasets(Align(series, YearBucket), names, styles, strconv.Itoa)
	case "month":
		labels, datasets = AlignedDatasets(Align(series, MonthBucket), names, styles, func(key string) string {
			t, err := time.Parse("2006-01", key)
			if err != nil {
				return key
			}
			return lc.Formatter.Format(DateOnly(t.Year(), t.Month(), 1), PatternMonthYear)
		})
	default:
		return fmt.Errorf("dashboard: aligned chart %s: unknown bucket %q", lc.Definition.Code, o.Bucket)
	}
	if len(labels) == 0 {
		datasets = nil
	}

	spec := ChartSpec{
		Kind:     o.kind(ChartLine),
		Title:    lc.Title(),
		Labels:   labels,
		Datasets: datasets,
		Options:  o.renderOptions(lc),
	}
	return lc.Charts.Render(ctx, lc.RegionID(), spec)
}

type categoryChartOptions struct {
	ChartOptions `mapstructure:",squash"`
	DatasetLabel string   `mapstructure:"dataset_label"`
	Color        string   `mapstructure:"color"`
	Colors       []string `mapstructure:"colors"`
}

// loadCategoryChart draws labelled values as a bar or pie chart.
func loadCategoryChart(ctx context.Context, lc LoadContext) error {
	var o categoryChartOptions
	if err := lc.DecodeOptions(&o); err != nil {
		return err
	}
	src, err := lc.Sources.CategorySource(lc.Definition.Source)
	if err != nil {
		return err
	}
	values, ok := src.FetchCategories(ctx, CategoryQuery{
		Code:     lc.Definition.Code,
		RegionID: lc.RegionID(),
		Options:  lc.Definition.Options,
	})
	if !ok {
		return nil
	}

	labels := make([]string, len(values))
	points := make([]ChartPoint, len(values))
	for i, v := range values {
		labels[i] = lc.Expand(v.Label)
		points[i] = ChartPoint{Label: labels[i], Value: Float(v.Value)}
	}
	title := lc.Title()
	spec := ChartSpec{
		Kind:   o.kind(ChartBar),
		Title:  title,
		Labels: labels,
		Datasets: []Dataset{{
			Label:  lc.Expand(cmp.Or(o.DatasetLabel, title)),
			Points: points,
			Style:  DatasetStyle{Color: o.Color, Colors: o.Colors},
		}},
		Options: o.renderOptions(lc),
	}
	return lc.Charts.Render(ctx, lc.RegionID(), spec)
}

func parseDedupe(value string) DedupePolicy {
	switch value {
	case "last", "last_wins":
		return DedupeLastWins
	default:
		return DedupeKeepAll
	}
}
