package dashboard

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
)

// ChartKind selects the drawing routine for a ChartSpec.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// LegendPosition places the chart legend.
type LegendPosition string

const (
	LegendTop    LegendPosition = "top"
	LegendBottom LegendPosition = "bottom"
	LegendHidden LegendPosition = "hidden"
)

var errUnsupportedChart = errors.New("dashboard: unsupported chart kind")

// ChartPoint is one labelled value. A nil Value is drawn as a gap.
type ChartPoint struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// DatasetStyle carries presentation hints. Colors applies per point and
// wins over Color.
type DatasetStyle struct {
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
	Fill   bool     `json:"fill,omitempty"`
	Smooth bool     `json:"smooth,omitempty"`
}

// Dataset is one legend entry.
type Dataset struct {
	Label  string       `json:"label"`
	Points []ChartPoint `json:"points"`
	Style  DatasetStyle `json:"style"`
}

// RenderOptions are axis and layout hints shared by every chart kind.
type RenderOptions struct {
	Horizontal  bool           `json:"horizontal,omitempty"`
	BeginAtZero bool           `json:"begin_at_zero,omitempty"`
	ValueMin    *float64       `json:"value_min,omitempty"`
	ValueMax    *float64       `json:"value_max,omitempty"`
	XAxisLabel  string         `json:"x_axis_label,omitempty"`
	YAxisLabel  string         `json:"y_axis_label,omitempty"`
	Legend      LegendPosition `json:"legend,omitempty"`
	Theme       string         `json:"theme,omitempty"`
	Height      string         `json:"height,omitempty"`
}

// ChartSpec is the declarative description handed to ChartRenderer.
type ChartSpec struct {
	Kind     ChartKind     `json:"kind"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Labels   []string      `json:"labels"`
	Datasets []Dataset     `json:"datasets"`
	Options  RenderOptions `json:"options"`
}

// HasData reports whether at least one dataset has a point.
func (s ChartSpec) HasData() bool {
	for _, ds := range s.Datasets {
		if len(ds.Points) > 0 {
			return true
		}
	}
	return false
}

// Validate checks the parts of a spec the engines rely on.
func (s ChartSpec) Validate() error {
	switch s.Kind {
	case ChartBar, ChartLine, ChartPie:
	default:
		return fmt.Errorf("%w: %q", errUnsupportedChart, s.Kind)
	}
	if s.Options.ValueMin != nil && s.Options.ValueMax != nil && *s.Options.ValueMin > *s.Options.ValueMax {
		return fmt.Errorf("dashboard: chart %q value range is inverted", s.Title)
	}
	return nil
}

// AxisLabels returns Labels, or labels inferred from the longest dataset.
func (s ChartSpec) AxisLabels() []string {
	if len(s.Labels) > 0 {
		return s.Labels
	}
	var longest []ChartPoint
	for _, ds := range s.Datasets {
		if len(ds.Points) > len(longest) {
			longest = ds.Points
		}
	}
	labels := make([]string, len(longest))
	for i, point := range longest {
		if point.Label != "" {
			labels[i] = point.Label
		} else {
			labels[i] = "Item " + strconv.Itoa(i+1)
		}
	}
	return labels
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// SeriesDataset turns a normalized series into labels and a dataset, with
// dates rendered through formatter.
func SeriesDataset(label string, series Series, formatter DateFormatter, pattern DatePattern) ([]string, Dataset) {
	labels := make([]string, len(series))
	points := make([]ChartPoint, len(series))
	for i, point := range series {
		labels[i] = formatter.Format(point.Date, pattern)
		points[i] = ChartPoint{Label: labels[i], Value: Float(point.Value)}
	}
	return labels, Dataset{Label: label, Points: points}
}

// AlignedDatasets turns an aligned set into axis labels and one dataset per
// row. names and styles are matched to rows by index.
func AlignedDatasets[K cmp.Ordered](set AlignedSeriesSet[K], names []string, styles []DatasetStyle, label func(K) string) ([]string, []Dataset) {
	labels := make([]string, len(set.Buckets))
	for i, bucket := range set.Buckets {
		labels[i] = label(bucket)
	}
	datasets := make([]Dataset, len(set.Values))
	for i, row := range set.Values {
		points := make([]ChartPoint, len(row))
		for j, v := range row {
			points[j] = ChartPoint{Label: labels[j], Value: v}
		}
		ds := Dataset{Points: points}
		if i < len(names) {
			ds.Label = names[i]
		}
		if i < len(styles) {
			ds.Style = styles[i]
		}
		datasets[i] = ds
	}
	return labels, datasets
}
