package sources

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/mitchellh/mapstructure"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

// Placeholder generates simulated values for indicators that have no public
// API yet. Every range is read from the indicator options as [min, max).
type Placeholder struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPlaceholder builds a generator. The same seed yields the same values.
func NewPlaceholder(seed uint64) *Placeholder {
	return &Placeholder{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

var (
	_ dashboard.SeriesSource     = (*Placeholder)(nil)
	_ dashboard.CategorySource   = (*Placeholder)(nil)
	_ dashboard.StateStatsSource = (*Placeholder)(nil)
)

// ValueRange is a simulated value: Value when set, otherwise a whole
// number drawn from [Min, Max).
type ValueRange struct {
	Min   float64  `mapstructure:"min"`
	Max   float64  `mapstructure:"max"`
	Value *float64 `mapstructure:"value"`
}

type placeholderPoint struct {
	Year       int `mapstructure:"year"`
	ValueRange `mapstructure:",squash"`
}

type placeholderCategory struct {
	Label      string `mapstructure:"label"`
	ValueRange `mapstructure:",squash"`
}

type placeholderMetric struct {
	Field      string `mapstructure:"field"`
	ValueRange `mapstructure:",squash"`
}

type placeholderOptions struct {
	Points     []placeholderPoint    `mapstructure:"points"`
	Categories []placeholderCategory `mapstructure:"categories"`
	Metrics    []placeholderMetric   `mapstructure:"metrics"`
}

// FetchSeries returns one yearly point per configured range.
func (p *Placeholder) FetchSeries(_ context.Context, q dashboard.SeriesQuery) (dashboard.RawSeries, bool) {
	opts, ok := decodePlaceholder(q.Options)
	if !ok {
		return dashboard.RawSeries{}, false
	}
	points := make([]dashboard.RawSeriesPoint, len(opts.Points))
	for i, point := range opts.Points {
		points[i] = dashboard.RawSeriesPoint{"year": point.Year, "value": p.draw(point.ValueRange)}
	}
	if q.Order == dashboard.OrderDesc {
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}
	if q.Top > 0 && q.Top < len(points) {
		points = points[:q.Top]
	}
	return dashboard.RawSeries{Points: points, DateField: "year", ValueField: "value"}, true
}

// FetchCategories returns one value per configured category.
func (p *Placeholder) FetchCategories(_ context.Context, q dashboard.CategoryQuery) ([]dashboard.CategoryValue, bool) {
	opts, ok := decodePlaceholder(q.Options)
	if !ok {
		return nil, false
	}
	values := make([]dashboard.CategoryValue, len(opts.Categories))
	for i, category := range opts.Categories {
		values[i] = dashboard.CategoryValue{Label: category.Label, Value: p.draw(category.ValueRange)}
	}
	return values, true
}

// FetchStateStats returns one value per configured metric.
func (p *Placeholder) FetchStateStats(_ context.Context, q dashboard.StateStatsQuery) (dashboard.StateStats, bool) {
	opts, ok := decodePlaceholder(q.Options)
	if !ok {
		return dashboard.StateStats{}, false
	}
	values := make(map[string]float64, len(opts.Metrics))
	for _, metric := range opts.Metrics {
		values[metric.Field] = p.draw(metric.ValueRange)
	}
	return dashboard.StateStats{State: q.State, Year: q.Year, Values: values}, true
}

func (p *Placeholder) draw(r ValueRange) float64 {
	if r.Value != nil {
		return *r.Value
	}
	span := int64(r.Max - r.Min)
	if span <= 0 {
		return r.Min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return r.Min + float64(p.rnd.Int64N(span))
}

func decodePlaceholder(options map[string]any) (placeholderOptions, bool) {
	var opts placeholderOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return opts, false
	}
	if err := decoder.Decode(options); err != nil {
		return opts, false
	}
	return opts, true
}
