package dashboard

import (
	"context"
	"fmt"
)

// SortOrder asks a source for ascending or descending dates.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SeriesQuery identifies one time series at a provider.
type SeriesQuery struct {
	Code        string
	Order       SortOrder
	Top         int
	RegionID    string
	SourceLabel string
	Options     map[string]any
}

// RawSeries is a provider payload before normalization, with the field
// names that hold the date and the value of each record.
type RawSeries struct {
	Points     []RawSeriesPoint
	DateField  string
	ValueField string
}

// SeriesSource fetches raw series. ok=false means the failure was already
// logged and shown in the query's region.
type SeriesSource interface {
	FetchSeries(ctx context.Context, query SeriesQuery) (RawSeries, bool)
}

// SeriesSourceFunc adapts a function into a SeriesSource.
type SeriesSourceFunc func(ctx context.Context, query SeriesQuery) (RawSeries, bool)

// FetchSeries implements SeriesSource.
func (fn SeriesSourceFunc) FetchSeries(ctx context.Context, query SeriesQuery) (RawSeries, bool) {
	return fn(ctx, query)
}

// CategoryQuery asks for labelled values (states, regions, age groups).
type CategoryQuery struct {
	Code     string
	RegionID string
	Options  map[string]any
}

// CategoryValue is one labelled value.
type CategoryValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CategorySource fetches categorical data.
type CategorySource interface {
	FetchCategories(ctx context.Context, query CategoryQuery) ([]CategoryValue, bool)
}

// CategorySourceFunc adapts a function into a CategorySource.
type CategorySourceFunc func(ctx context.Context, query CategoryQuery) ([]CategoryValue, bool)

// FetchCategories implements CategorySource.
func (fn CategorySourceFunc) FetchCategories(ctx context.Context, query CategoryQuery) ([]CategoryValue, bool) {
	return fn(ctx, query)
}

// StateStatsQuery asks for yearly public-security metrics of one state.
type StateStatsQuery struct {
	State       string
	Year        int
	Metrics     []string
	SourceLabel string
	Options     map[string]any
}

// StateStats holds the metrics found for a state. Missing metrics are absent
// from Values.
type StateStats struct {
	State  string
	Year   int
	Values map[string]float64
}

// StateStatsSource fetches per-state statistics.
type StateStatsSource interface {
	FetchStateStats(ctx context.Context, query StateStatsQuery) (StateStats, bool)
}

// StateStatsSourceFunc adapts a function into a StateStatsSource.
type StateStatsSourceFunc func(ctx context.Context, query StateStatsQuery) (StateStats, bool)

// FetchStateStats implements StateStatsSource.
func (fn StateStatsSourceFunc) FetchStateStats(ctx context.Context, query StateStatsQuery) (StateStats, bool) {
	return fn(ctx, query)
}

// SourceSet names the data sources loaders can use. Indicator definitions
// pick one by name.
type SourceSet struct {
	Series     map[string]SeriesSource
	Categories map[string]CategorySource
	States     map[string]StateStatsSource
}

// SeriesSource resolves a named series source.
func (s SourceSet) SeriesSource(name string) (SeriesSource, error) {
	if src, ok := s.Series[name]; ok && src != nil {
		return src, nil
	}
	return nil, fmt.Errorf("dashboard: series source %q not configured", name)
}

// CategorySource resolves a named category source.
func (s SourceSet) CategorySource(name string) (CategorySource, error) {
	if src, ok := s.Categories[name]; ok && src != nil {
		return src, nil
	}
	return nil, fmt.Errorf("dashboard: category source %q not configured", name)
}

// StateStatsSource resolves a named state statistics source.
func (s SourceSet) StateStatsSource(name string) (StateStatsSource, error) {
	if src, ok := s.States[name]; ok && src != nil {
		return src, nil
	}
	return nil, fmt.Errorf("dashboard: state statistics source %q not configured", name)
}

// Has reports whether any source is registered under name for kind.
func (s SourceSet) Has(kind IndicatorKind, name string) bool {
	switch kind {
	case KindSeriesChart, KindAlignedChart, KindLatestTable:
		_, ok := s.Series[name]
		return ok
	case KindCategoryChart:
		_, ok := s.Categories[name]
		return ok
	case KindStateTable:
		_, ok := s.States[name]
		return ok
	default:
		return false
	}
}
