package sources

import (
	"context"
	"maps"
	"strings"
	"sync"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

// FixtureData seeds deterministic responses for tests and offline renders.
// Series and category entries are keyed by indicator or series code, state
// entries by state code.
type FixtureData struct {
	Series     map[string]dashboard.RawSeries
	Categories map[string][]dashboard.CategoryValue
	States     map[string]dashboard.StateStats
}

// Fixtures serves FixtureData through every source interface. Unknown keys
// are reported as unavailable.
type Fixtures struct {
	mu   sync.RWMutex
	data FixtureData
}

// NewFixtures builds an in-memory source from the provided fixtures.
func NewFixtures(data FixtureData) *Fixtures {
	return &Fixtures{data: data}
}

var (
	_ dashboard.SeriesSource     = (*Fixtures)(nil)
	_ dashboard.CategorySource   = (*Fixtures)(nil)
	_ dashboard.StateStatsSource = (*Fixtures)(nil)
)

// SetSeries replaces the series stored under code.
func (f *Fixtures) SetSeries(code string, raw dashboard.RawSeries) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data.Series == nil {
		f.data.Series = map[string]dashboard.RawSeries{}
	}
	f.data.Series[code] = raw
}

// FetchSeries returns a copy of the stored series, honouring order and top.
func (f *Fixtures) FetchSeries(_ context.Context, q dashboard.SeriesQuery) (dashboard.RawSeries, bool) {
	f.mu.RLock()
	raw, ok := f.data.Series[q.Code]
	f.mu.RUnlock()
	if !ok {
		return dashboard.RawSeries{}, false
	}
	out := cloneSeries(raw)
	if q.Order == dashboard.OrderDesc {
		for i, j := 0, len(out.Points)-1; i < j; i, j = i+1, j-1 {
			out.Points[i], out.Points[j] = out.Points[j], out.Points[i]
		}
	}
	if q.Top > 0 && q.Top < len(out.Points) {
		out.Points = out.Points[:q.Top]
	}
	return out, true
}

// FetchCategories returns a copy of the stored categories.
func (f *Fixtures) FetchCategories(_ context.Context, q dashboard.CategoryQuery) ([]dashboard.CategoryValue, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	values, ok := f.data.Categories[q.Code]
	if !ok {
		return nil, false
	}
	return append([]dashboard.CategoryValue(nil), values...), true
}

// FetchStateStats returns a copy of the stored state statistics.
func (f *Fixtures) FetchStateStats(_ context.Context, q dashboard.StateStatsQuery) (dashboard.StateStats, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	stats, ok := f.data.States[strings.ToUpper(q.State)]
	if !ok {
		return dashboard.StateStats{}, false
	}
	stats.Values = maps.Clone(stats.Values)
	if stats.Year == 0 {
		stats.Year = q.Year
	}
	return stats, true
}

func cloneSeries(raw dashboard.RawSeries) dashboard.RawSeries {
	out := dashboard.RawSeries{
		DateField:  raw.DateField,
		ValueField: raw.ValueField,
		Points:     make([]dashboard.RawSeriesPoint, len(raw.Points)),
	}
	for i, point := range raw.Points {
		out.Points[i] = maps.Clone(point)
	}
	return out
}
