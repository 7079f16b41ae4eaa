package dashboard

import (
	"cmp"
	"maps"
	"slices"
)

// AlignedSeriesSet holds several series projected onto a shared bucket axis.
// Values[i][j] is series i at Buckets[j]; nil marks a gap.
type AlignedSeriesSet[K cmp.Ordered] struct {
	Buckets []K          `json:"buckets"`
	Values  [][]*float64 `json:"values"`
}

// Align builds the sorted union of bucket keys across series and emits one
// row per series. When a series has several points in a bucket the last one
// wins, which for date-sorted input is the latest observation.
func Align[K cmp.Ordered](series []Series, key func(SeriesPoint) K) AlignedSeriesSet[K] {
	seen := make(map[K]struct{})
	for _, s := range series {
		for _, point := range s {
			seen[key(point)] = struct{}{}
		}
	}
	buckets := slices.Sorted(maps.Keys(seen))
	index := make(map[K]int, len(buckets))
	for i, bucket := range buckets {
		index[bucket] = i
	}

	values := make([][]*float64, len(series))
	for i, s := range series {
		row := make([]*float64, len(buckets))
		for _, point := range s {
			v := point.Value
			row[index[key(point)]] = &v
		}
		values[i] = row
	}
	return AlignedSeriesSet[K]{Buckets: buckets, Values: values}
}

// YearBucket groups points by calendar year.
func YearBucket(p SeriesPoint) int {
	return p.Date.Year()
}

// MonthBucket groups points by calendar month ("2006-01").
func MonthBucket(p SeriesPoint) string {
	return p.Date.Format("2006-01")
}

// Len is the number of buckets.
func (s AlignedSeriesSet[K]) Len() int {
	return len(s.Buckets)
}
