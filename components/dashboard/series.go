package dashboard

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// RawSeriesPoint is an untyped provider record. Date and value fields are
// located by name.
type RawSeriesPoint map[string]any

// SeriesPoint is a parsed observation. Date is local midnight.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an ascending, date-ordered list of observations.
type Series []SeriesPoint

// DedupePolicy controls what Normalize does with repeated dates.
type DedupePolicy int

const (
	// DedupeKeepAll keeps every point; equal dates keep their input order.
	DedupeKeepAll DedupePolicy = iota
	// DedupeLastWins keeps the last input point for each calendar date.
	DedupeLastWins
)

// DateParser converts a raw date field into a DateValue.
type DateParser func(any) (DateValue, error)

type normalizeConfig struct {
	location *time.Location
	parse    DateParser
	dedupe   DedupePolicy
}

// NormalizeOption customizes Normalize.
type NormalizeOption func(*normalizeConfig)

// WithLocation sets the zone used to build calendar dates (default time.Local).
func WithLocation(loc *time.Location) NormalizeOption {
	return func(cfg *normalizeConfig) {
		if loc != nil {
			cfg.location = loc
		}
	}
}

// WithDateParser swaps the date parser.
func WithDateParser(parse DateParser) NormalizeOption {
	return func(cfg *normalizeConfig) {
		if parse != nil {
			cfg.parse = parse
		}
	}
}

// WithDedupe selects the duplicate-date policy.
func WithDedupe(policy DedupePolicy) NormalizeOption {
	return func(cfg *normalizeConfig) {
		cfg.dedupe = policy
	}
}

// Normalize parses raw provider records into a sorted Series. Records whose
// date or value fail to parse are dropped. The result is never nil.
func Normalize(raw []RawSeriesPoint, dateField, valueField string, opts ...NormalizeOption) Series {
	cfg := normalizeConfig{
		location: time.Local,
		parse:    ParseDateValue,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := make(Series, 0, len(raw))
	for _, record := range raw {
		if record == nil {
			continue
		}
		date, err := cfg.parse(record[dateField])
		if err != nil {
			continue
		}
		value, ok := ParseSeriesValue(record[valueField])
		if !ok {
			continue
		}
		out = append(out, SeriesPoint{
			Date:  date.CalendarDate(cfg.location),
			Value: value,
		})
	}

	slices.SortStableFunc(out, func(a, b SeriesPoint) int {
		return a.Date.Compare(b.Date)
	})

	if cfg.dedupe == DedupeLastWins {
		out = dedupeLastWins(out)
	}
	return out
}

func dedupeLastWins(s Series) Series {
	if len(s) < 2 {
		return s
	}
	out := s[:0]
	for i, point := range s {
		if i+1 < len(s) && s[i+1].Date.Equal(point.Date) {
			continue
		}
		out = append(out, point)
	}
	return out
}

// ParseSeriesValue reads a finite float from numbers, json.Number or numeric
// strings. Decimal commas are not accepted.
func ParseSeriesValue(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, point := range s {
		out[i] = point.Value
	}
	return out
}

// Dates returns the observation dates in order.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, point := range s {
		out[i] = point.Date
	}
	return out
}

// Last returns the most recent observation.
func (s Series) Last() (SeriesPoint, bool) {
	if len(s) == 0 {
		return SeriesPoint{}, false
	}
	return s[len(s)-1], true
}
