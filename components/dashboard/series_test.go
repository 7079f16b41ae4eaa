package dashboard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSortsAndDropsInvalid(t *testing.T) {
	t.Parallel()

	raw := []RawSeriesPoint{
		{"VALDATA": "2021-01-01T00:00:00-03:00", "VALVALOR": json.Number("6.1")},
		{"VALDATA": "2019-01-01T00:00:00-02:00", "VALVALOR": 6.8},
		nil,
		{"VALDATA": "not-a-date", "VALVALOR": 1},
		{"VALDATA": "2020-01-01", "VALVALOR": "abc"},
		{"VALDATA": "2020-01-01", "VALVALOR": " 6.5 "},
		{"VALVALOR": 3},
		{"VALDATA": "2022", "VALVALOR": nil},
	}
	series := Normalize(raw, "VALDATA", "VALVALOR", WithLocation(time.UTC))
	require.Len(t, series, 3)
	assert.Equal(t, []float64{6.8, 6.5, 6.1}, series.Values())
	years := []int{}
	for _, d := range series.Dates() {
		years = append(years, d.Year())
		assert.Equal(t, 0, d.Hour())
	}
	assert.Equal(t, []int{2019, 2020, 2021}, years)
}

func TestNormalizeRoundTripsValidPoints(t *testing.T) {
	t.Parallel()

	raw := []RawSeriesPoint{
		{"d": "2003-06-15", "v": 3.0},
		{"d": "2001-06-15", "v": 1.0},
		{"d": "2002-06-15", "v": 2.0},
	}
	series := Normalize(raw, "d", "v", WithLocation(time.UTC))
	require.Len(t, series, len(raw))
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Date.Before(series[i].Date))
	}
	last, ok := series.Last()
	require.True(t, ok)
	assert.Equal(t, 3.0, last.Value)
}

func TestNormalizeEmptyInputIsNotNil(t *testing.T) {
	t.Parallel()

	series := Normalize(nil, "d", "v")
	assert.NotNil(t, series)
	assert.Empty(t, series)
	_, ok := series.Last()
	assert.False(t, ok)
}

func TestNormalizeDedupe(t *testing.T) {
	t.Parallel()

	raw := []RawSeriesPoint{
		{"d": "2020", "v": 1},
		{"d": "2020", "v": 2},
		{"d": "2021", "v": 3},
	}
	keep := Normalize(raw, "d", "v", WithLocation(time.UTC))
	assert.Equal(t, []float64{1, 2, 3}, keep.Values())

	last := Normalize(raw, "d", "v", WithLocation(time.UTC), WithDedupe(DedupeLastWins))
	assert.Equal(t, []float64{2, 3}, last.Values())
}

func TestNormalizeCustomDateParser(t *testing.T) {
	t.Parallel()

	yearPrefix := func(v any) (DateValue, error) {
		s, _ := v.(string)
		if len(s) < 4 {
			return DateValue{}, errInvalidDate
		}
		return ParseDateValue(s[:4])
	}
	raw := []RawSeriesPoint{{"d": "2018-11-30T10:00:00", "v": 1}}
	series := Normalize(raw, "d", "v", WithLocation(time.UTC), WithDateParser(yearPrefix))
	require.Len(t, series, 1)
	assert.Equal(t, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), series[0].Date)
}

func TestParseSeriesValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{12.5, 12.5, true},
		{int64(7), 7, true},
		{json.Number("1e3"), 1000, true},
		{"  42.25", 42.25, true},
		{"4,5", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseSeriesValue(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "%v", tc.in)
		}
	}
}
