package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

func TestIPEAFetchSeriesOverHTTP(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ValoresSerie(SERCODIGO='PNADC12_RDPCAP')", r.URL.Path)
		assert.Equal(t, "VALDATA,VALVALOR", r.URL.Query().Get("$select"))
		assert.Equal(t, "VALDATA desc", r.URL.Query().Get("$orderby"))
		assert.Equal(t, "1", r.URL.Query().Get("$top"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":[{"VALDATA":"2023-01-01T00:00:00-03:00","VALVALOR":1848.57}]}`))
	}))
	defer server.Close()

	fetcher := dashboard.NewHTTPFetcher(dashboard.FetcherOptions{Logger: zerolog.Nop()})
	ipea, err := NewIPEA(IPEAConfig{BaseURL: server.URL + "/", Fetcher: fetcher, Logger: zerolog.Nop()})
	require.NoError(t, err)

	raw, ok := ipea.FetchSeries(context.Background(), dashboard.SeriesQuery{
		Code:  "PNADC12_RDPCAP",
		Order: dashboard.OrderDesc,
		Top:   1,
	})
	require.True(t, ok)
	assert.Equal(t, "VALDATA", raw.DateField)
	assert.Equal(t, "VALVALOR", raw.ValueField)
	require.Len(t, raw.Points, 1)
	value, ok := dashboard.ParseSeriesValue(raw.Points[0]["VALVALOR"])
	require.True(t, ok)
	assert.InDelta(t, 1848.57, value, 1e-9)
}

func TestIPEARequestShape(t *testing.T) {
	t.Parallel()

	var got dashboard.FetchRequest
	fetcher := dashboard.JSONFetcherFunc(func(_ context.Context, req dashboard.FetchRequest) (any, bool) {
		got = req
		return map[string]any{"value": []any{}}, true
	})
	ipea, err := NewIPEA(IPEAConfig{Fetcher: fetcher})
	require.NoError(t, err)

	raw, ok := ipea.FetchSeries(context.Background(), dashboard.SeriesQuery{
		Code:     "SP_EXTVIDA",
		Order:    dashboard.OrderAsc,
		RegionID: "expectativa-vida",
	})
	require.True(t, ok)
	assert.Empty(t, raw.Points)

	assert.Equal(t, DefaultIPEABaseURL+"/ValoresSerie(SERCODIGO='SP_EXTVIDA')", got.URL)
	assert.Equal(t, map[string]string{
		"$select":  "VALDATA,VALVALOR",
		"$orderby": "VALDATA asc",
	}, got.Query)
	assert.Equal(t, "expectativa-vida", got.RegionID)
	assert.Equal(t, "IPEAData-SP_EXTVIDA", got.SourceLabel)
}

func TestIPEAHandlesFailuresAndOddPayloads(t *testing.T) {
	t.Parallel()

	t.Run("fetch failure", func(t *testing.T) {
		t.Parallel()
		ipea, err := NewIPEA(IPEAConfig{Fetcher: dashboard.JSONFetcherFunc(func(context.Context, dashboard.FetchRequest) (any, bool) {
			return nil, false
		})})
		require.NoError(t, err)
		_, ok := ipea.FetchSeries(context.Background(), dashboard.SeriesQuery{Code: "X"})
		assert.False(t, ok)
	})

	t.Run("unexpected shape", func(t *testing.T) {
		t.Parallel()
		ipea, err := NewIPEA(IPEAConfig{Fetcher: dashboard.JSONFetcherFunc(func(context.Context, dashboard.FetchRequest) (any, bool) {
			return []any{"not", "odata"}, true
		})})
		require.NoError(t, err)
		raw, ok := ipea.FetchSeries(context.Background(), dashboard.SeriesQuery{Code: "X"})
		assert.True(t, ok)
		assert.Empty(t, raw.Points)
	})
}

func TestIPEAEscapesQuotes(t *testing.T) {
	t.Parallel()

	ipea, err := NewIPEA(IPEAConfig{BaseURL: "http://example.test", Fetcher: dashboard.JSONFetcherFunc(func(context.Context, dashboard.FetchRequest) (any, bool) {
		return nil, false
	})})
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/ValoresSerie(SERCODIGO='A''B')", ipea.SeriesURL("A'B"))
}

func TestNewIPEARequiresFetcher(t *testing.T) {
	t.Parallel()

	_, err := NewIPEA(IPEAConfig{})
	assert.Error(t, err)
}
