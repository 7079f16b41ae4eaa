package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherDecodesJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "VALDATA,VALVALOR", r.URL.Query().Get("$select"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":[{"VALDATA":"2020-01-01T00:00:00-03:00","VALVALOR":6.6}]}`))
	}))
	defer server.Close()

	board := NewRegionBoard(nil)
	board.Define("analfabetismo", RegionChart)
	fetcher := NewHTTPFetcher(FetcherOptions{Board: board, Logger: zerolog.Nop()})

	data, ok := fetcher.FetchJSON(context.Background(), FetchRequest{
		URL:         server.URL,
		Query:       map[string]string{"$select": "VALDATA,VALVALOR"},
		RegionID:    "analfabetismo",
		SourceLabel: "IPEAData-BM_TXANalf15S",
	})
	require.True(t, ok)
	doc, isMap := data.(map[string]any)
	require.True(t, isMap)
	rows := doc["value"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, json.Number("6.6"), rows[0].(map[string]any)["VALVALOR"])

	region, _ := board.Region("analfabetismo")
	assert.Equal(t, StateEmpty, region.State)
}

func TestHTTPFetcherKeepsLoadingForTables(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	board := NewRegionBoard(nil)
	board.Define("renda-pobreza-table", RegionTable)
	fetcher := NewHTTPFetcher(FetcherOptions{Board: board, Logger: zerolog.Nop()})

	_, ok := fetcher.FetchJSON(context.Background(), FetchRequest{URL: server.URL, RegionID: "renda-pobreza-table"})
	require.True(t, ok)
	region, _ := board.Region("renda-pobreza-table")
	assert.Equal(t, StateLoading, region.State)
	assert.Equal(t, []any{"API"}, region.Notice.Args)
}

func TestHTTPFetcherFailureShowsError(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		},
		"invalid json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"value":`))
		},
		"trailing data": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{} {}`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(handler)
			defer server.Close()

			board := NewRegionBoard(nil)
			fetcher := NewHTTPFetcher(FetcherOptions{Board: board, Logger: zerolog.Nop()})
			data, ok := fetcher.FetchJSON(context.Background(), FetchRequest{
				URL:         server.URL,
				RegionID:    "desocupacao",
				SourceLabel: "IPEAData-PNADC_TX_DESOCUP",
			})
			assert.False(t, ok)
			assert.Nil(t, data)
			region, _ := board.Region("desocupacao")
			assert.Equal(t, StateError, region.State)
			assert.Equal(t, &Notice{Key: MsgFetchFailed, Args: []any{"IPEAData-PNADC_TX_DESOCUP"}}, region.Notice)
		})
	}
}

func TestHTTPFetcherWithoutRegionTouchesNothing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	board := NewRegionBoard(nil)
	fetcher := NewHTTPFetcher(FetcherOptions{Board: board, Logger: zerolog.Nop()})
	_, ok := fetcher.FetchJSON(context.Background(), FetchRequest{URL: server.URL})
	assert.False(t, ok)
	assert.Empty(t, board.Regions())
}

func TestHTTPFetcherTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	fetcher := NewHTTPFetcher(FetcherOptions{Logger: zerolog.Nop(), Timeout: 50 * time.Millisecond})
	started := time.Now()
	_, ok := fetcher.FetchJSON(context.Background(), FetchRequest{URL: server.URL, RegionID: "slow"})
	assert.False(t, ok)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestHTTPFetcherUsesCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(FetcherOptions{Logger: zerolog.Nop(), Cache: NewResponseCache(time.Minute)})
	for i := 0; i < 3; i++ {
		_, ok := fetcher.FetchJSON(context.Background(), FetchRequest{URL: server.URL, Query: map[string]string{"a": "b"}})
		require.True(t, ok)
	}
	assert.Equal(t, int32(1), hits.Load())
}
