package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-statboard/components/dashboard"
	"github.com/goliatone/go-statboard/components/dashboard/commands"
	"github.com/goliatone/go-statboard/components/dashboard/queries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(_ context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier[T, R any] struct {
	last   T
	result R
	err    error
}

func (s *stubQuerier[T, R]) Query(_ context.Context, msg T) (R, error) {
	s.last = msg
	return s.result, s.err
}

func TestHandleRefresh(t *testing.T) {
	t.Parallel()

	refresh := &stubCommander[commands.RefreshDashboardInput]{}
	api := &Handlers{Refresh: refresh}

	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"codes":["saneamento"]}`))
	rec := httptest.NewRecorder()
	api.HandleRefresh(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"saneamento"}, refresh.last.Codes)

	req = httptest.NewRequest(http.MethodPost, "/refresh", http.NoBody)
	rec = httptest.NewRecorder()
	api.HandleRefresh(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 2, refresh.calls)

	req = httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"codes":`))
	rec = httptest.NewRecorder()
	api.HandleRefresh(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBoard(t *testing.T) {
	t.Parallel()

	board := &stubQuerier[dashboard.ViewerContext, dashboard.BoardPayload]{
		result: dashboard.BoardPayload{Title: "Painel"},
	}
	api := &Handlers{Board: board}
	req := httptest.NewRequest(http.MethodGet, "/board?locale=en", nil)
	rec := httptest.NewRecorder()
	api.HandleBoard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", board.last.Locale)
	var decoded dashboard.BoardPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "Painel", decoded.Title)
}

func TestHandleRegion(t *testing.T) {
	t.Parallel()

	region := &stubQuerier[queries.RegionInput, dashboard.RegionPayload]{
		result: dashboard.RegionPayload{ID: "saneamento", State: dashboard.StateChart},
	}
	api := &Handlers{Region: region}
	req := httptest.NewRequest(http.MethodGet, "/regions/saneamento", nil)
	req.Header.Set("Accept-Language", "pt-BR")
	rec := httptest.NewRecorder()
	api.HandleRegion(rec, req, "saneamento")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "saneamento", region.last.RegionID)
	assert.Equal(t, "pt-BR", region.last.Viewer.Locale)
	assert.Contains(t, rec.Body.String(), `"state":"chart"`)
}

func TestHandleRegionNotFound(t *testing.T) {
	t.Parallel()

	controller := dashboard.NewController(dashboard.ControllerOptions{Dashboard: dashboard.New(dashboard.Options{})})
	_, notFound := controller.Region(context.Background(), dashboard.ViewerContext{}, "missing")
	require.True(t, dashboard.IsRegionNotFound(notFound))

	region := &stubQuerier[queries.RegionInput, dashboard.RegionPayload]{err: fmt.Errorf("query: %w", notFound)}
	api := &Handlers{Region: region}
	rec := httptest.NewRecorder()
	api.HandleRegion(rec, httptest.NewRequest(http.MethodGet, "/regions/missing", nil), "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommandExecutor(t *testing.T) {
	t.Parallel()

	refresh := &stubCommander[commands.RefreshDashboardInput]{}
	executor := &CommandExecutor{RefreshCommander: refresh}
	require.NoError(t, executor.Refresh(context.Background(), commands.RefreshDashboardInput{Codes: []string{"a"}}))
	assert.Equal(t, 1, refresh.calls)

	assert.Error(t, (&CommandExecutor{}).Refresh(context.Background(), commands.RefreshDashboardInput{}))
}
