package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-statboard/components/dashboard"
	"github.com/goliatone/go-statboard/components/dashboard/commands"
	"github.com/goliatone/go-statboard/components/dashboard/queries"
)

func newMuxServer(t *testing.T, hook *dashboard.BroadcastHook) (*httptest.Server, *stubCommander[commands.RefreshDashboardInput], *stubQuerier[queries.RegionInput, dashboard.RegionPayload]) {
	t.Helper()
	refresh := &stubCommander[commands.RefreshDashboardInput]{}
	region := &stubQuerier[queries.RegionInput, dashboard.RegionPayload]{
		result: dashboard.RegionPayload{ID: "saneamento", State: dashboard.StateChart},
	}
	api := &Handlers{
		Refresh: refresh,
		Board: &stubQuerier[dashboard.ViewerContext, dashboard.BoardPayload]{
			result: dashboard.BoardPayload{Title: "Painel"},
		},
		Region: region,
	}
	server := httptest.NewServer(api.Mux("/admin/", hook))
	t.Cleanup(server.Close)
	return server, refresh, region
}

func TestMuxRoutes(t *testing.T) {
	t.Parallel()

	server, refresh, region := newMuxServer(t, nil)

	res, err := http.Get(server.URL + "/admin/dashboard/_data?locale=en")
	require.NoError(t, err)
	var board dashboard.BoardPayload
	require.NoError(t, json.NewDecoder(res.Body).Decode(&board))
	res.Body.Close()
	assert.Equal(t, "Painel", board.Title)

	res, err = http.Get(server.URL + "/admin/dashboard/regions/saneamento")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "saneamento", region.last.RegionID)

	res, err = http.Post(server.URL+"/admin/dashboard/refresh", "application/json", strings.NewReader(`{"codes":["a"]}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusAccepted, res.StatusCode)
	assert.Equal(t, []string{"a"}, refresh.last.Codes)

	res, err = http.Get(server.URL + "/admin/dashboard/refresh")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)

	res, err = http.Get(server.URL + "/admin/dashboard/ws")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestMuxStreamsWebSocketEvents(t *testing.T) {
	t.Parallel()

	hook := dashboard.NewBroadcastHook()
	server, _, _ := newMuxServer(t, hook)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/admin/dashboard/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hook.RegionUpdated(context.Background(), dashboard.RegionEvent{
		RegionID: "saneamento",
		State:    dashboard.StateChart,
		Version:  3,
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event dashboard.RegionEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "saneamento", event.RegionID)
	assert.Equal(t, uint64(3), event.Version)
}

func TestMuxStreamsServerSentEvents(t *testing.T) {
	t.Parallel()

	hook := dashboard.NewBroadcastHook()
	server, _, _ := newMuxServer(t, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/admin/dashboard/events", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	require.Equal(t, 1, hook.Subscribers())
	require.NoError(t, hook.RegionUpdated(context.Background(), dashboard.RegionEvent{
		RegionID: "desocupacao",
		State:    dashboard.StateError,
	}))

	reader := bufio.NewReader(res.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: region\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "))

	var event dashboard.RegionEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
	assert.Equal(t, "desocupacao", event.RegionID)
	assert.Equal(t, dashboard.StateError, event.State)
}
