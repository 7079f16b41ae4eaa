package dashboard

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHook struct {
	mu     sync.Mutex
	events []RegionEvent
}

func (h *recordingHook) RegionUpdated(_ context.Context, event RegionEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHook) Events() []RegionEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]RegionEvent(nil), h.events...)
}

func TestRegionBoardLifecycle(t *testing.T) {
	t.Parallel()

	hook := &recordingHook{}
	board := NewRegionBoard(hook)
	board.Define("analfabetismo", RegionChart)

	board.ShowLoading(context.Background(), "analfabetismo", "IPEAData-BM_TXANalf15S")
	region, ok := board.Region("analfabetismo")
	require.True(t, ok)
	assert.Equal(t, StateLoading, region.State)
	assert.Equal(t, &Notice{Key: MsgLoading, Args: []any{"IPEAData-BM_TXANalf15S"}}, region.Notice)

	board.ClearLoading(context.Background(), "analfabetismo")
	region, _ = board.Region("analfabetismo")
	assert.Equal(t, StateEmpty, region.State)
	assert.Nil(t, region.Notice)

	board.ClearLoading(context.Background(), "analfabetismo")
	events := hook.Events()
	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[0].Version)
	assert.Equal(t, uint64(2), events[1].Version)
	assert.Equal(t, "loaded", events[1].Reason)
}

func TestRegionBoardErrorClearsContent(t *testing.T) {
	t.Parallel()

	board := NewRegionBoard(nil)
	board.ShowTable(context.Background(), "renda-pobreza-table", Table{Columns: []string{"Indicador"}})
	board.ShowError(context.Background(), "renda-pobreza-table", MsgFetchFailed, "IPEAData")

	region, _ := board.Region("renda-pobreza-table")
	assert.Equal(t, StateError, region.State)
	assert.Nil(t, region.Table)
	assert.Equal(t, RegionTable, region.Kind)
}

func TestRegionBoardInfersKindForUndefinedRegions(t *testing.T) {
	t.Parallel()

	board := NewRegionBoard(nil)
	board.ShowText(context.Background(), "current-date-time", MsgQueriedAt, "01/01/2024", "10:00")
	board.ShowLoading(context.Background(), "ocorrencias-table", "x")
	board.ShowLoading(context.Background(), "desocupacao", "x")

	kind, _ := board.Kind("current-date-time")
	assert.Equal(t, RegionDisplay, kind)
	kind, _ = board.Kind("ocorrencias-table")
	assert.Equal(t, RegionTable, kind)
	kind, _ = board.Kind("desocupacao")
	assert.Equal(t, RegionChart, kind)
	assert.Equal(t, []string{"current-date-time", "ocorrencias-table", "desocupacao"}, board.IDs())
}

func TestRegionBoardIgnoresEmptyID(t *testing.T) {
	t.Parallel()

	board := NewRegionBoard(nil)
	board.ShowLoading(context.Background(), "", "x")
	board.Define("", RegionChart)
	assert.Empty(t, board.Regions())
}

func TestRegionBoardRedefineKeepsContent(t *testing.T) {
	t.Parallel()

	board := NewRegionBoard(nil)
	board.ShowLoading(context.Background(), "saneamento", "IPEAData")
	board.Define("saneamento", RegionChart)
	region, _ := board.Region("saneamento")
	assert.Equal(t, StateLoading, region.State)
}

func TestRegionBoardLeaseDropsStaleWrites(t *testing.T) {
	t.Parallel()

	hook := &recordingHook{}
	board := NewRegionBoard(hook)
	ctx := context.Background()

	first := board.Lease(ctx, "desocupacao")
	assert.True(t, board.Current(first, "desocupacao"))
	require.True(t, board.ShowLoading(first, "desocupacao", "IPEAData"))

	second := board.Lease(ctx, "desocupacao")
	assert.False(t, board.Current(first, "desocupacao"))
	assert.True(t, board.Current(second, "desocupacao"))
	assert.True(t, board.Current(first, "homicidios-estado"))

	require.True(t, board.ShowTable(second, "desocupacao", Table{Columns: []string{"Ano"}}))
	assert.False(t, board.ShowError(first, "desocupacao", MsgFetchFailed, "IPEAData"))

	region, _ := board.Region("desocupacao")
	assert.Equal(t, StateTable, region.State)
	assert.Len(t, hook.Events(), 2)

	require.True(t, board.ShowError(ctx, "desocupacao", MsgFetchFailed, "IPEAData"))
	region, _ = board.Region("desocupacao")
	assert.Equal(t, StateError, region.State)
}
