package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReloader struct {
	calls [][]string
	err   error
}

func (s *stubReloader) Reload(_ context.Context, codes ...string) error {
	s.calls = append(s.calls, codes)
	return s.err
}

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

func TestRefreshDashboardCommand(t *testing.T) {
	t.Parallel()

	reloader := &stubReloader{}
	telemetry := &stubTelemetry{}
	cmd := NewRefreshDashboardCommand(reloader, telemetry)

	require.NoError(t, cmd.Execute(context.Background(), RefreshDashboardInput{Codes: []string{" saneamento ", ""}}))
	require.NoError(t, cmd.Execute(context.Background(), RefreshDashboardInput{}))

	assert.Equal(t, [][]string{{"saneamento"}, {}}, reloader.calls)
	assert.Equal(t, []string{"dashboard.refresh", "dashboard.refresh"}, telemetry.events)
}

func TestRefreshDashboardCommandErrors(t *testing.T) {
	t.Parallel()

	err := NewRefreshDashboardCommand(nil, nil).Execute(context.Background(), RefreshDashboardInput{})
	require.Error(t, err)

	want := errors.New("dashboard: unknown indicator")
	telemetry := &stubTelemetry{}
	cmd := NewRefreshDashboardCommand(&stubReloader{err: want}, telemetry)
	assert.ErrorIs(t, cmd.Execute(context.Background(), RefreshDashboardInput{Codes: []string{"x"}}), want)
	assert.Equal(t, []string{"dashboard.refresh.failed"}, telemetry.events)
}
