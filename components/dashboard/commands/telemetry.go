package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-statboard/components/dashboard"
)

// Telemetry allows commands to emit structured events. It is the same
// contract the dashboard records its own events through.
type Telemetry = dashboard.Telemetry

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// recordOutcome records event, or event+".failed" when err is set, with the
// elapsed time since started.
func recordOutcome(ctx context.Context, t Telemetry, event string, started time.Time, err error, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["duration_ms"] = time.Since(started).Milliseconds()
	if err != nil {
		event += ".failed"
		payload["error"] = err.Error()
	}
	t.Record(ctx, event, payload)
}
