package dashboard

import (
	"context"

	"github.com/rs/zerolog"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LogTelemetry writes telemetry events as structured log lines.
type LogTelemetry struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// NewLogTelemetry records events at debug level on logger.
func NewLogTelemetry(logger zerolog.Logger) *LogTelemetry {
	return &LogTelemetry{logger: logger, level: zerolog.DebugLevel}
}

// WithLevel changes the level events are logged at.
func (t *LogTelemetry) WithLevel(level zerolog.Level) *LogTelemetry {
	t.level = level
	return t
}

// Record implements Telemetry.
func (t *LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.logger.WithLevel(t.level).Str("event", event).Fields(payload).Msg("telemetry")
}
