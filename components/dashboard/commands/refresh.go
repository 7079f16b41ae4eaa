package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
)

// RefreshDashboardInput names the indicators to reload. An empty list
// reloads every indicator.
type RefreshDashboardInput struct {
	Codes []string `json:"codes"`
}

type reloader interface {
	Reload(ctx context.Context, codes ...string) error
}

// RefreshDashboardCommand reloads indicators on a running dashboard.
type RefreshDashboardCommand struct {
	dashboard reloader
	telemetry Telemetry
}

// NewRefreshDashboardCommand creates the command.
func NewRefreshDashboardCommand(dashboard reloader, telemetry Telemetry) *RefreshDashboardCommand {
	return &RefreshDashboardCommand{dashboard: dashboard, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshDashboardInput] = (*RefreshDashboardCommand)(nil)

// Execute relaunches the requested indicator loads.
func (c *RefreshDashboardCommand) Execute(ctx context.Context, msg RefreshDashboardInput) error {
	if c.dashboard == nil {
		return errors.New("refresh command requires dashboard")
	}
	codes := make([]string, 0, len(msg.Codes))
	for _, code := range msg.Codes {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	started := time.Now()
	err := c.dashboard.Reload(ctx, codes...)
	recordOutcome(ctx, c.telemetry, "dashboard.refresh", started, err, map[string]any{
		"codes": codes,
	})
	return err
}
