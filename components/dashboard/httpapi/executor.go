package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-statboard/components/dashboard/commands"
)

// Executor is the write side transports call into.
type Executor interface {
	Refresh(ctx context.Context, input commands.RefreshDashboardInput) error
}

// CommandExecutor adapts go-command commanders to Executor.
type CommandExecutor struct {
	RefreshCommander gocommand.Commander[commands.RefreshDashboardInput]
}

var _ Executor = (*CommandExecutor)(nil)

// Refresh runs the refresh command.
func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshDashboardInput) error {
	if e == nil || e.RefreshCommander == nil {
		return errors.New("httpapi: refresh commander not configured")
	}
	return e.RefreshCommander.Execute(ctx, input)
}
