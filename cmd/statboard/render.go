package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goliatone/go-statboard/components/dashboard"
	"github.com/goliatone/go-statboard/pkg/config"
	statboard "github.com/goliatone/go-statboard/pkg/dashboard"
)

type renderCmd struct {
	Out     string        `short:"o" default:"-" help:"Output file, '-' for stdout."`
	Locale  string        `help:"Viewer locale (defaults to STATBOARD_LOCALE)."`
	Timeout time.Duration `default:"2m" help:"Maximum time to wait for every indicator."`
}

func (cmd *renderCmd) Run(ctx context.Context, g *Globals) error {
	app, err := newApp(ctx, g)
	if err != nil {
		return err
	}
	loadCtx, cancel := context.WithTimeout(ctx, cmd.Timeout)
	defer cancel()
	app.Load(loadCtx)
	return writeOutput(cmd.Out, func(w io.Writer) error {
		return app.RenderHTML(ctx, dashboard.ViewerContext{Locale: cmd.Locale}, w)
	})
}

type exportCmd struct {
	Out     string        `short:"o" default:"statboard.xlsx" help:"Output workbook, '-' for stdout."`
	Locale  string        `help:"Viewer locale (defaults to STATBOARD_LOCALE)."`
	Timeout time.Duration `default:"2m" help:"Maximum time to wait for every indicator."`
}

func (cmd *exportCmd) Run(ctx context.Context, g *Globals) error {
	app, err := newApp(ctx, g)
	if err != nil {
		return err
	}
	loadCtx, cancel := context.WithTimeout(ctx, cmd.Timeout)
	defer cancel()
	app.Load(loadCtx)
	return writeOutput(cmd.Out, func(w io.Writer) error {
		return app.Export(ctx, dashboard.ViewerContext{Locale: cmd.Locale}, w)
	})
}

func newApp(ctx context.Context, g *Globals) (*statboard.App, error) {
	cfg, err := config.Load(ctx, g.EnvFile...)
	if err != nil {
		return nil, err
	}
	return statboard.NewApp(statboard.AppOptions{Config: cfg})
}

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("statboard: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("statboard: close %s: %w", path, err)
	}
	return nil
}
