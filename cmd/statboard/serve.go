package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	router "github.com/goliatone/go-router"
	"golang.org/x/sync/errgroup"

	statboard "github.com/goliatone/go-statboard/pkg/dashboard"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	Addr     string `help:"Listen address (overrides STATBOARD_ADDR)."`
	BasePath string `name:"base-path" help:"Route prefix (overrides STATBOARD_BASE_PATH)."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	app, err := newApp(ctx, g)
	if err != nil {
		return err
	}
	addr := cmp.Or(cmd.Addr, app.Config.Addr)
	base := cmp.Or(cmd.BasePath, app.Config.BasePath)

	server := router.NewFiberAdapter()
	if err := statboard.Mount(app, server.Router(), base); err != nil {
		return fmt.Errorf("statboard: register routes: %w", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return app.Run(ctx)
	})
	group.Go(func() error {
		app.Logger.Info().Str("addr", addr).Str("page", base+"/dashboard").Msg("statboard listening")
		if err := server.Serve(addr); err != nil {
			return fmt.Errorf("statboard: serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("statboard: shutdown: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
