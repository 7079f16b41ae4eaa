package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type Globals struct {
	EnvFile []string `name:"env-file" default:".env" help:"Optional .env files applied before reading the environment."`
}

type cli struct {
	Globals

	Serve    serveCmd    `cmd:"" help:"Serve the dashboard over HTTP with live updates."`
	Render   renderCmd   `cmd:"" help:"Load every indicator once and write the page as static HTML."`
	Export   exportCmd   `cmd:"" help:"Load every indicator once and write an XLSX workbook."`
	Scaffold scaffoldCmd `cmd:"" help:"Add an indicator entry to a manifest."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("statboard"),
		kong.Description("Brazilian public statistics dashboard."),
		kong.UsageOnError(),
		kong.Bind(&c.Globals),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
