// Package dashboard is the public entry point for hosts embedding the
// statistics board. It re-exports the core types and assembles a ready to
// serve App from configuration.
package dashboard

import (
	core "github.com/goliatone/go-statboard/components/dashboard"
)

// Dashboard exposes the underlying components/dashboard.Dashboard type.
type Dashboard = core.Dashboard

// Options re-export for convenience.
type Options = core.Options

// ViewerContext re-export for convenience.
type ViewerContext = core.ViewerContext

// SourceSet re-export for convenience.
type SourceSet = core.SourceSet

// New proxies to the internal constructor.
func New(opts Options) *Dashboard {
	return core.New(opts)
}
