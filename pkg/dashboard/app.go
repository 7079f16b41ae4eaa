package dashboard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	router "github.com/goliatone/go-router"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	core "github.com/goliatone/go-statboard/components/dashboard"
	"github.com/goliatone/go-statboard/components/dashboard/commands"
	"github.com/goliatone/go-statboard/components/dashboard/gorouter"
	"github.com/goliatone/go-statboard/components/dashboard/httpapi"
	"github.com/goliatone/go-statboard/components/dashboard/queries"
	"github.com/goliatone/go-statboard/pkg/config"
	"github.com/goliatone/go-statboard/pkg/export"
	"github.com/goliatone/go-statboard/pkg/snapshot"
	"github.com/goliatone/go-statboard/pkg/sources"
)

const userAgent = "go-statboard/1.0"

// AppOptions overrides parts of the assembled App. Only Config is required.
type AppOptions struct {
	Config *config.Config
	// Logger replaces the logger described by the configuration.
	Logger *zerolog.Logger
	// Sources replaces the remote adapters, e.g. with fixtures.
	Sources *core.SourceSet
	// Engine replaces the ECharts engine.
	Engine core.ChartEngine
	// Renderer replaces the embedded page templates.
	Renderer core.Renderer
	// Telemetry receives dashboard and command events; logged when nil.
	Telemetry core.Telemetry
	// RegionHook is notified of region changes next to the broadcast hook.
	RegionHook core.RegionHook
	Now       func() time.Time
}

// App bundles a dashboard with everything needed to serve, render and
// export it.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Dashboard  *core.Dashboard
	Controller *core.Controller
	Broadcast  *core.BroadcastHook
	Cache      *core.TTLResponseCache
	Snapshots  *snapshot.Renderer
	Exporter   *export.Exporter
	Executor   *httpapi.CommandExecutor
	Handlers   *httpapi.Handlers
}

// NewApp wires fetcher, sources, registry, dashboard and controller from
// opts. Indicators come from the configured manifest or the built-in set.
func NewApp(opts AppOptions) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("dashboard: config is required")
	}
	logger := cfg.Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	registry := core.NewRegistry()
	title := cfg.Title
	if cfg.Manifest != "" {
		doc, err := registry.LoadManifestFile(cfg.Manifest)
		if err != nil {
			return nil, err
		}
		title = cmp.Or(title, doc.Title)
	} else if err := core.RegisterDefaults(registry); err != nil {
		return nil, err
	}

	broadcast := core.NewBroadcastHook()
	var hook core.RegionHook = broadcast
	if opts.RegionHook != nil {
		hook = core.MultiRegionHook{broadcast, opts.RegionHook}
	}
	board := core.NewRegionBoard(hook)
	cache := core.NewResponseCache(cfg.CacheTTL)

	var sourceSet core.SourceSet
	if opts.Sources != nil {
		sourceSet = *opts.Sources
	} else {
		fetcher := core.NewHTTPFetcher(core.FetcherOptions{
			Board:     board,
			Logger:    logger.With().Str("component", "fetcher").Logger(),
			Timeout:   cfg.FetchTimeout,
			Cache:     cache,
			RateLimit: rate.Limit(cfg.RateLimit),
			Burst:     cfg.RateBurst,
			UserAgent: userAgent,
		})
		sourceSet, err = sources.NewSourceSet(sources.Config{
			Fetcher:          fetcher,
			IPEABaseURL:      cfg.IPEABaseURL,
			BrasilAPIBaseURL: cfg.BrasilAPIBaseURL,
			PlaceholderSeed:  cfg.PlaceholderSeed,
			Logger:           logger.With().Str("component", "sources").Logger(),
		})
		if err != nil {
			return nil, err
		}
	}

	engine := opts.Engine
	if engine == nil {
		engine = core.NewEChartsEngine()
	}
	telemetry := opts.Telemetry
	if telemetry == nil {
		telemetry = core.NewLogTelemetry(logger)
	}

	dash := core.New(core.Options{
		Registry:      registry,
		Sources:       sourceSet,
		Board:         board,
		Engine:        engine,
		Telemetry:     telemetry,
		Logger:        logger,
		Location:      loc,
		Locale:        cfg.Locale,
		Title:         title,
		ClockInterval: cfg.ClockInterval,
		Now:           opts.Now,
	})

	renderer := opts.Renderer
	if renderer == nil {
		renderer, err = core.NewTemplateRenderer(cfg.Templates)
		if err != nil {
			return nil, fmt.Errorf("dashboard: template renderer: %w", err)
		}
	}
	controller := core.NewController(core.ControllerOptions{
		Dashboard: dash,
		Renderer:  renderer,
	})

	refresh := commands.NewRefreshDashboardCommand(dash, telemetry)
	return &App{
		Config:     cfg,
		Logger:     logger,
		Dashboard:  dash,
		Controller: controller,
		Broadcast:  broadcast,
		Cache:      cache,
		Snapshots:  snapshot.NewRenderer(snapshot.Options{}),
		Exporter:   export.NewExporter(export.Options{Location: loc}),
		Executor:   &httpapi.CommandExecutor{RefreshCommander: refresh},
		Handlers: &httpapi.Handlers{
			Refresh: refresh,
			Board:   queries.NewBoardQuery(controller),
			Region:  queries.NewRegionQuery(controller),
		},
	}, nil
}

// Start launches every indicator load. Rejected indicators are logged and
// shown in their regions; the rest keep loading.
func (a *App) Start(ctx context.Context) {
	if err := a.Dashboard.Start(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("some indicators were rejected")
	}
}

// Run starts the dashboard and keeps the clock ticking until ctx is done,
// then cancels pending loads.
func (a *App) Run(ctx context.Context) error {
	a.Start(ctx)
	defer a.Dashboard.Stop()
	if err := a.Dashboard.RunClock(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Load starts the dashboard and waits for every indicator, for one-shot
// renders and exports.
func (a *App) Load(ctx context.Context) {
	a.Start(ctx)
	a.Dashboard.Wait()
}

// RenderHTML writes the full page for viewer.
func (a *App) RenderHTML(ctx context.Context, viewer core.ViewerContext, w io.Writer) error {
	return a.Controller.RenderTemplate(ctx, viewer, w)
}

// Export writes every chart and table as an XLSX workbook.
func (a *App) Export(ctx context.Context, viewer core.ViewerContext, w io.Writer) error {
	snap, err := a.Controller.Snapshot(ctx, viewer)
	if err != nil {
		return err
	}
	return a.Exporter.Export(snap, w)
}

// HTTPHandler serves the JSON, refresh and event-stream endpoints on plain
// net/http under the configured base path.
func (a *App) HTTPHandler() http.Handler {
	return a.Handlers.Mux(a.Config.BasePath, a.Broadcast)
}

// Mount registers the dashboard routes on r under basePath, or the
// configured base path when empty.
func Mount[T any](app *App, r router.Router[T], basePath string) error {
	return gorouter.Register(gorouter.Config[T]{
		Router:      r,
		Controller:  app.Controller,
		API:         app.Executor,
		Broadcast:   app.Broadcast,
		Snapshotter: app.Snapshots,
		Exporter:    app.Exporter,
		BasePath:    cmp.Or(basePath, app.Config.BasePath),
	})
}
