package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultLocale = "pt-BR"
	defaultTitle  = "Painel de Estatísticas Públicas do Brasil"
)

var (
	errNotStarted       = errors.New("dashboard: not started")
	errUnknownIndicator = errors.New("dashboard: unknown indicator")
)

// IsUnknownIndicator reports whether err names an indicator that is not registered.
func IsUnknownIndicator(err error) bool {
	return errors.Is(err, errUnknownIndicator)
}

// Options configures the Dashboard. Every collaborator is provided via
// interface or pointer so hosts can swap implementations.
type Options struct {
	Registry      *Registry
	Sources       SourceSet
	Board         *RegionBoard
	Charts        *ChartRegistry
	Engine        ChartEngine
	Validator     ConfigValidator
	RegionHook    RegionHook
	Telemetry     Telemetry
	Translator    TranslationService
	Messages      *Messages
	Notes         *NotesRenderer
	Logger        zerolog.Logger
	Location      *time.Location
	Locale        string
	Title         string
	SectionOrder  []string
	ClockRegion   string
	ClockInterval time.Duration
	Now           func() time.Time
}

// Dashboard loads every registered indicator into its region concurrently
// and keeps the regions current.
type Dashboard struct {
	opts      Options
	renderer  *ChartRenderer
	jobs      *JobGroup
	formatter DateFormatter
	clock     *Clock

	mu      sync.RWMutex
	baseCtx context.Context
}

// New builds a Dashboard with safe defaults.
func New(opts Options) *Dashboard {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Board == nil {
		opts.Board = NewRegionBoard(opts.RegionHook)
	} else if opts.RegionHook != nil {
		opts.Board.SetHook(opts.RegionHook)
	}
	if opts.Charts == nil {
		opts.Charts = NewChartRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Messages == nil {
		opts.Messages = NewMessages(opts.Translator)
	}
	if opts.Notes == nil {
		opts.Notes = NewNotesRenderer()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Locale == "" {
		opts.Locale = defaultLocale
	}
	if opts.Title == "" {
		opts.Title = defaultTitle
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)

	formatter := NewDateFormatter(opts.Location, MondayLocale(opts.Locale))
	clock := NewClock(opts.Board, formatter, opts.ClockRegion, opts.ClockInterval)
	clock.now = opts.Now
	return &Dashboard{
		opts:      opts,
		renderer:  NewChartRenderer(opts.Engine, opts.Charts, opts.Board, opts.Logger),
		jobs:      NewJobGroup(opts.Logger),
		formatter: formatter,
		clock:     clock,
	}
}

// Start defines every region, shows the loading notice and launches one
// load job per valid indicator. Invalid indicators show an error in their
// region and are reported in the returned error; the rest still load.
// Jobs run on ctx until it is cancelled.
func (d *Dashboard) Start(ctx context.Context) error {
	d.mu.Lock()
	d.baseCtx = ctx
	d.mu.Unlock()

	d.clock.Tick()
	var errs []error
	for _, def := range d.opts.Registry.Definitions() {
		region := def.RegionID()
		d.opts.Board.Define(region, def.RegionKind())
		if err := validateDefinition(d.opts.Registry, d.opts.Validator, d.opts.Sources, def); err != nil {
			errs = append(errs, err)
			d.renderer.Fail(d.opts.Board.Lease(ctx, region), region, MsgLoaderFailed, d.title(def))
			d.opts.Logger.Error().Err(err).Str("indicator", def.Code).Msg("indicator rejected")
			continue
		}
		d.launch(ctx, def)
	}
	d.recordTelemetry(ctx, "dashboard.started", map[string]any{
		"indicators": len(d.opts.Registry.Definitions()),
		"rejected":   len(errs),
	})
	return errors.Join(errs...)
}

// Reload relaunches the named indicators, or every indicator when codes is
// empty. A running load of the same indicator is cancelled first.
func (d *Dashboard) Reload(ctx context.Context, codes ...string) error {
	d.mu.RLock()
	base := d.baseCtx
	d.mu.RUnlock()
	if base == nil {
		return errNotStarted
	}

	defs := d.opts.Registry.Definitions()
	if len(codes) > 0 {
		defs = defs[:0:0]
		for _, code := range codes {
			def, ok := d.opts.Registry.Definition(code)
			if !ok {
				return fmt.Errorf("%w: %s", errUnknownIndicator, code)
			}
			defs = append(defs, def)
		}
	}
	var errs []error
	for _, def := range defs {
		if err := validateDefinition(d.opts.Registry, d.opts.Validator, d.opts.Sources, def); err != nil {
			errs = append(errs, err)
			continue
		}
		d.opts.Board.Define(def.RegionID(), def.RegionKind())
		d.launch(base, def)
	}
	d.recordTelemetry(ctx, "dashboard.reloaded", map[string]any{
		"indicators": len(defs),
	})
	return errors.Join(errs...)
}

// Wait blocks until every launched load finished.
func (d *Dashboard) Wait() {
	d.jobs.Wait()
}

// Stop cancels running loads and waits for them.
func (d *Dashboard) Stop() {
	d.jobs.Cancel()
	d.jobs.Wait()
}

// RunClock keeps the date-time display current until ctx is done.
func (d *Dashboard) RunClock(ctx context.Context) error {
	return d.clock.Run(ctx)
}

// launch leases def's region before starting its job, so writes from a
// load it supersedes are dropped even when that load ignores cancellation.
func (d *Dashboard) launch(ctx context.Context, def IndicatorDefinition) {
	region := def.RegionID()
	ctx = d.opts.Board.Lease(ctx, region)
	d.opts.Board.ShowLoading(ctx, region, d.title(def))
	d.jobs.Go(ctx, def.Code, func(jobCtx context.Context) error {
		return d.runIndicator(jobCtx, def)
	}, func(err error) {
		if errors.Is(err, context.Canceled) {
			return
		}
		d.opts.Logger.Error().Err(err).Str("indicator", def.Code).Str("region", region).Msg("indicator load failed")
		if content, ok := d.opts.Board.Region(region); !ok || content.State != StateError {
			d.renderer.Fail(ctx, region, MsgLoaderFailed, d.title(def))
		}
		d.recordTelemetry(ctx, "dashboard.indicator.failed", map[string]any{
			"indicator": def.Code,
			"error":     err.Error(),
		})
	})
}

func (d *Dashboard) runIndicator(ctx context.Context, def IndicatorDefinition) error {
	loader, ok := d.opts.Registry.Loader(def.Kind)
	if !ok {
		return fmt.Errorf("dashboard: no loader for kind %q", def.Kind)
	}
	started := d.opts.Now()
	if err := loader.Load(ctx, d.loadContext(def)); err != nil {
		return err
	}
	d.recordTelemetry(ctx, "dashboard.indicator.loaded", map[string]any{
		"indicator":   def.Code,
		"duration_ms": d.opts.Now().Sub(started).Milliseconds(),
	})
	return nil
}

func (d *Dashboard) loadContext(def IndicatorDefinition) LoadContext {
	return LoadContext{
		Definition: def,
		Sources:    d.opts.Sources,
		Charts:     d.renderer,
		Board:      d.opts.Board,
		Formatter:  d.formatter,
		Messages:   d.opts.Messages,
		Locale:     d.opts.Locale,
		Location:   d.opts.Location,
		Logger:     d.opts.Logger,
		Now:        d.opts.Now,
	}
}

func (d *Dashboard) title(def IndicatorDefinition) string {
	return d.loadContext(def).Title()
}

func (d *Dashboard) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	d.opts.Telemetry.Record(ctx, event, payload)
}

// Registry exposes the indicator registry.
func (d *Dashboard) Registry() *Registry { return d.opts.Registry }

// Board exposes the region board.
func (d *Dashboard) Board() *RegionBoard { return d.opts.Board }

// Charts exposes the live chart registry.
func (d *Dashboard) Charts() *ChartRegistry { return d.opts.Charts }

// Messages exposes the message catalog.
func (d *Dashboard) Messages() *Messages { return d.opts.Messages }

// Formatter exposes the date formatter.
func (d *Dashboard) Formatter() DateFormatter { return d.formatter }

// Clock exposes the date-time display clock.
func (d *Dashboard) Clock() *Clock { return d.clock }

// Locale is the default locale tables and titles are produced in.
func (d *Dashboard) Locale() string { return d.opts.Locale }

// Title is the page title.
func (d *Dashboard) Title() string { return d.opts.Title }

// Sections groups the registered indicators by section in display order.
func (d *Dashboard) Sections() []SectionView {
	return groupSections(d.opts.Registry.Sections(), d.opts.Registry.Definitions(), d.opts.SectionOrder)
}

// IndicatorTitle resolves def's title for locale with placeholders expanded.
func (d *Dashboard) IndicatorTitle(def IndicatorDefinition, locale string) string {
	lc := d.loadContext(def)
	lc.Locale = locale
	return lc.Title()
}

// NotesHTML renders def's notes as HTML.
func (d *Dashboard) NotesHTML(def IndicatorDefinition) string {
	html, err := d.opts.Notes.Render(def.Notes)
	if err != nil {
		d.opts.Logger.Warn().Err(err).Str("indicator", def.Code).Msg("notes render failed")
		return ""
	}
	return html
}
