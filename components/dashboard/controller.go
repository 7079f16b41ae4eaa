package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const defaultTemplate = "dashboard"

var (
	errRegionNotFound   = errors.New("dashboard: region not found")
	errMissingDashboard = errors.New("dashboard: dashboard not configured")
	errMissingRenderer  = errors.New("dashboard: template renderer not configured")
)

// IsRegionNotFound reports whether err means the region does not exist.
func IsRegionNotFound(err error) bool {
	return errors.Is(err, errRegionNotFound)
}

// BoardPayload is the full page model handed to templates and JSON clients.
type BoardPayload struct {
	Title       string           `json:"title"`
	Locale      string           `json:"locale"`
	GeneratedAt string           `json:"generated_at"`
	Clock       RegionPayload    `json:"clock"`
	Sections    []SectionPayload `json:"sections"`
}

// SectionPayload is one titled group of regions.
type SectionPayload struct {
	Code    string          `json:"code"`
	Title   string          `json:"title"`
	Regions []RegionPayload `json:"regions"`
}

// RegionPayload is what a viewer sees in one region, localized.
type RegionPayload struct {
	ID        string        `json:"id"`
	Indicator string        `json:"indicator,omitempty"`
	Kind      RegionKind    `json:"kind"`
	State     RegionState   `json:"state"`
	Title     string        `json:"title,omitempty"`
	Message   string        `json:"message,omitempty"`
	ChartID   string        `json:"chart_id,omitempty"`
	ChartKind ChartKind     `json:"chart_kind,omitempty"`
	ChartHTML string        `json:"chart_html,omitempty"`
	Table     *TablePayload `json:"table,omitempty"`
	NotesHTML string        `json:"notes_html,omitempty"`
	Version   uint64        `json:"version"`
	UpdatedAt string        `json:"updated_at,omitempty"`
}

// TablePayload is a table with every notice localized.
type TablePayload struct {
	Columns []string        `json:"columns"`
	Rows    [][]CellPayload `json:"rows"`
}

// CellPayload is one table cell.
type CellPayload struct {
	Text        string `json:"text"`
	Span        int    `json:"span,omitempty"`
	Unavailable bool   `json:"unavailable,omitempty"`
}

// Snapshot is the exportable state of every indicator.
type Snapshot struct {
	Title       string
	GeneratedAt time.Time
	Charts      []ChartSnapshot
	Tables      []TableSnapshot
}

// ChartSnapshot is the ChartSpec behind a live chart.
type ChartSnapshot struct {
	Indicator string
	RegionID  string
	Title     string
	Spec      ChartSpec
}

// TableSnapshot is a table flattened to text.
type TableSnapshot struct {
	Indicator string
	RegionID  string
	Title     string
	Columns   []string
	Rows      [][]string
}

// ControllerOptions wires a Controller.
type ControllerOptions struct {
	Dashboard *Dashboard
	Renderer  Renderer
	Template  string
}

// Controller turns dashboard state into payloads and rendered pages.
type Controller struct {
	dashboard *Dashboard
	renderer  Renderer
	template  string
}

// NewController builds a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultTemplate
	}
	return &Controller{
		dashboard: opts.Dashboard,
		renderer:  opts.Renderer,
		template:  opts.Template,
	}
}

// Dashboard returns the wrapped dashboard.
func (c *Controller) Dashboard() *Dashboard {
	return c.dashboard
}

// Board builds the page payload for viewer.
func (c *Controller) Board(ctx context.Context, viewer ViewerContext) (BoardPayload, error) {
	if c.dashboard == nil {
		return BoardPayload{}, errMissingDashboard
	}
	locale := c.locale(viewer)
	payload := BoardPayload{
		Title:       c.dashboard.Title(),
		Locale:      locale,
		GeneratedAt: c.dashboard.opts.Now().Format(time.RFC3339),
	}
	if clock, ok := c.dashboard.Board().Region(c.dashboard.Clock().Region()); ok {
		payload.Clock = c.regionPayload(ctx, locale, clock, nil)
	}
	for _, view := range c.dashboard.Sections() {
		section := SectionPayload{
			Code:  view.Section.Code,
			Title: view.Section.TitleFor(locale),
		}
		for _, def := range view.Indicators {
			content, ok := c.dashboard.Board().Region(def.RegionID())
			if !ok {
				content = RegionContent{ID: def.RegionID(), Kind: def.RegionKind(), State: StateEmpty}
			}
			section.Regions = append(section.Regions, c.regionPayload(ctx, locale, content, &def))
		}
		payload.Sections = append(payload.Sections, section)
	}
	return payload, nil
}

// Region builds the payload of one region for viewer.
func (c *Controller) Region(ctx context.Context, viewer ViewerContext, id string) (RegionPayload, error) {
	if c.dashboard == nil {
		return RegionPayload{}, errMissingDashboard
	}
	content, ok := c.dashboard.Board().Region(id)
	if !ok {
		return RegionPayload{}, fmt.Errorf("%w: %s", errRegionNotFound, id)
	}
	var def *IndicatorDefinition
	if found, ok := c.dashboard.Registry().DefinitionByRegion(id); ok {
		def = &found
	}
	return c.regionPayload(ctx, c.locale(viewer), content, def), nil
}

// RenderTemplate renders the full page for viewer into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	return c.render(ctx, viewer, c.template, out)
}

// RenderBoard renders only the board fragment, for partial refreshes.
func (c *Controller) RenderBoard(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	return c.render(ctx, viewer, "partials/board", out)
}

func (c *Controller) render(ctx context.Context, viewer ViewerContext, name string, out io.Writer) error {
	if c.renderer == nil {
		return errMissingRenderer
	}
	payload, err := c.Board(ctx, viewer)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(name, map[string]any{"board": payload}, out)
	if err != nil {
		return fmt.Errorf("dashboard: render %s: %w", name, err)
	}
	return nil
}

// Snapshot collects every chart spec and table for export.
func (c *Controller) Snapshot(ctx context.Context, viewer ViewerContext) (Snapshot, error) {
	if c.dashboard == nil {
		return Snapshot{}, errMissingDashboard
	}
	locale := c.locale(viewer)
	snap := Snapshot{
		Title:       c.dashboard.Title(),
		GeneratedAt: c.dashboard.opts.Now(),
	}
	for _, def := range c.dashboard.Registry().Definitions() {
		content, ok := c.dashboard.Board().Region(def.RegionID())
		if !ok {
			continue
		}
		title := c.dashboard.IndicatorTitle(def, locale)
		switch content.State {
		case StateChart:
			if content.Chart == nil || content.Chart.Destroyed() {
				continue
			}
			snap.Charts = append(snap.Charts, ChartSnapshot{
				Indicator: def.Code,
				RegionID:  content.ID,
				Title:     title,
				Spec:      content.Chart.Spec,
			})
		case StateTable:
			if content.Table == nil {
				continue
			}
			table := c.tablePayload(ctx, locale, *content.Table)
			snap.Tables = append(snap.Tables, TableSnapshot{
				Indicator: def.Code,
				RegionID:  content.ID,
				Title:     title,
				Columns:   table.Columns,
				Rows:      flattenRows(table.Rows),
			})
		}
	}
	return snap, nil
}

func (c *Controller) regionPayload(ctx context.Context, locale string, content RegionContent, def *IndicatorDefinition) RegionPayload {
	payload := RegionPayload{
		ID:      content.ID,
		Kind:    content.Kind,
		State:   content.State,
		Version: content.Version,
	}
	if !content.UpdatedAt.IsZero() {
		payload.UpdatedAt = content.UpdatedAt.Format(time.RFC3339)
	}
	if def != nil {
		payload.Indicator = def.Code
		payload.Title = c.dashboard.IndicatorTitle(*def, locale)
		payload.NotesHTML = c.dashboard.NotesHTML(*def)
	}
	if content.Notice != nil {
		payload.Message = c.dashboard.Messages().Notice(ctx, locale, content.Notice)
	}
	switch content.State {
	case StateChart:
		if content.Chart != nil {
			payload.ChartID = content.Chart.ID
			payload.ChartKind = content.Chart.Kind
			payload.ChartHTML = content.Chart.Markup()
		}
	case StateTable:
		if content.Table != nil {
			table := c.tablePayload(ctx, locale, *content.Table)
			payload.Table = &table
		}
	}
	return payload
}

func (c *Controller) tablePayload(ctx context.Context, locale string, table Table) TablePayload {
	out := TablePayload{Columns: table.Columns, Rows: make([][]CellPayload, len(table.Rows))}
	for i, row := range table.Rows {
		cells := make([]CellPayload, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = CellPayload{Text: cell.Text, Span: cell.Span}
			if cell.Notice != nil {
				cells[j].Text = c.dashboard.Messages().Notice(ctx, locale, cell.Notice)
				cells[j].Unavailable = true
			}
		}
		out.Rows[i] = cells
	}
	return out
}

func (c *Controller) locale(viewer ViewerContext) string {
	if locale := strings.TrimSpace(viewer.Locale); locale != "" {
		return locale
	}
	return c.dashboard.Locale()
}

func flattenRows(rows [][]CellPayload) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		for _, cell := range row {
			out[i] = append(out[i], cell.Text)
			for k := 1; k < cell.Span; k++ {
				out[i] = append(out[i], "")
			}
		}
	}
	return out
}
