package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-statboard/components/dashboard"
	"github.com/goliatone/go-statboard/components/dashboard/commands"
	"github.com/goliatone/go-statboard/components/dashboard/httpapi"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// ChartSnapshotter draws a chart spec as a static SVG image.
type ChartSnapshotter interface {
	RenderSVG(spec dashboard.ChartSpec, w io.Writer) error
}

// Exporter writes a board snapshot as a spreadsheet.
type Exporter interface {
	Export(snap dashboard.Snapshot, w io.Writer) error
}

// Config wires go-router with the statboard controller, API and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	Snapshotter    ChartSnapshotter
	Exporter       Exporter
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML      string
	Board     string
	Data      string
	Region    string
	Snapshot  string
	Export    string
	Refresh   string
	WebSocket string
}

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeSVG  = "image/svg+xml"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Register mounts dashboard routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}
	controller := cfg.Controller

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := controller.RenderTemplate(ctx.Context(), viewerResolver(ctx), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", contentTypeHTML)
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Board, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := controller.RenderBoard(ctx.Context(), viewerResolver(ctx), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", contentTypeHTML)
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Data, router.WrapHandler(func(ctx router.Context) error {
		payload, err := controller.Board(ctx.Context(), viewerResolver(ctx))
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	group.Get(routes.Region, router.WrapHandler(func(ctx router.Context) error {
		payload, err := controller.Region(ctx.Context(), viewerResolver(ctx), ctx.Param("id"))
		if err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.Snapshotter != nil {
		registerSnapshot(group, controller, cfg.Snapshotter, viewerResolver, routes.Snapshot)
	}
	if cfg.Exporter != nil {
		registerExport(group, controller, cfg.Exporter, viewerResolver, routes.Export)
	}
	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerSnapshot[T any](r router.Router[T], controller *dashboard.Controller, snapshotter ChartSnapshotter, resolver ViewerResolver, path string) {
	r.Get(path, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		snap, err := controller.Snapshot(ctx.Context(), resolver(ctx))
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		for _, chart := range snap.Charts {
			if chart.RegionID != id {
				continue
			}
			spec := chart.Spec
			spec.Title = chart.Title
			var buf bytes.Buffer
			if err := snapshotter.RenderSVG(spec, &buf); err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			ctx.SetHeader("Content-Type", contentTypeSVG)
			return ctx.Send(buf.Bytes())
		}
		return respondError(ctx, http.StatusNotFound, fmt.Errorf("gorouter: region %s has no chart", id))
	}))
}

func registerExport[T any](r router.Router[T], controller *dashboard.Controller, exporter Exporter, resolver ViewerResolver, path string) {
	r.Get(path, router.WrapHandler(func(ctx router.Context) error {
		snap, err := controller.Snapshot(ctx.Context(), resolver(ctx))
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		var buf bytes.Buffer
		if err := exporter.Export(snap, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", contentTypeXLSX)
		ctx.SetHeader("Content-Disposition", `attachment; filename="statboard.xlsx"`)
		return ctx.Send(buf.Bytes())
	}))
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshDashboardInput
		if body := ctx.Body(); len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func statusFor(err error) int {
	if dashboard.IsRegionNotFound(err) || dashboard.IsUnknownIndicator(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Board == "" {
		routes.Board = "/dashboard/_board"
	}
	if routes.Data == "" {
		routes.Data = "/dashboard/_data"
	}
	if routes.Region == "" {
		routes.Region = "/dashboard/regions/:id"
	}
	if routes.Snapshot == "" {
		routes.Snapshot = "/dashboard/regions/:id/snapshot.svg"
	}
	if routes.Export == "" {
		routes.Export = "/dashboard/export.xlsx"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/refresh"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}
