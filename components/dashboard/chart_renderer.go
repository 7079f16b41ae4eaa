package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ChartRenderer draws specs into regions and keeps at most one live chart
// per region.
type ChartRenderer struct {
	engine ChartEngine
	charts *ChartRegistry
	board  *RegionBoard
	logger zerolog.Logger
	now    func() time.Time
}

// NewChartRenderer wires a renderer. A nil engine falls back to go-echarts.
func NewChartRenderer(engine ChartEngine, charts *ChartRegistry, board *RegionBoard, logger zerolog.Logger) *ChartRenderer {
	if engine == nil {
		engine = NewEChartsEngine()
	}
	if charts == nil {
		charts = NewChartRegistry()
	}
	if board == nil {
		board = NewRegionBoard(nil)
	}
	return &ChartRenderer{
		engine: engine,
		charts: charts,
		board:  board,
		logger: logger,
		now:    time.Now,
	}
}

// Render draws spec into regionID. A spec without points shows the
// insufficient-data notice and never reaches the engine. Otherwise a new
// surface replaces (and destroys) the region's previous chart. A ctx whose
// region lease was superseded draws nothing and leaves the region alone.
func (r *ChartRenderer) Render(ctx context.Context, regionID string, spec ChartSpec) error {
	if !r.board.Current(ctx, regionID) {
		r.logger.Debug().Str("region", regionID).Msg("superseded render skipped")
		return nil
	}
	if !spec.HasData() {
		r.board.update(ctx, regionID, "insufficient", func(rc *RegionContent) bool {
			r.charts.Discard(regionID)
			rc.setNotice(StateInsufficient, MsgInsufficientData, spec.Title)
			return true
		})
		r.logger.Debug().Str("region", regionID).Str("title", spec.Title).Msg("chart has no data")
		return nil
	}
	if err := spec.Validate(); err != nil {
		r.Fail(ctx, regionID, MsgRenderFailed, spec.Title)
		return err
	}

	id := uuid.NewString()
	html, err := r.engine.Draw(ctx, id, spec)
	if err != nil {
		r.Fail(ctx, regionID, MsgRenderFailed, spec.Title)
		r.logger.Error().Err(err).Str("region", regionID).Str("title", spec.Title).Msg("chart render failed")
		return fmt.Errorf("dashboard: render chart %s: %w", regionID, err)
	}

	instance := &ChartInstance{
		ID:        id,
		RegionID:  regionID,
		Kind:      spec.Kind,
		Title:     spec.Title,
		HTML:      html,
		Spec:      spec,
		CreatedAt: r.now(),
	}
	// The registry swap happens under the board lock so a superseded render
	// cannot destroy the newer chart.
	shown := r.board.update(ctx, regionID, "chart", func(rc *RegionContent) bool {
		r.charts.Replace(instance)
		rc.setChart(instance)
		return true
	})
	if !shown {
		r.logger.Debug().Str("region", regionID).Msg("superseded render skipped")
	}
	return nil
}

// Fail discards the region's chart and shows an error notice. It does
// nothing when ctx holds a superseded lease on the region.
func (r *ChartRenderer) Fail(ctx context.Context, regionID string, key MessageKey, args ...any) {
	r.board.update(ctx, regionID, "error", func(rc *RegionContent) bool {
		r.charts.Discard(regionID)
		rc.setNotice(StateError, key, args...)
		return true
	})
}

// Charts exposes the registry the renderer writes to.
func (r *ChartRenderer) Charts() *ChartRegistry {
	return r.charts
}
