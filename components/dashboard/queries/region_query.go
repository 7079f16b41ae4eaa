package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

// RegionInput identifies one region for a viewer.
type RegionInput struct {
	Viewer   dashboard.ViewerContext
	RegionID string
}

type regionService interface {
	Region(ctx context.Context, viewer dashboard.ViewerContext, id string) (dashboard.RegionPayload, error)
}

// RegionQuery fetches a single region, used for partial refreshes.
type RegionQuery struct {
	service regionService
}

// NewRegionQuery builds the query.
func NewRegionQuery(service regionService) *RegionQuery {
	return &RegionQuery{service: service}
}

var _ gocommand.Querier[RegionInput, dashboard.RegionPayload] = (*RegionQuery)(nil)

// Query resolves the region for the viewer.
func (q *RegionQuery) Query(ctx context.Context, input RegionInput) (dashboard.RegionPayload, error) {
	return q.service.Region(ctx, input.Viewer, input.RegionID)
}
