package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

type boardService interface {
	Board(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.BoardPayload, error)
}

// BoardQuery resolves the full board for a viewer.
type BoardQuery struct {
	service boardService
}

// NewBoardQuery builds the query.
func NewBoardQuery(service boardService) *BoardQuery {
	return &BoardQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.BoardPayload] = (*BoardQuery)(nil)

// Query builds the board payload for the viewer.
func (q *BoardQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.BoardPayload, error) {
	return q.service.Board(ctx, viewer)
}

type snapshotService interface {
	Snapshot(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Snapshot, error)
}

// SnapshotQuery collects the exportable state of the board.
type SnapshotQuery struct {
	service snapshotService
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(service snapshotService) *SnapshotQuery {
	return &SnapshotQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.Snapshot] = (*SnapshotQuery)(nil)

// Query returns the snapshot.
func (q *SnapshotQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Snapshot, error) {
	return q.service.Snapshot(ctx, viewer)
}
