package dashboard

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// RegionKind decides how a region treats its loading indicator.
type RegionKind string

const (
	RegionChart   RegionKind = "chart"
	RegionTable   RegionKind = "table"
	RegionDisplay RegionKind = "display"
)

// RegionState is the single thing a region shows at a time.
type RegionState string

const (
	StateEmpty        RegionState = "empty"
	StateLoading      RegionState = "loading"
	StateError        RegionState = "error"
	StateInsufficient RegionState = "insufficient"
	StateChart        RegionState = "chart"
	StateTable        RegionState = "table"
	StateText         RegionState = "text"
)

// Notice is a message key plus arguments, localized when a viewer reads it.
type Notice struct {
	Key  MessageKey `json:"key"`
	Args []any      `json:"args,omitempty"`
}

// RegionContent is a point-in-time copy of a region.
type RegionContent struct {
	ID        string
	Kind      RegionKind
	State     RegionState
	Notice    *Notice
	Chart     *ChartInstance
	Table     *Table
	Version   uint64
	UpdatedAt time.Time
}

func (r *RegionContent) setNotice(state RegionState, key MessageKey, args ...any) {
	r.State = state
	r.Notice = &Notice{Key: key, Args: args}
	r.Chart = nil
	r.Table = nil
}

func (r *RegionContent) setChart(chart *ChartInstance) {
	r.State = StateChart
	r.Notice = nil
	r.Chart = chart
	r.Table = nil
}

// RegionEvent is emitted after every region change.
type RegionEvent struct {
	RegionID string      `json:"region_id"`
	State    RegionState `json:"state"`
	Version  uint64      `json:"version"`
	Reason   string      `json:"reason,omitempty"`
}

// RegionHook notifies transports (REST/WebSocket) about region changes.
type RegionHook interface {
	RegionUpdated(ctx context.Context, event RegionEvent) error
}

type noopRegionHook struct{}

func (noopRegionHook) RegionUpdated(context.Context, RegionEvent) error { return nil }

// RegionBoard owns the named display regions. Every method is safe for
// concurrent use. Write methods report whether the change was applied.
type RegionBoard struct {
	mu      sync.RWMutex
	regions map[string]*RegionContent
	order   []string
	leases  map[string]uint64
	hook    RegionHook
	now     func() time.Time
}

type leaseKey struct{}

type regionLease struct {
	region     string
	generation uint64
}

// NewRegionBoard builds an empty board. hook may be nil.
func NewRegionBoard(hook RegionHook) *RegionBoard {
	if hook == nil {
		hook = noopRegionHook{}
	}
	return &RegionBoard{
		regions: make(map[string]*RegionContent),
		leases:  make(map[string]uint64),
		hook:    hook,
		now:     time.Now,
	}
}

// SetHook swaps the change hook.
func (b *RegionBoard) SetHook(hook RegionHook) {
	if hook == nil {
		hook = noopRegionHook{}
	}
	b.mu.Lock()
	b.hook = hook
	b.mu.Unlock()
}

// Define registers a region. Redefining keeps the current content.
func (b *RegionBoard) Define(id string, kind RegionKind) {
	if id == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if region, ok := b.regions[id]; ok {
		region.Kind = kind
		return
	}
	b.regions[id] = &RegionContent{ID: id, Kind: kind, State: StateEmpty, UpdatedAt: b.now()}
	b.order = append(b.order, id)
}

// Lease makes the caller the only writer of region id and returns ctx
// carrying the lease. Writes made with an older lease for the same region
// are dropped; writes without a lease always apply.
func (b *RegionBoard) Lease(ctx context.Context, id string) context.Context {
	b.mu.Lock()
	b.leases[id]++
	lease := regionLease{region: id, generation: b.leases[id]}
	b.mu.Unlock()
	return context.WithValue(ctx, leaseKey{}, lease)
}

// Current reports whether ctx holds no lease on id or the newest one.
func (b *RegionBoard) Current(ctx context.Context, id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current(ctx, id)
}

func (b *RegionBoard) current(ctx context.Context, id string) bool {
	lease, ok := ctx.Value(leaseKey{}).(regionLease)
	if !ok || lease.region != id {
		return true
	}
	return b.leases[id] == lease.generation
}

// Kind returns the kind of a region.
func (b *RegionBoard) Kind(id string) (RegionKind, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	region, ok := b.regions[id]
	if !ok {
		return "", false
	}
	return region.Kind, true
}

// ShowLoading marks the region as loading from source.
func (b *RegionBoard) ShowLoading(ctx context.Context, id, source string) bool {
	return b.update(ctx, id, "loading", func(r *RegionContent) bool {
		r.State = StateLoading
		r.Notice = &Notice{Key: MsgLoading, Args: []any{source}}
		r.Table = nil
		return true
	})
}

// ClearLoading empties the region if it is still loading.
func (b *RegionBoard) ClearLoading(ctx context.Context, id string) bool {
	return b.update(ctx, id, "loaded", func(r *RegionContent) bool {
		if r.State != StateLoading {
			return false
		}
		r.State = StateEmpty
		r.Notice = nil
		return true
	})
}

// ShowError replaces the region with an error notice.
func (b *RegionBoard) ShowError(ctx context.Context, id string, key MessageKey, args ...any) bool {
	return b.update(ctx, id, "error", func(r *RegionContent) bool {
		r.setNotice(StateError, key, args...)
		return true
	})
}

// ShowTable puts a table in the region.
func (b *RegionBoard) ShowTable(ctx context.Context, id string, table Table) bool {
	return b.update(ctx, id, "table", func(r *RegionContent) bool {
		r.State = StateTable
		r.Notice = nil
		r.Chart = nil
		r.Table = &table
		return true
	})
}

// ShowText puts a localized line of text in the region.
func (b *RegionBoard) ShowText(ctx context.Context, id string, key MessageKey, args ...any) bool {
	return b.update(ctx, id, "text", func(r *RegionContent) bool {
		r.setNotice(StateText, key, args...)
		return true
	})
}

// Region returns a copy of one region.
func (b *RegionBoard) Region(id string) (RegionContent, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	region, ok := b.regions[id]
	if !ok {
		return RegionContent{}, false
	}
	return *region, true
}

// Regions returns copies of every region in definition order.
func (b *RegionBoard) Regions() []RegionContent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]RegionContent, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.regions[id])
	}
	return out
}

// IDs returns the region ids in definition order.
func (b *RegionBoard) IDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.order)
}

// update applies a change under the board lock and reports whether it
// happened. Writes from a superseded lease never reach apply.
func (b *RegionBoard) update(ctx context.Context, id, reason string, apply func(*RegionContent) bool) bool {
	if id == "" {
		return false
	}
	b.mu.Lock()
	if !b.current(ctx, id) {
		b.mu.Unlock()
		return false
	}
	region, ok := b.regions[id]
	if !ok {
		region = &RegionContent{ID: id, Kind: inferRegionKind(id), State: StateEmpty}
		b.regions[id] = region
		b.order = append(b.order, id)
	}
	if !apply(region) {
		b.mu.Unlock()
		return false
	}
	region.Version++
	region.UpdatedAt = b.now()
	event := RegionEvent{RegionID: id, State: region.State, Version: region.Version, Reason: reason}
	hook := b.hook
	b.mu.Unlock()

	_ = hook.RegionUpdated(context.WithoutCancel(ctx), event)
	return true
}

func inferRegionKind(id string) RegionKind {
	lower := strings.ToLower(id)
	switch {
	case strings.Contains(lower, "table"):
		return RegionTable
	case strings.Contains(lower, "display"), strings.Contains(lower, "date-time"):
		return RegionDisplay
	default:
		return RegionChart
	}
}
