package dashboard

import (
	"slices"
	"sync"
	"time"
)

// ChartInstance is a drawn chart surface bound to a region.
type ChartInstance struct {
	ID        string
	RegionID  string
	Kind      ChartKind
	Title     string
	HTML      string
	Spec      ChartSpec
	CreatedAt time.Time

	mu        sync.Mutex
	destroyed bool
}

// Destroy releases the surface. It reports true only on the first call.
func (c *ChartInstance) Destroy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return false
	}
	c.destroyed = true
	c.HTML = ""
	return true
}

// Destroyed reports whether Destroy has run.
func (c *ChartInstance) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Markup returns the rendered HTML, empty once destroyed.
func (c *ChartInstance) Markup() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.HTML
}

// ChartRegistry tracks the live chart per region for one dashboard.
type ChartRegistry struct {
	mu        sync.Mutex
	instances map[string]*ChartInstance
}

// NewChartRegistry builds an empty registry.
func NewChartRegistry() *ChartRegistry {
	return &ChartRegistry{instances: make(map[string]*ChartInstance)}
}

// Replace stores instance for its region and destroys whatever was there.
func (r *ChartRegistry) Replace(instance *ChartInstance) {
	if instance == nil {
		return
	}
	r.mu.Lock()
	previous := r.instances[instance.RegionID]
	r.instances[instance.RegionID] = instance
	r.mu.Unlock()
	if previous != nil && previous != instance {
		previous.Destroy()
	}
}

// Discard destroys and forgets the chart for regionID.
func (r *ChartRegistry) Discard(regionID string) bool {
	r.mu.Lock()
	previous, ok := r.instances[regionID]
	delete(r.instances, regionID)
	r.mu.Unlock()
	if !ok {
		return false
	}
	previous.Destroy()
	return true
}

// Get returns the live chart for regionID.
func (r *ChartRegistry) Get(regionID string) (*ChartInstance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	instance, ok := r.instances[regionID]
	return instance, ok
}

// Live counts charts that have not been destroyed.
func (r *ChartRegistry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, instance := range r.instances {
		if !instance.Destroyed() {
			count++
		}
	}
	return count
}

// Instances returns the live charts ordered by region id.
func (r *ChartRegistry) Instances() []*ChartInstance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ChartInstance, 0, len(r.instances))
	for _, instance := range r.instances {
		out = append(out, instance)
	}
	slices.SortFunc(out, func(a, b *ChartInstance) int {
		switch {
		case a.RegionID < b.RegionID:
			return -1
		case a.RegionID > b.RegionID:
			return 1
		default:
			return 0
		}
	})
	return out
}
