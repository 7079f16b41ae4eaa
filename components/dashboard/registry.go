package dashboard

import (
	"fmt"
	"slices"
	"sync"
)

// IndicatorHook lets packages register indicators, sections or loaders
// during init().
type IndicatorHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []IndicatorHook
)

// RegisterIndicatorHook registers a hook executed against new registries.
func RegisterIndicatorHook(h IndicatorHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores indicator definitions, sections and the loaders for each
// indicator kind. Registration order is display order.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[string]IndicatorDefinition
	order        []string
	sections     map[string]SectionDefinition
	sectionOrder []string
	loaders      map[IndicatorKind]Loader
}

// NewRegistry builds a registry with the built-in loaders and applies
// global hooks. It holds no indicators until RegisterDefaults or a manifest
// adds them.
func NewRegistry() *Registry {
	reg := &Registry{
		definitions: map[string]IndicatorDefinition{},
		sections:    map[string]SectionDefinition{},
		loaders:     map[IndicatorKind]Loader{},
	}
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

func (r *Registry) registerDefaults() {
	for kind, loader := range defaultLoaders() {
		_ = r.RegisterLoader(kind, loader)
	}
}

// ApplyHooks executes registered indicator hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterSection stores a section. Re-registering a code replaces it in place.
func (r *Registry) RegisterSection(section SectionDefinition) error {
	if section.Code == "" {
		return fmt.Errorf("dashboard: section code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sections[section.Code]; !exists {
		r.sectionOrder = append(r.sectionOrder, section.Code)
	}
	r.sections[section.Code] = section
	return nil
}

// RegisterDefinition stores indicator metadata. Re-registering a code
// replaces it in place.
func (r *Registry) RegisterDefinition(def IndicatorDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("dashboard: indicator code is required")
	}
	if def.Kind == "" {
		return fmt.Errorf("dashboard: indicator %s has no kind", def.Code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[def.Code]; !exists {
		r.order = append(r.order, def.Code)
	}
	r.definitions[def.Code] = def
	return nil
}

// RegisterLoader associates a loader with an indicator kind.
func (r *Registry) RegisterLoader(kind IndicatorKind, loader Loader) error {
	if kind == "" {
		return fmt.Errorf("dashboard: indicator kind is required to register loader")
	}
	if loader == nil {
		return fmt.Errorf("dashboard: loader cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[kind] = loader
	return nil
}

// Definition fetches an indicator by code.
func (r *Registry) Definition(code string) (IndicatorDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// DefinitionByRegion finds the indicator drawn into regionID.
func (r *Registry) DefinitionByRegion(regionID string) (IndicatorDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, code := range r.order {
		if def := r.definitions[code]; def.RegionID() == regionID {
			return def, true
		}
	}
	return IndicatorDefinition{}, false
}

// Loader fetches the loader for kind.
func (r *Registry) Loader(kind IndicatorKind) (Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loader, ok := r.loaders[kind]
	return loader, ok
}

// Definitions returns indicators in registration order.
func (r *Registry) Definitions() []IndicatorDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]IndicatorDefinition, 0, len(r.order))
	for _, code := range r.order {
		defs = append(defs, r.definitions[code])
	}
	return defs
}

// Sections returns sections in registration order.
func (r *Registry) Sections() []SectionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sections := make([]SectionDefinition, 0, len(r.sectionOrder))
	for _, code := range r.sectionOrder {
		sections = append(sections, r.sections[code])
	}
	return sections
}

// Kinds lists the indicator kinds with a loader.
func (r *Registry) Kinds() []IndicatorKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]IndicatorKind, 0, len(r.loaders))
	for kind := range r.loaders {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
