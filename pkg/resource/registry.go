package resource

import (
	"fmt"
	"sort"
	"sync"
)

// Registry indexes record kinds by name. It is meant to be populated once
// during an application's declaration phase and read thereafter; the kind map
// is guarded so lazy initialization from a single goroutine followed by
// concurrent reads is safe. Declaring attributes on an individual kind is not
// synchronized and must happen before the kind is shared.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Kind

	caster   Caster
	renderer Renderer
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithRenderer installs the markup renderer used by Record.RenderMarkup.
func WithRenderer(r Renderer) RegistryOption {
	return func(reg *Registry) {
		reg.renderer = r
	}
}

// NewRegistry constructs an empty registry around the supplied caster. It
// panics on a nil caster to surface configuration mistakes early.
func NewRegistry(caster Caster, options ...RegistryOption) *Registry {
	if caster == nil {
		panic("resource: caster is required")
	}
	reg := &Registry{
		kinds:  make(map[string]*Kind),
		caster: caster,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	return reg
}

// Define registers a new kind under name and returns it for declaration. The
// kind is visible in the registry immediately, so attributes may reference
// the kind being declared (self-referential schemas) or any kind defined
// earlier.
func (reg *Registry) Define(name string) (*Kind, error) {
	if name == "" {
		return nil, fmt.Errorf("resource: kind name is required")
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.kinds[name]; exists {
		return nil, fmt.Errorf("resource: kind %q already defined", name)
	}

	kind := &Kind{
		registry:    reg,
		name:        name,
		descriptors: make(map[string]Descriptor),
		container:   Container{Name: underscore(name)},
	}
	reg.kinds[name] = kind
	return kind, nil
}

// MustDefine is Define for declaration blocks where a failure is a programming
// error.
func (reg *Registry) MustDefine(name string) *Kind {
	kind, err := reg.Define(name)
	if err != nil {
		panic(err)
	}
	return kind
}

// Kind looks up a defined kind by name.
func (reg *Registry) Kind(name string) (*Kind, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	kind, ok := reg.kinds[name]
	return kind, ok
}

// Kinds returns the sorted names of every defined kind.
func (reg *Registry) Kinds() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.kinds))
	for name := range reg.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
