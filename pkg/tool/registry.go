package tool

import (
	"fmt"
	"sync"
)

// Registry holds the tools a server advertises. Registration happens once at
// process start; listing order is the registration order and is stable for
// the process lifetime.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Descriptor
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Descriptor),
	}
}

// Register adds a descriptor. It fails if the name is already taken, the
// descriptor is incomplete, or its argument schema is malformed.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if d.Handler == nil {
		return fmt.Errorf("tool %q: handler is required", d.Name)
	}
	if err := d.Args.Check(); err != nil {
		return fmt.Errorf("tool %q: invalid argument schema: %w", d.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("tool %q: already registered", d.Name)
	}
	r.byName[d.Name] = &d
	r.order = append(r.order, d.Name)
	return nil
}

// MustRegister registers a set of descriptors, panicking on error.
// Intended for integration wiring at process start, where a registration
// failure is a programming error.
func (r *Registry) MustRegister(descriptors ...Descriptor) {
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the descriptor for name, or nil if unknown.
func (r *Registry) Lookup(name string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// List returns all descriptors in registration order.
func (r *Registry) List() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
