package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Stopper is implemented by instances that need to release resources on
// shutdown.
type Stopper interface {
	Stop(ctx context.Context) error
}

// RegistryEntry is one loaded service.
type RegistryEntry struct {
	Name     string
	Group    int
	Instance Instance
}

// Registry is the name to instance mapping produced by a boot. It remembers
// load order so shutdown can run in reverse.
type Registry struct {
	mu      sync.RWMutex
	entries []RegistryEntry
	index   map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

func (r *Registry) add(group int, names []string, loaded map[string]Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// names keeps the definition order; loaded is unordered.
	for _, name := range names {
		instance, ok := loaded[name]
		if !ok {
			continue
		}
		r.index[name] = len(r.entries)
		r.entries = append(r.entries, RegistryEntry{Name: name, Group: group, Instance: instance})
	}
}

// Get returns the instance registered under name.
func (r *Registry) Get(name string) (Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].Instance, true
}

// Names returns the registered names in load order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries in load order.
func (r *Registry) Entries() []RegistryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RegistryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Instances returns the registry as a plain map.
func (r *Registry) Instances() map[string]Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Instance, len(r.entries))
	for _, e := range r.entries {
		out[e.Name] = e.Instance
	}
	return out
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Shutdown stops every instance implementing Stopper in reverse load order.
// All instances are attempted; their errors are joined.
func (r *Registry) Shutdown(ctx context.Context) error {
	entries := r.Entries()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		stopper, ok := entries[i].Instance.(Stopper)
		if !ok {
			continue
		}
		if err := stopper.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", entries[i].Name, err))
		}
	}
	return errors.Join(errs...)
}
