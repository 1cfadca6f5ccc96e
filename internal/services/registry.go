package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"stagehand/internal/definition"
	"stagehand/internal/orchestrator"
)

// Factory builds the instance for one definition.
type Factory func(ctx context.Context, def definition.Definition) (orchestrator.Instance, error)

// UnknownTypeError is returned when no factory is registered for a
// definition's type.
type UnknownTypeError struct {
	Service string
	Type    string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("service %s: no factory registered for type %q", e.Service, e.Type)
}

// Registry maps definition types to factories.
type Registry struct {
	mu          sync.RWMutex
	factories   map[string]Factory
	defaultType string
}

// NewRegistry creates an empty registry whose default type is "static".
func NewRegistry() *Registry {
	return &Registry{
		factories:   make(map[string]Factory),
		defaultType: TypeStatic,
	}
}

// Register adds a factory for serviceType.
func (r *Registry) Register(serviceType string, factory Factory) error {
	if serviceType == "" {
		return fmt.Errorf("cannot register factory with empty type")
	}
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for type %s", serviceType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[serviceType]; exists {
		return fmt.Errorf("factory for type %s already registered", serviceType)
	}
	r.factories[serviceType] = factory
	return nil
}

// SetDefaultType sets the type used for definitions without one.
func (r *Registry) SetDefaultType(serviceType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultType = serviceType
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Get returns the factory for serviceType.
func (r *Registry) Get(serviceType string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[serviceType]
	return f, ok
}

// Load resolves the factory for def and calls it.
func (r *Registry) Load(ctx context.Context, def definition.Definition) (orchestrator.Instance, error) {
	r.mu.RLock()
	serviceType := def.Type
	if serviceType == "" {
		serviceType = r.defaultType
	}
	factory, ok := r.factories[serviceType]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownTypeError{Service: def.Name, Type: serviceType}
	}
	return factory(ctx, def)
}

// Loader adapts the registry to the orchestrator.
func (r *Registry) Loader() orchestrator.Loader {
	return r.Load
}

// RegisterBuiltins registers the static and exec factories.
func RegisterBuiltins(r *Registry) error {
	if err := r.Register(TypeStatic, NewStaticService); err != nil {
		return err
	}
	return r.Register(TypeExec, NewExecService)
}
