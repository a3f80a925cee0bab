package contract

import (
	"fmt"
	"sort"
	"strings"
)

// Factory creates a Caller instance.
type Factory func() (Caller, error)

// Registry maps backend names to factory functions.
// It is not safe for concurrent use; registration should happen at startup.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a named backend factory. Overwrites if name already exists.
// Panics if name is empty or f is nil (programmer error).
func (r *Registry) Register(name string, f Factory) {
	if name == "" {
		panic("contract: Register called with empty name")
	}
	if f == nil {
		panic("contract: Register called with nil factory")
	}
	r.factories[name] = f
}

// NewCaller instantiates a backend by name.
func (r *Registry) NewCaller(name string) (Caller, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &UnknownBackendError{
			Name:      name,
			Available: r.Available(),
		}
	}
	c, err := f()
	if err != nil {
		return nil, fmt.Errorf("contract: backend factory %q: %w", name, err)
	}
	return c, nil
}

// Available returns registered backend names in sorted order.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownBackendError indicates a backend name is not registered.
type UnknownBackendError struct {
	Name      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("contract: unknown backend %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
