package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds named factories for one provider kind. The binary
// registers every backend it links at startup; the session then names
// the one to construct. Registration and creation are safe for
// concurrent use, though the worker does both from a single goroutine.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// RegisterFactory registers a factory under name, replacing any
// previous registration.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create builds a provider through the named factory. Asking for an
// unregistered name is a configuration mistake, so the error spells out
// what is available.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider %q is not registered (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	return factory(cfg)
}

// Names returns the registered provider names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
