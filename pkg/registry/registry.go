package registry

import (
	"slices"
	"sync"

	"github.com/aretw0/actionpack/pkg/domain"
)

// Registry maps names to entries. A name can be registered once; entries are
// never replaced or removed.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
	order   []string
}

// New creates a new empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]T),
	}
}

// Register adds an entry under name.
// It fails with domain.ErrDuplicateDeclaration, leaving the registry unchanged,
// if name is already taken.
func (r *Registry[T]) Register(name string, entry T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return &domain.DeclarationError{Name: name, Err: domain.ErrDuplicateDeclaration}
	}
	r.entries[name] = entry
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the entry registered under name, or
// domain.ErrUndeclaredAction.
func (r *Registry[T]) Lookup(name string) (T, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, &domain.DeclarationError{Name: name, Err: domain.ErrUndeclaredAction}
	}
	return entry, nil
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns the registered names in registration order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}
