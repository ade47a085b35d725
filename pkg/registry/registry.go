// Package registry provides an explicit, named-decorator registry, in
// place of hidden module-global state
// state. Uses a Named lock adapted here to guard registration instead
// of per-resource access.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/hoard/internal/lock"
	"github.com/yourusername/hoard/pkg/decorator"
)

// Registry maps names to registered Decorators. The zero value is not
// usable; construct with New.
type Registry struct {
	mu    sync.RWMutex
	named *lock.Named
	items map[string]*decorator.Decorator
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{named: lock.NewNamed(), items: make(map[string]*decorator.Decorator)}
}

// Register adds d under name, failing if name is already taken. Use
// Replace to overwrite deliberately.
func (r *Registry) Register(name string, d *decorator.Decorator) error {
	unlock := r.named.Lock(name)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[name]; exists {
		return fmt.Errorf("registry: %q already registered", name)
	}
	r.items[name] = d
	return nil
}

// RegisterAnonymous registers d under a freshly generated name (a
// UUID), returning the name assigned.
func (r *Registry) RegisterAnonymous(d *decorator.Decorator) string {
	name := uuid.NewString()
	// A UUID collision with an existing name is astronomically
	// unlikely; Register can only fail on a name collision, which would
	// indicate UUID generation itself is broken.
	_ = r.Register(name, d)
	return name
}

// Replace registers d under name, overwriting any existing entry.
func (r *Registry) Replace(name string, d *decorator.Decorator) {
	unlock := r.named.Lock(name)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[name] = d
}

// Get returns the Decorator registered under name, if any.
func (r *Registry) Get(name string) (*decorator.Decorator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[name]
	return d, ok
}

// Unregister removes name from the registry, if present.
func (r *Registry) Unregister(name string) {
	unlock := r.named.Lock(name)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, name)
}

// Names returns every currently registered name, in no particular
// order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for n := range r.items {
		names = append(names, n)
	}
	return names
}

var defaultRegistry = New()

// Default returns a process-wide Registry for callers that want
// a module-global convenience. Nothing in this module depends
// on it internally — it exists purely as an opt-in convenience.
func Default() *Registry { return defaultRegistry }
