// Package kinds provides the kind registry and the builtin node kinds used
// by patch documents: numeric sources, arithmetic, blending and string
// concatenation.
package kinds

import (
	"sort"
	"sync"

	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
)

// Registry is a concurrency-safe kind registry.
type Registry struct {
	mu    sync.RWMutex
	kinds map[domain.Name]ports.Kind
}

var _ ports.KindRegistry = (*Registry)(nil)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[domain.Name]ports.Kind)}
}

// NewBuiltinRegistry creates a Registry preloaded with the builtin kinds.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, k := range Builtins() {
		r.Register(k)
	}
	return r
}

// Register adds a kind under its spec name, replacing any previous
// registration.
func (r *Registry) Register(k ports.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k.Spec().Kind] = k
}

// Resolve returns the kind registered under name.
func (r *Registry) Resolve(name domain.Name) (ports.Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// Kinds lists registered kind names, sorted for stable output.
func (r *Registry) Kinds() []domain.Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]domain.Name, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].String() < names[j].String() })
	return names
}
