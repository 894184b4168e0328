// Package resolver computes transitive dependency closures over the catalog
// in a stable bottom-up order, and expands virtual components to their
// hosts.
package resolver

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/catalog"
)

// Resolved is one element of a dependency closure.
type Resolved struct {
	Name  string `json:"name"`
	Layer int    `json:"layer"`
	Kind  string `json:"kind"`
}

// Resolver walks declared dependencies depth-first and memoizes the closure
// per root name. The cache is append-only: the catalog never changes, so
// entries are computed at most once and never invalidated.
type Resolver struct {
	store  *catalog.Store
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string][]Resolved
}

// New creates a resolver over the given store.
func New(store *catalog.Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:  store,
		logger: logger,
		cache:  make(map[string][]Resolved),
	}
}

// Resolve returns the full transitive closure of name, bottom-up: every
// dependency appears before its dependents, and name itself is last. A
// component reachable via multiple paths appears exactly once, at the
// position of its first visit. Unknown root names are an error; unknown
// declared dependencies are skipped and logged - a data-quality issue, not
// a resolver failure.
func (r *Resolver) Resolve(name string) ([]Resolved, error) {
	rec, ok := r.store.Get(name)
	if !ok {
		return nil, fmt.Errorf("component not found: %s", name)
	}

	r.mu.RLock()
	if cached, ok := r.cache[rec.Name]; ok {
		r.mu.RUnlock()
		return copyResolved(cached), nil
	}
	r.mu.RUnlock()

	visited := make(map[string]struct{})
	var order []Resolved
	r.walk(rec, visited, &order)

	r.mu.Lock()
	// A concurrent caller may have populated the same key; the result is
	// identical either way, so last write wins.
	r.cache[rec.Name] = order
	r.mu.Unlock()

	return copyResolved(order), nil
}

// Dependencies returns Resolve(name) minus name itself.
func (r *Resolver) Dependencies(name string) ([]Resolved, error) {
	closure, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return closure[:len(closure)-1], nil
}

// walk recurses into every declared dependency before appending the current
// node, producing the bottom-up ordering. The visited guard makes the walk
// terminate even on malformed cyclic input: the second visit to an ancestor
// is skipped, never re-emitted.
func (r *Resolver) walk(rec *catalog.ComponentRecord, visited map[string]struct{}, order *[]Resolved) {
	if _, seen := visited[rec.Name]; seen {
		return
	}
	visited[rec.Name] = struct{}{}

	for _, depName := range rec.Dependencies {
		dep, ok := r.store.Get(depName)
		if !ok {
			r.logger.Warn("skipping unknown declared dependency",
				zap.String("component", rec.Name),
				zap.String("dependency", depName),
			)
			continue
		}
		r.walk(dep, visited, order)
	}

	*order = append(*order, Resolved{Name: rec.Name, Layer: rec.Layer, Kind: rec.Kind})
}

// copyResolved returns a defensive copy so callers cannot mutate the cache.
func copyResolved(in []Resolved) []Resolved {
	out := make([]Resolved, len(in))
	copy(out, in)
	return out
}
