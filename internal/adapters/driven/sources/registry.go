package sources

import (
	"fmt"
	"sort"
	"sync"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.AdapterRegistry = (*Registry)(nil)

// Registry maps municipalities to their source adapters. New municipalities
// are added by implementing driven.SourceAdapter and registering it here;
// nothing else changes.
type Registry struct {
	mu       sync.RWMutex
	adapters map[domain.Municipality]driven.SourceAdapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[domain.Municipality]driven.SourceAdapter),
	}
}

// Register registers an adapter under its municipality. Re-registering a
// municipality replaces the previous adapter.
func (r *Registry) Register(adapter driven.SourceAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.Municipality()] = adapter
}

// Get returns the adapter for a municipality.
func (r *Registry) Get(municipality domain.Municipality) (driven.SourceAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[municipality]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMunicipality, municipality)
	}
	return adapter, nil
}

// Municipalities returns every registered municipality in stable order.
func (r *Registry) Municipalities() []domain.Municipality {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Municipality, 0, len(r.adapters))
	for m := range r.adapters {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
