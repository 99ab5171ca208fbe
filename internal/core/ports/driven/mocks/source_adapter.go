package mocks

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
	"github.com/civita-labs/flipwatch-core/internal/core/ports/driven"
)

// MockSourceAdapter is a configurable SourceAdapter for testing.
type MockSourceAdapter struct {
	MunicipalityVal domain.Municipality
	ListItemsFn     func(ctx context.Context, limit int) ([]domain.SourceItem, error)
	FetchDetailFn   func(ctx context.Context, item domain.SourceItem) (*domain.SourceDetail, error)

	ListCalls  int
	FetchCalls int
}

// NewMockSourceAdapter creates an adapter that lists nothing by default.
func NewMockSourceAdapter(m domain.Municipality) *MockSourceAdapter {
	return &MockSourceAdapter{MunicipalityVal: m}
}

func (m *MockSourceAdapter) Municipality() domain.Municipality {
	return m.MunicipalityVal
}

func (m *MockSourceAdapter) ListItems(ctx context.Context, limit int) ([]domain.SourceItem, error) {
	m.ListCalls++
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, limit)
	}
	return nil, nil
}

func (m *MockSourceAdapter) FetchDetail(ctx context.Context, item domain.SourceItem) (*domain.SourceDetail, error) {
	m.FetchCalls++
	if m.FetchDetailFn != nil {
		return m.FetchDetailFn(ctx, item)
	}
	return &domain.SourceDetail{}, nil
}

// MockAdapterRegistry is a fixed-map AdapterRegistry for testing.
type MockAdapterRegistry struct {
	Adapters map[domain.Municipality]*MockSourceAdapter
}

// NewMockAdapterRegistry creates an empty registry.
func NewMockAdapterRegistry() *MockAdapterRegistry {
	return &MockAdapterRegistry{Adapters: make(map[domain.Municipality]*MockSourceAdapter)}
}

// Register adds an adapter to the registry.
func (r *MockAdapterRegistry) Register(a *MockSourceAdapter) {
	r.Adapters[a.Municipality()] = a
}

func (r *MockAdapterRegistry) Get(m domain.Municipality) (driven.SourceAdapter, error) {
	a, ok := r.Adapters[m]
	if !ok {
		return nil, domain.ErrUnknownMunicipality
	}
	return a, nil
}

func (r *MockAdapterRegistry) Municipalities() []domain.Municipality {
	var out []domain.Municipality
	for m := range r.Adapters {
		out = append(out, m)
	}
	return out
}
