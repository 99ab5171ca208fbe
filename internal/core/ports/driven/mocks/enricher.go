package mocks

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// MockEnricher is a configurable Enricher for testing.
type MockEnricher struct {
	EnrichFn func(ctx context.Context, item *domain.DecisionItem) (*domain.ImpactProfile, error)

	EnrichCalls int
}

// NewMockEnricher creates an enricher that returns an empty profile by
// default.
func NewMockEnricher() *MockEnricher {
	return &MockEnricher{}
}

func (m *MockEnricher) Enrich(ctx context.Context, item *domain.DecisionItem) (*domain.ImpactProfile, error) {
	m.EnrichCalls++
	if m.EnrichFn != nil {
		return m.EnrichFn(ctx, item)
	}
	return &domain.ImpactProfile{}, nil
}

func (m *MockEnricher) Model() string {
	return "mock-model"
}
