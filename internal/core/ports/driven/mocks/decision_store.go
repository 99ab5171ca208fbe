package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// MockDecisionStore is an in-memory DecisionStore for testing.
type MockDecisionStore struct {
	mu    sync.RWMutex
	items map[string]*domain.DecisionItem // key: source_id

	UpsertErr error
	ExistsErr error

	UpsertCalls int
}

// NewMockDecisionStore creates a new MockDecisionStore.
func NewMockDecisionStore() *MockDecisionStore {
	return &MockDecisionStore{items: make(map[string]*domain.DecisionItem)}
}

func (m *MockDecisionStore) Upsert(ctx context.Context, item *domain.DecisionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	copied := *item
	m.items[item.SourceID] = &copied
	return nil
}

func (m *MockDecisionStore) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, ok := m.items[sourceID]
	return ok, nil
}

func (m *MockDecisionStore) GetBySourceID(ctx context.Context, sourceID string) (*domain.DecisionItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[sourceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (m *MockDecisionStore) ListByMunicipality(ctx context.Context, mun domain.Municipality, limit, offset int) ([]*domain.DecisionItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.DecisionItem
	for _, item := range m.items {
		if item.Municipality == mun {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceID < out[j].SourceID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockDecisionStore) CountByMunicipality(ctx context.Context, mun domain.Municipality) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, item := range m.items {
		if item.Municipality == mun {
			count++
		}
	}
	return count, nil
}

// Count returns the total number of stored items.
func (m *MockDecisionStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
