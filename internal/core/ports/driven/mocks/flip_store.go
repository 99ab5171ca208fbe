package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// MockFlipStore is an in-memory FlipStore for testing. It mimics the
// real store's (actor, decision, axis) uniqueness.
type MockFlipStore struct {
	mu      sync.RWMutex
	records map[string]*domain.FlipRecord // key: actor:decision:axis

	InsertErr error
}

// NewMockFlipStore creates a new MockFlipStore.
func NewMockFlipStore() *MockFlipStore {
	return &MockFlipStore{records: make(map[string]*domain.FlipRecord)}
}

func flipKey(rec *domain.FlipRecord) string {
	return fmt.Sprintf("%s:%s:%s", rec.ActorID, rec.DecisionItemID, rec.Axis)
}

func (m *MockFlipStore) Insert(ctx context.Context, rec *domain.FlipRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return false, m.InsertErr
	}
	key := flipKey(rec)
	if _, ok := m.records[key]; ok {
		return false, nil
	}
	copied := *rec
	m.records[key] = &copied
	return true, nil
}

func (m *MockFlipStore) ListByDecision(ctx context.Context, decisionItemID string) ([]*domain.FlipRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.FlipRecord
	for _, rec := range m.records {
		if rec.DecisionItemID == decisionItemID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MockFlipStore) CountByMunicipality(ctx context.Context, mun domain.Municipality) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Count returns the total number of stored records.
func (m *MockFlipStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
