package mocks

import (
	"context"
	"sync"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// MockActorStore is an in-memory ActorStore for testing.
type MockActorStore struct {
	mu     sync.RWMutex
	actors map[domain.Municipality][]*domain.ActorFingerprint

	ListErr error
}

// NewMockActorStore creates a new MockActorStore.
func NewMockActorStore() *MockActorStore {
	return &MockActorStore{actors: make(map[domain.Municipality][]*domain.ActorFingerprint)}
}

// Add seeds a fingerprint into the registry.
func (m *MockActorStore) Add(actor *domain.ActorFingerprint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actors[actor.Municipality] = append(m.actors[actor.Municipality], actor)
}

func (m *MockActorStore) ListByMunicipality(ctx context.Context, mun domain.Municipality) ([]*domain.ActorFingerprint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.actors[mun], nil
}
