package mocks

import (
	"context"
	"sync"
	"time"
)

// MockRunLock is an in-memory RunLock for testing.
type MockRunLock struct {
	mu   sync.Mutex
	held map[string]bool

	AcquireErr error
}

// NewMockRunLock creates a new MockRunLock.
func NewMockRunLock() *MockRunLock {
	return &MockRunLock{held: make(map[string]bool)}
}

func (m *MockRunLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AcquireErr != nil {
		return false, m.AcquireErr
	}
	if m.held[name] {
		return false, nil
	}
	m.held[name] = true
	return true, nil
}

func (m *MockRunLock) Release(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, name)
	return nil
}
