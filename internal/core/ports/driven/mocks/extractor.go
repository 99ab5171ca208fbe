package mocks

import (
	"context"

	"github.com/civita-labs/flipwatch-core/internal/core/domain"
)

// MockExtractor is a configurable AttachmentExtractor for testing.
type MockExtractor struct {
	ExtractTextFn func(ctx context.Context, ref domain.AttachmentRef) (string, error)

	ExtractCalls int
}

// NewMockExtractor creates an extractor that returns empty text by default.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

func (m *MockExtractor) ExtractText(ctx context.Context, ref domain.AttachmentRef) (string, error) {
	m.ExtractCalls++
	if m.ExtractTextFn != nil {
		return m.ExtractTextFn(ctx, ref)
	}
	return "", nil
}
