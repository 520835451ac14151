package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pimflow/internal/domain"
)

// MockContentExtractor is a mock implementation of pipeline.ContentExtractor.
type MockContentExtractor struct {
	mock.Mock
}

func (m *MockContentExtractor) Extract(ctx context.Context, pdfBytes []byte) (*domain.ExtractedContent, error) {
	args := m.Called(ctx, pdfBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedContent), args.Error(1)
}
