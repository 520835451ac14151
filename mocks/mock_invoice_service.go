package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pimflow/internal/domain"
	"pimflow/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) ProcessInvoice(ctx context.Context, input service.ProcessInput) (*domain.ProcessingOutcome, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessingOutcome), args.Error(1)
}

func (m *MockInvoiceService) ParseOnly(ctx context.Context, data []byte) (*domain.ParsingResult, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsingResult), args.Error(1)
}

func (m *MockInvoiceService) Enqueue(ctx context.Context, input service.ProcessInput) (*domain.InvoiceBatch, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceBatch), args.Error(1)
}

func (m *MockInvoiceService) ProcessBatch(ctx context.Context, batch *domain.InvoiceBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}
