package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pimflow/internal/domain"
)

// MockBatchRepo is a mock implementation of port.BatchRepository.
type MockBatchRepo struct {
	mock.Mock
}

func (m *MockBatchRepo) Create(ctx context.Context, batch *domain.InvoiceBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceBatch), args.Error(1)
}

func (m *MockBatchRepo) List(ctx context.Context, filter domain.BatchFilter, offset, limit int, sort domain.BatchSort) ([]domain.InvoiceBatch, int, error) {
	args := m.Called(ctx, filter, offset, limit, sort)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.InvoiceBatch), args.Int(1), args.Error(2)
}

func (m *MockBatchRepo) UpdateResult(ctx context.Context, batch *domain.InvoiceBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BatchStatus, failureMessage string) error {
	args := m.Called(ctx, id, status, failureMessage)
	return args.Error(0)
}

func (m *MockBatchRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.InvoiceBatch, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceBatch), args.Error(1)
}
