package port

import (
	"context"

	"github.com/google/uuid"

	"pimflow/internal/domain"
)

// BatchRepository persists invoice batches.
type BatchRepository interface {
	Create(ctx context.Context, batch *domain.InvoiceBatch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceBatch, error)
	List(ctx context.Context, filter domain.BatchFilter, offset, limit int, sort domain.BatchSort) ([]domain.InvoiceBatch, int, error)
	UpdateResult(ctx context.Context, batch *domain.InvoiceBatch) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BatchStatus, failureMessage string) error
	// ClaimQueued atomically moves up to limit queued batches to processing
	// and returns them, so concurrent workers never pick up the same batch.
	ClaimQueued(ctx context.Context, limit int) ([]domain.InvoiceBatch, error)
}

// ProductRepository persists normalized products.
type ProductRepository interface {
	BulkInsert(ctx context.Context, products []domain.Product) error
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]domain.Product, error)
}
