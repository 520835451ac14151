package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pimflow/internal/config"
	"pimflow/internal/domain"
	"pimflow/internal/port"
)

// BatchService exposes the batch read model consumed by callers.
type BatchService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceBatch, error)
	List(ctx context.Context, filter domain.BatchFilter, offset, limit int, sort domain.BatchSort) ([]domain.InvoiceBatch, int, error)
	Products(ctx context.Context, batchID uuid.UUID) ([]domain.Product, error)
	// GetDownloadURL regenerates a time-limited link to the archived PDF.
	GetDownloadURL(ctx context.Context, batchID uuid.UUID) (string, time.Time, error)
}

type batchService struct {
	batchRepo   port.BatchRepository
	productRepo port.ProductRepository
	storage     port.ObjectStorage
	cfg         *config.S3Config
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(
	batchRepo port.BatchRepository,
	productRepo port.ProductRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) BatchService {
	return &batchService{
		batchRepo:   batchRepo,
		productRepo: productRepo,
		storage:     storage,
		cfg:         cfg,
	}
}

func (s *batchService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceBatch, error) {
	return s.batchRepo.GetByID(ctx, id)
}

func (s *batchService) List(ctx context.Context, filter domain.BatchFilter, offset, limit int, sort domain.BatchSort) ([]domain.InvoiceBatch, int, error) {
	return s.batchRepo.List(ctx, filter, offset, limit, sort)
}

func (s *batchService) Products(ctx context.Context, batchID uuid.UUID) ([]domain.Product, error) {
	if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
		return nil, err
	}
	return s.productRepo.ListByBatch(ctx, batchID)
}

func (s *batchService) GetDownloadURL(ctx context.Context, batchID uuid.UUID) (string, time.Time, error) {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return "", time.Time{}, err
	}
	url, err := s.storage.GetPresignedURL(ctx, batch.S3Bucket, batch.S3Key, s.cfg.PresignExpiry)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().UTC().Add(time.Duration(s.cfg.PresignExpiry) * time.Second)
	return url, expiresAt, nil
}
