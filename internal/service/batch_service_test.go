package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pimflow/internal/config"
	"pimflow/internal/domain"
	"pimflow/internal/service"
	"pimflow/mocks"
)

func TestBatchService_Products(t *testing.T) {
	batchRepo := new(mocks.MockBatchRepo)
	productRepo := new(mocks.MockProductRepo)
	svc := service.NewBatchService(batchRepo, productRepo, new(mocks.MockObjectStorage), &config.S3Config{})

	batchID := uuid.New()
	batchRepo.On("GetByID", mock.Anything, batchID).Return(&domain.InvoiceBatch{ID: batchID}, nil)
	productRepo.On("ListByBatch", mock.Anything, batchID).Return([]domain.Product{{SupplierSKU: "LF1142"}}, nil)

	products, err := svc.Products(context.Background(), batchID)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestBatchService_ProductsUnknownBatch(t *testing.T) {
	batchRepo := new(mocks.MockBatchRepo)
	productRepo := new(mocks.MockProductRepo)
	svc := service.NewBatchService(batchRepo, productRepo, new(mocks.MockObjectStorage), &config.S3Config{})

	batchID := uuid.New()
	batchRepo.On("GetByID", mock.Anything, batchID).Return(nil, domain.ErrNotFound)

	_, err := svc.Products(context.Background(), batchID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	productRepo.AssertNotCalled(t, "ListByBatch", mock.Anything, mock.Anything)
}

func TestBatchService_GetDownloadURL(t *testing.T) {
	batchRepo := new(mocks.MockBatchRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewBatchService(batchRepo, new(mocks.MockProductRepo), storage, &config.S3Config{PresignExpiry: 3600})

	batchID := uuid.New()
	batchRepo.On("GetByID", mock.Anything, batchID).Return(&domain.InvoiceBatch{
		ID:       batchID,
		S3Bucket: "test-bucket",
		S3Key:    "invoices/lawnfawn/2025/07/1_summer.pdf",
	}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "invoices/lawnfawn/2025/07/1_summer.pdf", int64(3600)).
		Return("https://signed.example.com/x", nil)

	url, expiresAt, err := svc.GetDownloadURL(context.Background(), batchID)
	require.NoError(t, err)

	assert.Equal(t, "https://signed.example.com/x", url)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), expiresAt, 5*time.Second)
}
