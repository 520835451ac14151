package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"pimflow/internal/config"
	"pimflow/internal/domain"
	"pimflow/internal/pipeline"
	"pimflow/internal/pipeline/extract"
	"pimflow/internal/port"
)

// ProcessInput is the DTO for invoice processing requests.
type ProcessInput struct {
	Filename string
	Data     []byte
}

// InvoiceService is the orchestration entry point over the parsing pipeline
// and its persistence/storage collaborators.
type InvoiceService interface {
	// ProcessInvoice parses the PDF synchronously, persists the batch and
	// products, and archives the original file. Handled failures are encoded
	// in the outcome, never returned as errors.
	ProcessInvoice(ctx context.Context, input ProcessInput) (*domain.ProcessingOutcome, error)
	// ParseOnly runs the pipeline without any persistence (dry runs, debugging).
	ParseOnly(ctx context.Context, data []byte) (*domain.ParsingResult, error)
	// Enqueue archives the PDF and records a queued batch for the background
	// worker to process.
	Enqueue(ctx context.Context, input ProcessInput) (*domain.InvoiceBatch, error)
	// ProcessBatch parses a previously enqueued batch. Used by the worker.
	ProcessBatch(ctx context.Context, batch *domain.InvoiceBatch) error
}

type invoiceService struct {
	pipe        *pipeline.Pipeline
	batchRepo   port.BatchRepository
	productRepo port.ProductRepository
	storage     port.ObjectStorage
	cfg         *config.S3Config
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	pipe *pipeline.Pipeline,
	batchRepo port.BatchRepository,
	productRepo port.ProductRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) InvoiceService {
	return &invoiceService{
		pipe:        pipe,
		batchRepo:   batchRepo,
		productRepo: productRepo,
		storage:     storage,
		cfg:         cfg,
	}
}

func (s *invoiceService) ParseOnly(ctx context.Context, data []byte) (*domain.ParsingResult, error) {
	if err := s.validate(data); err != nil {
		return nil, err
	}
	return s.pipe.Parse(ctx, data)
}

func (s *invoiceService) ProcessInvoice(ctx context.Context, input ProcessInput) (*domain.ProcessingOutcome, error) {
	if err := s.validate(input.Data); err != nil {
		return nil, err
	}

	result, err := s.pipe.Parse(ctx, input.Data)
	if err != nil {
		if failure := classifyParseFailure(err); failure != nil {
			log.Printf("invoiceService.ProcessInvoice: %s %q: %v", failure.Kind, input.Filename, err)
			return &domain.ProcessingOutcome{Failure: failure}, nil
		}
		return nil, err
	}

	if result.TotalProducts == 0 && result.Metadata.Empty() {
		log.Printf("invoiceService.ProcessInvoice: nothing recoverable from %q", input.Filename)
		return &domain.ProcessingOutcome{
			Result: result,
			Failure: &domain.ProcessingFailure{
				Kind:    domain.FailureEmptyDocument,
				Message: "no products and no invoice metadata could be recovered",
			},
		}, nil
	}

	uploadedAt := time.Now().UTC()
	key := StorageKey(result.Supplier, uploadedAt, input.Filename)
	batch := batchFromResult(result, input, uploadedAt, s.cfg.Bucket, key)

	if err := s.persist(ctx, batch, result); err != nil {
		log.Printf("invoiceService.ProcessInvoice: persistence failed for %q: %v", input.Filename, err)
		return &domain.ProcessingOutcome{
			BatchID: batch.ID,
			Result:  result,
			Failure: &domain.ProcessingFailure{
				Kind:    domain.FailurePersistence,
				Message: fmt.Sprintf("persisting batch: %v", err),
			},
		}, nil
	}

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.Data),
		ContentType: "application/pdf",
		Size:        int64(len(input.Data)),
	})
	if err != nil {
		log.Printf("invoiceService.ProcessInvoice: archival upload failed for batch %s: %v", batch.ID, err)
		_ = s.batchRepo.UpdateStatus(ctx, batch.ID, domain.BatchStatusFailed, "archival upload failed")
		return &domain.ProcessingOutcome{
			BatchID: batch.ID,
			Result:  result,
			Failure: &domain.ProcessingFailure{
				Kind:    domain.FailurePersistence,
				Message: fmt.Sprintf("archival upload: %v", err),
			},
		}, nil
	}

	log.Printf("invoiceService.ProcessInvoice: batch %s supplier=%s products=%d errors=%d rate=%.2f",
		batch.ID, result.Supplier, result.TotalProducts, len(result.ParsingErrors), result.ParsingSuccessRate)

	return &domain.ProcessingOutcome{
		BatchID:    batch.ID,
		Result:     result,
		StorageKey: key,
	}, nil
}

func (s *invoiceService) Enqueue(ctx context.Context, input ProcessInput) (*domain.InvoiceBatch, error) {
	if err := s.validate(input.Data); err != nil {
		return nil, err
	}

	uploadedAt := time.Now().UTC()
	key := fmt.Sprintf("invoices/incoming/%d_%s", uploadedAt.Unix(), SanitizeFilename(input.Filename))

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.Data),
		ContentType: "application/pdf",
		Size:        int64(len(input.Data)),
	})
	if err != nil {
		log.Printf("invoiceService.Enqueue: upload failed for %q: %v", input.Filename, err)
		return nil, domain.ErrUploadFailed
	}

	batch := &domain.InvoiceBatch{
		ID:               uuid.New(),
		OriginalFilename: input.Filename,
		FileSize:         int64(len(input.Data)),
		S3Bucket:         s.cfg.Bucket,
		S3Key:            key,
		Status:           domain.BatchStatusQueued,
		UploadedAt:       uploadedAt,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	log.Printf("invoiceService.Enqueue: batch %s queued (%s, %d bytes)", batch.ID, input.Filename, len(input.Data))
	return batch, nil
}

func (s *invoiceService) ProcessBatch(ctx context.Context, batch *domain.InvoiceBatch) error {
	data, err := s.storage.Download(ctx, batch.S3Bucket, batch.S3Key)
	if err != nil {
		_ = s.batchRepo.UpdateStatus(ctx, batch.ID, domain.BatchStatusFailed, fmt.Sprintf("downloading archived PDF: %v", err))
		return fmt.Errorf("downloading batch %s: %w", batch.ID, err)
	}

	result, err := s.pipe.Parse(ctx, data)
	if err != nil {
		msg := err.Error()
		if failure := classifyParseFailure(err); failure != nil {
			msg = failure.Message
		}
		_ = s.batchRepo.UpdateStatus(ctx, batch.ID, domain.BatchStatusFailed, msg)
		return fmt.Errorf("parsing batch %s: %w", batch.ID, err)
	}

	applyResult(batch, result)
	if result.TotalProducts == 0 && result.Metadata.Empty() {
		batch.Status = domain.BatchStatusFailed
		batch.FailureMessage = "no products and no invoice metadata could be recovered"
	}

	if err := s.batchRepo.UpdateResult(ctx, batch); err != nil {
		return fmt.Errorf("updating batch %s: %w", batch.ID, err)
	}
	if batch.Status != domain.BatchStatusCompleted {
		return nil
	}

	products := assignProducts(result.Products, batch.ID)
	if err := s.productRepo.BulkInsert(ctx, products); err != nil {
		_ = s.batchRepo.UpdateStatus(ctx, batch.ID, domain.BatchStatusFailed, fmt.Sprintf("inserting products: %v", err))
		return fmt.Errorf("inserting products for batch %s: %w", batch.ID, err)
	}

	log.Printf("invoiceService.ProcessBatch: batch %s completed, %d products", batch.ID, len(products))
	return nil
}

func (s *invoiceService) validate(data []byte) error {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return domain.ErrUnsupportedFileType
	}
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return domain.ErrFileTooLarge
	}
	return nil
}

func (s *invoiceService) persist(ctx context.Context, batch *domain.InvoiceBatch, result *domain.ParsingResult) error {
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return err
	}
	return s.productRepo.BulkInsert(ctx, assignProducts(result.Products, batch.ID))
}

func classifyParseFailure(err error) *domain.ProcessingFailure {
	if errors.Is(err, extract.ErrTimeout) {
		return &domain.ProcessingFailure{
			Kind:    domain.FailureExtractionTimeout,
			Message: "PDF extraction timed out",
		}
	}
	var exErr *extract.ExtractionError
	if errors.As(err, &exErr) {
		return &domain.ProcessingFailure{
			Kind:    domain.FailureExtraction,
			Message: exErr.Error(),
		}
	}
	return nil
}

func batchFromResult(result *domain.ParsingResult, input ProcessInput, uploadedAt time.Time, bucket, key string) *domain.InvoiceBatch {
	batch := &domain.InvoiceBatch{
		ID:               uuid.New(),
		OriginalFilename: input.Filename,
		FileSize:         int64(len(input.Data)),
		S3Bucket:         bucket,
		S3Key:            key,
		UploadedAt:       uploadedAt,
	}
	applyResult(batch, result)
	return batch
}

// applyResult copies the parsing outcome onto the batch row.
func applyResult(batch *domain.InvoiceBatch, result *domain.ParsingResult) {
	batch.SupplierCode = result.Supplier
	batch.InvoiceNumber = result.Metadata.InvoiceNumber
	batch.InvoiceDate = result.Metadata.InvoiceDate
	batch.InvoiceDateRaw = result.Metadata.InvoiceDateRaw
	batch.Currency = result.Metadata.Currency
	batch.TotalAmount = result.Metadata.TotalAmount
	batch.TotalProducts = result.TotalProducts
	batch.ErrorCount = len(result.ParsingErrors)
	batch.SuccessRate = result.ParsingSuccessRate
	batch.Status = domain.BatchStatusCompleted
	batch.FailureMessage = ""
	if len(result.ParsingErrors) > 0 {
		if raw, err := json.Marshal(result.ParsingErrors); err == nil {
			batch.ParsingErrors = raw
		}
	}
}

func assignProducts(products []domain.Product, batchID uuid.UUID) []domain.Product {
	assigned := make([]domain.Product, len(products))
	for i, p := range products {
		p.ID = uuid.New()
		p.BatchID = batchID
		assigned[i] = p
	}
	return assigned
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename makes an original filename safe for use inside a storage key.
func SanitizeFilename(name string) string {
	s := unsafeKeyChars.ReplaceAllString(name, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "invoice.pdf"
	}
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// StorageKey builds the archival key for a processed invoice:
// invoices/{supplier}/{year}/{month}/{timestamp}_{sanitized_filename}.
func StorageKey(supplierCode string, uploadedAt time.Time, filename string) string {
	if supplierCode == "" {
		supplierCode = "generic"
	}
	return fmt.Sprintf("invoices/%s/%d/%02d/%d_%s",
		supplierCode, uploadedAt.Year(), int(uploadedAt.Month()), uploadedAt.Unix(), SanitizeFilename(filename))
}
