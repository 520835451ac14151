package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pimflow/internal/domain"
	"pimflow/internal/port"
)

type batchRepo struct {
	db *sqlx.DB
}

// NewBatchRepo creates a new PostgreSQL-backed BatchRepository.
func NewBatchRepo(db *sqlx.DB) port.BatchRepository {
	return &batchRepo{db: db}
}

func (r *batchRepo) Create(ctx context.Context, batch *domain.InvoiceBatch) error {
	now := time.Now().UTC()
	batch.CreatedAt = now
	batch.UpdatedAt = now

	query := `INSERT INTO invoice_batches
		(id, supplier_code, invoice_number, invoice_date, invoice_date_raw, currency,
		 total_amount, original_filename, file_size, s3_bucket, s3_key,
		 total_products, error_count, success_rate, status, failure_message,
		 parsing_errors, uploaded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.db.ExecContext(ctx, query,
		batch.ID, batch.SupplierCode, batch.InvoiceNumber, batch.InvoiceDate, batch.InvoiceDateRaw,
		batch.Currency, batch.TotalAmount, batch.OriginalFilename, batch.FileSize,
		batch.S3Bucket, batch.S3Key, batch.TotalProducts, batch.ErrorCount, batch.SuccessRate,
		batch.Status, batch.FailureMessage, batch.ParsingErrors, batch.UploadedAt,
		batch.CreatedAt, batch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("batchRepo.Create: %w", err)
	}
	return nil
}

func (r *batchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceBatch, error) {
	var batch domain.InvoiceBatch
	err := r.db.GetContext(ctx, &batch, "SELECT * FROM invoice_batches WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("batchRepo.GetByID: %w", err)
	}
	return &batch, nil
}

func (r *batchRepo) List(ctx context.Context, filter domain.BatchFilter, offset, limit int, sort domain.BatchSort) ([]domain.InvoiceBatch, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.SupplierCode != "" {
		add("supplier_code = $%d", filter.SupplierCode)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.UploadedFrom != nil {
		add("uploaded_at >= $%d", *filter.UploadedFrom)
	}
	if filter.UploadedTo != nil {
		add("uploaded_at <= $%d", *filter.UploadedTo)
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM invoice_batches WHERE "+whereClause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.List count: %w", err)
	}

	orderBy := "uploaded_at DESC"
	switch sort {
	case domain.BatchSortUploadedAsc:
		orderBy = "uploaded_at ASC"
	case domain.BatchSortSuccessRateAsc:
		orderBy = "success_rate ASC, uploaded_at DESC"
	case domain.BatchSortSuccessRateDesc:
		orderBy = "success_rate DESC, uploaded_at DESC"
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM invoice_batches WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		whereClause, orderBy, len(args)-1, len(args))

	var batches []domain.InvoiceBatch
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, 0, fmt.Errorf("batchRepo.List: %w", err)
	}
	return batches, total, nil
}

func (r *batchRepo) UpdateResult(ctx context.Context, batch *domain.InvoiceBatch) error {
	batch.UpdatedAt = time.Now().UTC()

	query := `UPDATE invoice_batches SET
		supplier_code = $1, invoice_number = $2, invoice_date = $3, invoice_date_raw = $4,
		currency = $5, total_amount = $6, total_products = $7, error_count = $8,
		success_rate = $9, status = $10, failure_message = $11, parsing_errors = $12,
		updated_at = $13
		WHERE id = $14`

	result, err := r.db.ExecContext(ctx, query,
		batch.SupplierCode, batch.InvoiceNumber, batch.InvoiceDate, batch.InvoiceDateRaw,
		batch.Currency, batch.TotalAmount, batch.TotalProducts, batch.ErrorCount,
		batch.SuccessRate, batch.Status, batch.FailureMessage, batch.ParsingErrors,
		batch.UpdatedAt, batch.ID)
	if err != nil {
		return fmt.Errorf("batchRepo.UpdateResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *batchRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BatchStatus, failureMessage string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE invoice_batches SET status = $1, failure_message = $2, updated_at = $3 WHERE id = $4",
		status, failureMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("batchRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *batchRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.InvoiceBatch, error) {
	// SKIP LOCKED keeps concurrent workers from claiming the same batch.
	query := `UPDATE invoice_batches SET status = $1, updated_at = $2
		WHERE id IN (
			SELECT id FROM invoice_batches
			WHERE status = $3
			ORDER BY uploaded_at ASC
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`

	var batches []domain.InvoiceBatch
	err := r.db.SelectContext(ctx, &batches, query,
		domain.BatchStatusProcessing, time.Now().UTC(), domain.BatchStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("batchRepo.ClaimQueued: %w", err)
	}
	return batches, nil
}
