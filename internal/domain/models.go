package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceBatch represents one processed supplier invoice and its parsing summary.
type InvoiceBatch struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	SupplierCode     string           `db:"supplier_code" json:"supplier_code"`
	InvoiceNumber    string           `db:"invoice_number" json:"invoice_number"`
	InvoiceDate      *time.Time       `db:"invoice_date" json:"invoice_date"`
	InvoiceDateRaw   string           `db:"invoice_date_raw" json:"invoice_date_raw,omitempty"`
	Currency         string           `db:"currency" json:"currency"`
	TotalAmount      *decimal.Decimal `db:"total_amount" json:"total_amount"`
	OriginalFilename string           `db:"original_filename" json:"original_filename"`
	FileSize         int64            `db:"file_size" json:"file_size"`
	S3Bucket         string           `db:"s3_bucket" json:"s3_bucket"`
	S3Key            string           `db:"s3_key" json:"s3_key"`
	TotalProducts    int              `db:"total_products" json:"total_products"`
	ErrorCount       int              `db:"error_count" json:"error_count"`
	SuccessRate      float64          `db:"success_rate" json:"success_rate"`
	Status           BatchStatus      `db:"status" json:"status"`
	FailureMessage   string           `db:"failure_message" json:"failure_message,omitempty"`
	ParsingErrors    json.RawMessage  `db:"parsing_errors" json:"parsing_errors,omitempty"`
	UploadedAt       time.Time        `db:"uploaded_at" json:"uploaded_at"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// Product is one normalized invoice line item. The parsing pipeline fills the
// supplier fields and row provenance; ID and BatchID are assigned at persist time.
type Product struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	BatchID      uuid.UUID       `db:"batch_id" json:"batch_id"`
	SupplierSKU  string          `db:"supplier_sku" json:"supplier_sku"`
	Name         string          `db:"product_name" json:"product_name"`
	Category     *string         `db:"category" json:"category"`
	Manufacturer *string         `db:"manufacturer" json:"manufacturer"`
	Quantity     int             `db:"quantity" json:"quantity"`
	PriceUSD     decimal.Decimal `db:"price_usd" json:"price_usd"`
	SourceTable  int             `db:"source_table" json:"source_table"`
	SourceRow    int             `db:"source_row" json:"source_row"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// BatchFilter narrows ListBatches results. Zero values mean "no filter".
type BatchFilter struct {
	SupplierCode string
	Status       BatchStatus
	UploadedFrom *time.Time
	UploadedTo   *time.Time
}

// BatchSort names the supported sort orders for ListBatches.
type BatchSort string

const (
	BatchSortUploadedDesc    BatchSort = "uploaded_desc"
	BatchSortUploadedAsc     BatchSort = "uploaded_asc"
	BatchSortSuccessRateAsc  BatchSort = "success_rate_asc"
	BatchSortSuccessRateDesc BatchSort = "success_rate_desc"
)
