package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExtractedContent holds the two independent views of a PDF: serialized
// reading-order text and detected grid structures.
type ExtractedContent struct {
	Text   string
	Tables []Table
}

// Table is an ordered sequence of rows of cell strings. The first row is the
// header row. Rows may be ragged (fewer or more cells than the header).
type Table struct {
	Rows [][]string `json:"rows"`
}

// SupplierIdentity names the supplier a document was matched to.
type SupplierIdentity struct {
	Code       string     `json:"code"`
	Confidence Confidence `json:"confidence"`
}

// RowRef points at the source of a parsing error: a table row, or the
// invoice-level metadata section.
type RowRef struct {
	TableIndex int  `json:"table_index"`
	RowIndex   int  `json:"row_index"`
	Metadata   bool `json:"metadata,omitempty"`
}

// MetadataRef returns the RowRef for errors not tied to any table row.
func MetadataRef() RowRef {
	return RowRef{TableIndex: -1, RowIndex: -1, Metadata: true}
}

// TableRowRef returns the RowRef for a data row within a detected table.
func TableRowRef(tableIdx, rowIdx int) RowRef {
	return RowRef{TableIndex: tableIdx, RowIndex: rowIdx}
}

func (r RowRef) String() string {
	if r.Metadata {
		return "metadata"
	}
	return fmt.Sprintf("table %d, row %d", r.TableIndex, r.RowIndex)
}

// ParsingError records a single recovered row- or field-level failure.
type ParsingError struct {
	Ref      RowRef      `json:"row_reference"`
	Reason   ErrorReason `json:"reason"`
	RawValue string      `json:"raw_value"`
}

// InvoiceMetadata holds invoice-level fields recovered from the document text.
// When the date label is found but the value is not a recognizable calendar
// date, InvoiceDate stays nil and InvoiceDateRaw keeps the original token.
type InvoiceMetadata struct {
	InvoiceNumber  string           `json:"invoice_number"`
	InvoiceDate    *time.Time       `json:"invoice_date"`
	InvoiceDateRaw string           `json:"invoice_date_raw,omitempty"`
	Currency       string           `json:"currency"`
	TotalAmount    *decimal.Decimal `json:"total_amount"`
}

// Empty reports whether no invoice-level field was recovered at all.
func (m InvoiceMetadata) Empty() bool {
	return m.InvoiceNumber == "" && m.InvoiceDate == nil &&
		m.InvoiceDateRaw == "" && m.TotalAmount == nil
}

// ParsingResult is the aggregate output of parsing one invoice. It is
// assembled once and not mutated afterward.
type ParsingResult struct {
	Supplier           string         `json:"supplier"`
	Products           []Product      `json:"products"`
	ParsingErrors      []ParsingError `json:"parsing_errors"`
	Metadata           InvoiceMetadata `json:"metadata"`
	TotalProducts      int            `json:"total_products"`
	ParsingSuccessRate float64        `json:"parsing_success_rate"`
}

// ProcessingFailure describes a terminal failure of process_invoice.
type ProcessingFailure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// ProcessingOutcome is the envelope returned by the invoice orchestrator.
// On success BatchID, Result and StorageKey are set. On failure Failure is
// set; a persistence failure still carries the parsed Result so callers can
// retry persistence without re-parsing.
type ProcessingOutcome struct {
	BatchID    uuid.UUID          `json:"batch_id,omitempty"`
	Result     *ParsingResult     `json:"result,omitempty"`
	StorageKey string             `json:"storage_key,omitempty"`
	Failure    *ProcessingFailure `json:"failure,omitempty"`
}

// Failed reports whether the outcome is terminal.
func (o *ProcessingOutcome) Failed() bool {
	return o.Failure != nil
}
