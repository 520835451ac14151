package domain

// BatchStatus represents the lifecycle of an invoice batch.
type BatchStatus string

const (
	BatchStatusQueued     BatchStatus = "queued"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

// Confidence grades how certain supplier detection is.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
	ConfidenceNone Confidence = "none"
)

// ErrorReason classifies a row-level parsing error.
type ErrorReason string

const (
	ReasonMissingRequiredField ErrorReason = "missing_required_field"
	ReasonUnparseableNumber    ErrorReason = "unparseable_number"
	ReasonUnparseableDate      ErrorReason = "unparseable_date"
	ReasonMalformedRow         ErrorReason = "malformed_row"
	ReasonStrategyException    ErrorReason = "strategy_exception"
)

// FailureKind classifies a terminal processing failure.
type FailureKind string

const (
	FailureExtraction        FailureKind = "extraction_failed"
	FailureExtractionTimeout FailureKind = "extraction_timeout"
	FailureEmptyDocument     FailureKind = "empty_document"
	FailurePersistence       FailureKind = "persistence_failed"
)
