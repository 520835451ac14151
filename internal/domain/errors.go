package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrUnknownSupplier     = errors.New("no strategy registered for supplier")
	ErrBatchNotExportable  = errors.New("batch has no parsed products to export")
)
