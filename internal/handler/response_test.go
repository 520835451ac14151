package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"pimflow/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unsupported type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"upload failed", domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{"unknown supplier", domain.ErrUnknownSupplier, http.StatusUnprocessableEntity, "UNKNOWN_SUPPLIER"},
		{"not exportable", domain.ErrBatchNotExportable, http.StatusConflict, "BATCH_NOT_EXPORTABLE"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapDomainError_WrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.ErrNotFound)

	status, code, _ := MapDomainError(wrapped)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestFailureCode(t *testing.T) {
	assert.Equal(t, "EXTRACTION_FAILED", failureCode(domain.FailureExtraction))
	assert.Equal(t, "EXTRACTION_TIMEOUT", failureCode(domain.FailureExtractionTimeout))
	assert.Equal(t, "EMPTY_DOCUMENT", failureCode(domain.FailureEmptyDocument))
	assert.Equal(t, "PERSISTENCE_FAILED", failureCode(domain.FailurePersistence))
}
