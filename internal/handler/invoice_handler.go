package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"pimflow/internal/domain"
	"pimflow/internal/service"
)

// InvoiceHandler handles invoice ingestion endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Upload handles POST /api/v1/invoices
//
// Accepts a multipart PDF upload. With ?async=true the file is archived and
// queued for the background worker; otherwise it is parsed inline and the
// processing outcome is returned.
func (h *InvoiceHandler) Upload(c *gin.Context) {
	input, ok := readUpload(c)
	if !ok {
		return
	}

	if c.Query("async") == "true" {
		batch, err := h.invoiceService.Enqueue(c.Request.Context(), input)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondAccepted(c, batch)
		return
	}

	outcome, err := h.invoiceService.ProcessInvoice(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	if outcome.Failed() {
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Data:    outcome,
			Error:   &APIError{Code: failureCode(outcome.Failure.Kind), Message: outcome.Failure.Message},
		})
		return
	}
	RespondCreated(c, outcome)
}

// Parse handles POST /api/v1/invoices/parse
//
// Dry run: parses the uploaded PDF and returns the result without persisting
// or archiving anything.
func (h *InvoiceHandler) Parse(c *gin.Context) {
	input, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.ParseOnly(c.Request.Context(), input.Data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// readUpload extracts the multipart file field. Returns false if an error
// response has already been written.
func readUpload(c *gin.Context) (service.ProcessInput, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return service.ProcessInput{}, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return service.ProcessInput{}, false
	}

	return service.ProcessInput{Filename: header.Filename, Data: data}, true
}

func failureCode(kind domain.FailureKind) string {
	switch kind {
	case domain.FailureExtraction:
		return "EXTRACTION_FAILED"
	case domain.FailureExtractionTimeout:
		return "EXTRACTION_TIMEOUT"
	case domain.FailureEmptyDocument:
		return "EMPTY_DOCUMENT"
	case domain.FailurePersistence:
		return "PERSISTENCE_FAILED"
	default:
		return "PROCESSING_FAILED"
	}
}
