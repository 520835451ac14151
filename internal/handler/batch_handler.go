package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pimflow/internal/csvexport"
	"pimflow/internal/domain"
	"pimflow/internal/service"
)

// BatchHandler handles batch query and export endpoints.
type BatchHandler struct {
	batchService service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// List handles GET /api/v1/batches
//
// Query params: supplier, status, from, to (RFC3339 or YYYY-MM-DD),
// offset, limit, sort (uploaded_desc|uploaded_asc|success_rate_asc|success_rate_desc).
func (h *BatchHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	filter := domain.BatchFilter{
		SupplierCode: c.Query("supplier"),
		Status:       domain.BatchStatus(c.Query("status")),
	}
	if from, ok := parseTimeParam(c.Query("from")); ok {
		filter.UploadedFrom = &from
	}
	if to, ok := parseTimeParam(c.Query("to")); ok {
		filter.UploadedTo = &to
	}

	sort := domain.BatchSort(c.DefaultQuery("sort", string(domain.BatchSortUploadedDesc)))
	switch sort {
	case domain.BatchSortUploadedDesc, domain.BatchSortUploadedAsc,
		domain.BatchSortSuccessRateAsc, domain.BatchSortSuccessRateDesc:
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_SORT", "unknown sort order")
		return
	}

	batches, total, err := h.batchService.List(c.Request.Context(), filter, offset, limit, sort)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, batches, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/batches/:id
func (h *BatchHandler) GetByID(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), batchID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, batch)
}

// Products handles GET /api/v1/batches/:id/products
func (h *BatchHandler) Products(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	products, err := h.batchService.Products(c.Request.Context(), batchID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, products)
}

// Download handles GET /api/v1/batches/:id/download
//
// Returns a presigned URL for the archived original PDF.
func (h *BatchHandler) Download(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	url, expiresAt, err := h.batchService.GetDownloadURL(c.Request.Context(), batchID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"download_url": url,
		"expires_at":   expiresAt,
	})
}

// Export handles GET /api/v1/batches/:id/export?format=csv|xlsx
//
// Streams the batch's products as a CSV (with BOM for Excel) or XLSX file.
func (h *BatchHandler) Export(c *gin.Context) {
	batchID, ok := parseBatchID(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), batchID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if batch.Status != domain.BatchStatusCompleted {
		HandleError(c, domain.ErrBatchNotExportable)
		return
	}

	products, err := h.batchService.Products(c.Request.Context(), batchID)
	if err != nil {
		HandleError(c, err)
		return
	}

	name := batch.SupplierCode
	if batch.InvoiceNumber != "" {
		name += "_" + batch.InvoiceNumber
	}

	if format == "xlsx" {
		var buf bytes.Buffer
		if err := csvexport.WriteXLSX(&buf, products); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename(name, "xlsx")+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
		return
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteProducts(products); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename(name, "csv")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func parseBatchID(c *gin.Context) (uuid.UUID, bool) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return uuid.Nil, false
	}
	return batchID, true
}

// parseTimeParam accepts RFC3339 timestamps or bare dates.
func parseTimeParam(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
