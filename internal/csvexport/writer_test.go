package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pimflow/internal/domain"
)

func sampleProduct() domain.Product {
	category := "Dies"
	manufacturer := "Lawn Fawn"
	return domain.Product{
		ID:           uuid.New(),
		BatchID:      uuid.New(),
		SupplierSKU:  "LF1142",
		Name:         "Stitched Rectangle Frames",
		Category:     &category,
		Manufacturer: &manufacturer,
		Quantity:     2,
		PriceUSD:     decimal.RequireFromString("12.5"),
		SourceTable:  0,
		SourceRow:    1,
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 8)
	assert.Equal(t, "Supplier SKU", row[0])
	assert.Equal(t, "Source Row", row[7])
}

func TestWriteProducts(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteProducts([]domain.Product{sampleProduct()}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Equal(t, "LF1142", row[0])
	assert.Equal(t, "Stitched Rectangle Frames", row[1])
	assert.Equal(t, "Dies", row[2])
	assert.Equal(t, "Lawn Fawn", row[3])
	assert.Equal(t, "2", row[4])
	assert.Equal(t, "12.50", row[5])
	assert.Equal(t, "0", row[6])
	assert.Equal(t, "1", row[7])
}

func TestWriteProducts_NilOptionalFields(t *testing.T) {
	p := sampleProduct()
	p.Category = nil
	p.Manufacturer = nil

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteProducts([]domain.Product{p}))
	w.Flush()

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Equal(t, "", row[2])
	assert.Equal(t, "", row[3])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []domain.Product{sampleProduct()}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Supplier SKU", rows[0][0])
	assert.Equal(t, "LF1142", rows[1][0])
	assert.Equal(t, "Stitched Rectangle Frames", rows[1][1])
	assert.Equal(t, "2", rows[1][4])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Products")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "lawnfawn CP-Summer25", "lawnfawn_CP-Summer25"},
		{"special chars", "batch / export (v2)", "batch_export_v2"},
		{"consecutive underscores collapsed", "a___b", "a_b"},
		{"leading and trailing cleaned", "  hello  ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	assert.Equal(t, "lawnfawn_CP-Summer25_"+today+".csv", BuildFilename("lawnfawn CP-Summer25", "csv"))
	assert.Equal(t, "products_"+today+".xlsx", BuildFilename("", "xlsx"))
}
