package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pimflow/internal/domain"
)

func lawnFawnText() string {
	return "Lawn Fawn Inc\n" +
		"Invoice #: CP-Summer25\n" +
		"Invoice Date: 07/15/2025\n" +
		"Invoice Total: $125.00\n"
}

func TestLawnFawn_SingleRow(t *testing.T) {
	tables := []domain.Table{{Rows: [][]string{
		{"SKU", "Name", "Qty", "Price"},
		{"LF1142", "Stitched Rectangle Frames", "2", "$12.50"},
	}}}

	result := NewLawnFawn().ParseInvoice(lawnFawnText(), tables)

	require.Len(t, result.Products, 1)
	p := result.Products[0]
	assert.Equal(t, "LF1142", p.SupplierSKU)
	assert.Equal(t, "Stitched Rectangle Frames", p.Name)
	assert.Equal(t, 2, p.Quantity)
	assert.True(t, decimal.RequireFromString("12.50").Equal(p.PriceUSD))
	require.NotNil(t, p.Manufacturer)
	assert.Equal(t, "Lawn Fawn", *p.Manufacturer)
	assert.Equal(t, 0, p.SourceTable)
	assert.Equal(t, 1, p.SourceRow)

	assert.Equal(t, "CP-Summer25", result.Metadata.InvoiceNumber)
	require.NotNil(t, result.Metadata.InvoiceDate)
	assert.Equal(t, 2025, result.Metadata.InvoiceDate.Year())
	assert.Equal(t, 7, int(result.Metadata.InvoiceDate.Month()))
	assert.Equal(t, 15, result.Metadata.InvoiceDate.Day())
	require.NotNil(t, result.Metadata.TotalAmount)
	assert.True(t, decimal.RequireFromString("125.00").Equal(*result.Metadata.TotalAmount))
	assert.Equal(t, "USD", result.Metadata.Currency)

	assert.Empty(t, result.ParsingErrors)
	assert.Equal(t, 100.0, result.ParsingSuccessRate)
}

func TestLawnFawn_UnparseableQuantityIsolated(t *testing.T) {
	tables := []domain.Table{{Rows: [][]string{
		{"SKU", "Name", "Qty", "Price"},
		{"LF1142", "Stitched Rectangle Frames", "two", "$12.50"},
		{"LF2001", "Tiny Gift Box", "4", "$8.00"},
	}}}

	result := NewLawnFawn().ParseInvoice(lawnFawnText(), tables)

	// The bad row becomes one error, the good row still parses.
	require.Len(t, result.Products, 1)
	assert.Equal(t, "LF2001", result.Products[0].SupplierSKU)

	require.Len(t, result.ParsingErrors, 1)
	e := result.ParsingErrors[0]
	assert.Equal(t, domain.ReasonUnparseableNumber, e.Reason)
	assert.Equal(t, "two", e.RawValue)
	assert.Equal(t, domain.TableRowRef(0, 1), e.Ref)

	assert.Equal(t, 50.0, result.ParsingSuccessRate)
}

func TestLawnFawn_MalformedRowsShiftCountsByOne(t *testing.T) {
	rows := [][]string{
		{"SKU", "Name", "Qty", "Price"},
		{"LF1000", "Stamp Set A", "1", "$10.00"},
		{"LF1001", "Stamp Set B", "2", "$11.00"},
		{"LF1002", "Stamp Set C", "3", "$12.00"},
	}
	clean := NewLawnFawn().ParseInvoice(lawnFawnText(), []domain.Table{{Rows: rows}})
	require.Len(t, clean.Products, 3)
	assert.Empty(t, clean.ParsingErrors)

	// Corrupt exactly one row: one fewer product, one more error.
	rows[2] = []string{"LF1001", "Stamp Set B", "2", "not-a-price"}
	dirty := NewLawnFawn().ParseInvoice(lawnFawnText(), []domain.Table{{Rows: rows}})

	assert.Len(t, dirty.Products, len(clean.Products)-1)
	assert.Len(t, dirty.ParsingErrors, len(clean.ParsingErrors)+1)
}

func TestLawnFawn_MissingSKUAndName(t *testing.T) {
	tables := []domain.Table{{Rows: [][]string{
		{"SKU", "Name", "Qty", "Price"},
		{"", "", "2", "$12.50"},
	}}}

	result := NewLawnFawn().ParseInvoice(lawnFawnText(), tables)

	assert.Empty(t, result.Products)
	require.Len(t, result.ParsingErrors, 1)
	assert.Equal(t, domain.ReasonMissingRequiredField, result.ParsingErrors[0].Reason)
}

func TestLawnFawn_EmptyPriceCellIsMalformedRow(t *testing.T) {
	tables := []domain.Table{{Rows: [][]string{
		{"SKU", "Name", "Qty", "Price"},
		{"LF1142", "Stitched Rectangle Frames", "2"},
	}}}

	result := NewLawnFawn().ParseInvoice(lawnFawnText(), tables)

	assert.Empty(t, result.Products)
	require.Len(t, result.ParsingErrors, 1)
	assert.Equal(t, domain.ReasonMalformedRow, result.ParsingErrors[0].Reason)
}

func TestLawnFawn_NoMatchingTable(t *testing.T) {
	result := NewLawnFawn().ParseInvoice(lawnFawnText(), nil)

	assert.Empty(t, result.Products)
	require.Len(t, result.ParsingErrors, 1)
	assert.Equal(t, domain.ReasonStrategyException, result.ParsingErrors[0].Reason)
	assert.Equal(t, domain.MetadataRef(), result.ParsingErrors[0].Ref)

	// Metadata still parses from text alone.
	assert.Equal(t, "CP-Summer25", result.Metadata.InvoiceNumber)
}

func TestLawnFawn_UnparseableDateKeptRaw(t *testing.T) {
	text := "Lawn Fawn Inc\nInvoice #: CP-Summer25\nInvoice Date: mid-July\n"
	tables := []domain.Table{{Rows: [][]string{
		{"SKU", "Name", "Qty", "Price"},
		{"LF1142", "Stitched Rectangle Frames", "2", "$12.50"},
	}}}

	result := NewLawnFawn().ParseInvoice(text, tables)

	assert.Nil(t, result.Metadata.InvoiceDate)
	assert.Equal(t, "mid-July", result.Metadata.InvoiceDateRaw)

	found := false
	for _, e := range result.ParsingErrors {
		if e.Reason == domain.ReasonUnparseableDate {
			found = true
			assert.Equal(t, domain.MetadataRef(), e.Ref)
		}
	}
	assert.True(t, found, "expected an unparseable_date error")
}

func TestLawnFawn_EmptyRowsSkipped(t *testing.T) {
	tables := []domain.Table{{Rows: [][]string{
		{"SKU", "Name", "Qty", "Price"},
		{"", "", ""},
		{"LF1142", "Stitched Rectangle Frames", "2", "$12.50"},
	}}}

	result := NewLawnFawn().ParseInvoice(lawnFawnText(), tables)

	require.Len(t, result.Products, 1)
	assert.Empty(t, result.ParsingErrors)
	assert.Equal(t, 2, result.Products[0].SourceRow)
}

func TestLawnFawn_RoundTripManyRows(t *testing.T) {
	rows := [][]string{{"SKU", "Name", "Qty", "Price"}}
	for i := 0; i < 25; i++ {
		rows = append(rows, []string{
			"LF" + string(rune('1'+i%9)) + "000",
			"Product",
			"1",
			"$5.00",
		})
	}

	result := NewLawnFawn().ParseInvoice(lawnFawnText(), []domain.Table{{Rows: rows}})

	assert.Len(t, result.Products, 25)
	assert.Equal(t, 25, result.TotalProducts)
	assert.Equal(t, 100.0, result.ParsingSuccessRate)
}
