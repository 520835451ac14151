package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pimflow/internal/domain"
)

func craftelierText() string {
	return "Craftelier S.L.\n" +
		"Factura: 2025-118\n" +
		"Fecha: 15/07/2025\n" +
		"Total factura: 1.234,56\n"
}

func TestCraftelier_DecimalCommaPrices(t *testing.T) {
	tables := []domain.Table{{Rows: [][]string{
		{"Ref", "Descripción", "Unidades", "Precio unitario"},
		{"CR-889", "Washi tape dorado", "3", "4,95"},
		{"CR-120", "Troquel estrella", "2", "1.250,00"},
	}}}

	result := NewCraftelier().ParseInvoice(craftelierText(), tables)

	require.Len(t, result.Products, 2)
	assert.True(t, decimal.RequireFromString("4.95").Equal(result.Products[0].PriceUSD))
	assert.True(t, decimal.RequireFromString("1250.00").Equal(result.Products[1].PriceUSD))
	require.NotNil(t, result.Products[0].Manufacturer)
	assert.Equal(t, "Craftelier", *result.Products[0].Manufacturer)
	assert.Empty(t, result.ParsingErrors)
}

func TestCraftelier_Metadata(t *testing.T) {
	tables := []domain.Table{{Rows: [][]string{
		{"Ref", "Descripción", "Unidades", "Precio unitario"},
		{"CR-889", "Washi tape dorado", "3", "4,95"},
	}}}

	result := NewCraftelier().ParseInvoice(craftelierText(), tables)

	assert.Equal(t, "2025-118", result.Metadata.InvoiceNumber)
	require.NotNil(t, result.Metadata.InvoiceDate)
	// Day-first: 15/07/2025 is July 15th, not the 7th of month 15.
	assert.Equal(t, 7, int(result.Metadata.InvoiceDate.Month()))
	assert.Equal(t, 15, result.Metadata.InvoiceDate.Day())
	require.NotNil(t, result.Metadata.TotalAmount)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(*result.Metadata.TotalAmount))
	assert.Equal(t, "EUR", result.Metadata.Currency)
}

func TestCraftelier_EnglishHeaders(t *testing.T) {
	tables := []domain.Table{{Rows: [][]string{
		{"Ref", "Description", "Units", "Unit Price"},
		{"CR-889", "Gold washi tape", "3", "4,95"},
	}}}

	result := NewCraftelier().ParseInvoice("Craftelier invoice no: A-1\n", tables)

	require.Len(t, result.Products, 1)
	assert.Equal(t, "CR-889", result.Products[0].SupplierSKU)
	assert.Equal(t, 3, result.Products[0].Quantity)
}

func TestCraftelier_NoMatchingTable(t *testing.T) {
	result := NewCraftelier().ParseInvoice(craftelierText(), []domain.Table{
		{Rows: [][]string{{"Foo", "Bar"}, {"a", "b"}}},
	})

	assert.Empty(t, result.Products)
	require.Len(t, result.ParsingErrors, 1)
	assert.Equal(t, domain.ReasonStrategyException, result.ParsingErrors[0].Reason)
}
