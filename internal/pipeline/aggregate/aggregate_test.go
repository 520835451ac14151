package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pimflow/internal/domain"
)

func product(sku string) domain.Product {
	return domain.Product{SupplierSKU: sku, Name: sku, Quantity: 1, PriceUSD: decimal.New(100, -2)}
}

func parseError() domain.ParsingError {
	return domain.ParsingError{Ref: domain.TableRowRef(0, 1), Reason: domain.ReasonMalformedRow, RawValue: "x"}
}

func TestAssemble_SuccessRate(t *testing.T) {
	tests := []struct {
		name     string
		products int
		errors   int
		expected float64
	}{
		{"all products", 4, 0, 100.0},
		{"all errors", 0, 4, 0.0},
		{"two thirds", 2, 1, 66.67},
		{"half", 1, 1, 50.0},
		{"one third", 1, 2, 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var products []domain.Product
			for i := 0; i < tt.products; i++ {
				products = append(products, product("SKU"))
			}
			var errs []domain.ParsingError
			for i := 0; i < tt.errors; i++ {
				errs = append(errs, parseError())
			}

			result := Assemble("lawnfawn", products, errs, domain.InvoiceMetadata{})
			assert.Equal(t, tt.expected, result.ParsingSuccessRate)
			assert.Equal(t, tt.products, result.TotalProducts)
		})
	}
}

func TestAssemble_VacuouslySuccessful(t *testing.T) {
	// Nothing attempted at all: rate is 100, not NaN or zero.
	result := Assemble("generic", nil, nil, domain.InvoiceMetadata{})

	assert.Equal(t, 100.0, result.ParsingSuccessRate)
	assert.Equal(t, 0, result.TotalProducts)
	assert.NotNil(t, result.Products)
	assert.NotNil(t, result.ParsingErrors)
	assert.Empty(t, result.Products)
	assert.Empty(t, result.ParsingErrors)
}

func TestAssemble_MetadataOnlyErrorsDoNotDivideByZero(t *testing.T) {
	// A strategy_exception with zero products still yields a defined rate.
	result := Assemble("lawnfawn", nil, []domain.ParsingError{{
		Ref:    domain.MetadataRef(),
		Reason: domain.ReasonStrategyException,
	}}, domain.InvoiceMetadata{})

	assert.Equal(t, 0.0, result.ParsingSuccessRate)
	assert.Len(t, result.ParsingErrors, 1)
}

func TestAssemble_Deterministic(t *testing.T) {
	products := []domain.Product{product("LF1142"), product("LF2001")}
	errs := []domain.ParsingError{parseError()}
	meta := domain.InvoiceMetadata{InvoiceNumber: "CP-Summer25", Currency: "USD"}

	a := Assemble("lawnfawn", products, errs, meta)
	b := Assemble("lawnfawn", products, errs, meta)

	assert.Equal(t, a, b)
}

func TestAssemble_PreservesInputs(t *testing.T) {
	products := []domain.Product{product("LF1142")}
	errs := []domain.ParsingError{parseError()}
	meta := domain.InvoiceMetadata{InvoiceNumber: "INV-9", Currency: "EUR"}

	result := Assemble("craftelier", products, errs, meta)

	assert.Equal(t, "craftelier", result.Supplier)
	assert.Equal(t, products, result.Products)
	assert.Equal(t, errs, result.ParsingErrors)
	assert.Equal(t, meta, result.Metadata)
	assert.Equal(t, 50.0, result.ParsingSuccessRate)
}
