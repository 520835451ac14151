package aggregate

import (
	"math"

	"pimflow/internal/domain"
)

// Assemble builds the final ParsingResult. It is a pure function: no I/O, no
// further validation (validation is each strategy's responsibility), identical
// inputs yield value-equal results.
//
// The success rate is products / (products + errors) * 100, rounded to two
// decimals. When no rows were attempted at all it is 100.0: an invoice with
// nothing to parse is vacuously successful, and the recorded errors (for
// example a strategy_exception on a table-less document) still flag the run
// for human review.
func Assemble(supplierCode string, products []domain.Product, errors []domain.ParsingError, metadata domain.InvoiceMetadata) *domain.ParsingResult {
	total := len(products)
	attempted := total + len(errors)

	rate := 100.0
	if attempted > 0 {
		rate = math.Round(float64(total)/float64(attempted)*100*100) / 100
	}

	if products == nil {
		products = []domain.Product{}
	}
	if errors == nil {
		errors = []domain.ParsingError{}
	}

	return &domain.ParsingResult{
		Supplier:           supplierCode,
		Products:           products,
		ParsingErrors:      errors,
		Metadata:           metadata,
		TotalProducts:      total,
		ParsingSuccessRate: rate,
	}
}
