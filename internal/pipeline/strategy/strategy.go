package strategy

import (
	"pimflow/internal/domain"
	"pimflow/internal/pipeline/aggregate"
)

// Strategy is the supplier-specific extraction contract. Implementations are
// interchangeable from the orchestrator's perspective and are selected purely
// by supplier code. ParseInvoice must recover row-local failures internally:
// a malformed row yields one ParsingError and never aborts remaining rows.
type Strategy interface {
	Code() string
	ParseInvoice(text string, tables []domain.Table) *domain.ParsingResult
}

// resultBuilder accumulates products and errors during one parse and hands
// assembly off to the aggregator.
type resultBuilder struct {
	code     string
	products []domain.Product
	errors   []domain.ParsingError
	meta     domain.InvoiceMetadata
}

func newBuilder(code, defaultCurrency string) *resultBuilder {
	return &resultBuilder{
		code: code,
		meta: domain.InvoiceMetadata{Currency: defaultCurrency},
	}
}

func (b *resultBuilder) addProduct(p domain.Product) {
	b.products = append(b.products, p)
}

func (b *resultBuilder) addError(ref domain.RowRef, reason domain.ErrorReason, raw string) {
	b.errors = append(b.errors, domain.ParsingError{Ref: ref, Reason: reason, RawValue: raw})
}

func (b *resultBuilder) build() *domain.ParsingResult {
	return aggregate.Assemble(b.code, b.products, b.errors, b.meta)
}
