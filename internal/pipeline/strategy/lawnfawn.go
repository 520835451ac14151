package strategy

import (
	"pimflow/internal/domain"
)

// LawnFawn parses Lawn Fawn wholesale invoices: a single product table with
// SKU / Name / Qty / Price columns, USD prices, and "Invoice #" style labels.
type LawnFawn struct{}

// NewLawnFawn creates the Lawn Fawn strategy.
func NewLawnFawn() *LawnFawn {
	return &LawnFawn{}
}

func (s *LawnFawn) Code() string { return "lawnfawn" }

var lawnFawnColumns = []column{
	{field: "sku", keywords: []string{"sku", "item #", "item no"}, required: true},
	{field: "name", keywords: []string{"name", "description"}, required: true},
	{field: "qty", keywords: []string{"qty", "quantity"}, required: true},
	{field: "price", keywords: []string{"price"}, required: true},
	{field: "category", keywords: []string{"category", "collection"}},
}

func (s *LawnFawn) ParseInvoice(text string, tables []domain.Table) *domain.ParsingResult {
	b := newBuilder(s.Code(), "USD")

	s.parseMetadata(b, text)

	matched := false
	for tableIdx, table := range tables {
		cols, headerRow, ok := findColumns(table, lawnFawnColumns)
		if !ok {
			continue
		}
		matched = true
		parseLineTable(b, tableIdx, table, cols, headerRow, lineItemLayout{
			columns:      lawnFawnColumns,
			manufacturer: "Lawn Fawn",
		})
	}
	if !matched {
		b.addError(domain.MetadataRef(), domain.ReasonStrategyException, "no table matched the Lawn Fawn product header layout")
	}

	return b.build()
}

func (s *LawnFawn) parseMetadata(b *resultBuilder, text string) {
	if v := labelValue(text, "invoice #", "invoice number", "invoice no"); v != "" {
		b.meta.InvoiceNumber = firstToken(v)
	}

	if v := labelValue(text, "invoice date", "order date", "date"); v != "" {
		raw := firstToken(v)
		if t, ok := parseDate(raw, false); ok {
			b.meta.InvoiceDate = &t
		} else {
			b.meta.InvoiceDateRaw = raw
			b.addError(domain.MetadataRef(), domain.ReasonUnparseableDate, raw)
		}
	}

	if v := labelValue(text, "invoice total", "amount due", "grand total", "total"); v != "" {
		raw := firstToken(v)
		if amount, err := parsePrice(raw, false); err == nil {
			b.meta.TotalAmount = &amount
		} else {
			b.addError(domain.MetadataRef(), domain.ReasonUnparseableNumber, raw)
		}
	}
}
