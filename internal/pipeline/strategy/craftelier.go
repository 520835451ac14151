package strategy

import (
	"pimflow/internal/domain"
)

// Craftelier parses Craftelier (EU) invoices: Ref / Description / Units /
// Unit Price columns, decimal-comma EUR amounts, day-first dates, and
// bilingual "Invoice No" / "Factura" labels.
type Craftelier struct{}

// NewCraftelier creates the Craftelier strategy.
func NewCraftelier() *Craftelier {
	return &Craftelier{}
}

func (s *Craftelier) Code() string { return "craftelier" }

var craftelierColumns = []column{
	{field: "sku", keywords: []string{"ref", "reference", "referencia"}, required: true},
	{field: "name", keywords: []string{"description", "descripcion", "descripción"}, required: true},
	{field: "qty", keywords: []string{"units", "unidades", "qty"}, required: true},
	{field: "price", keywords: []string{"unit price", "precio", "price"}, required: true},
}

func (s *Craftelier) ParseInvoice(text string, tables []domain.Table) *domain.ParsingResult {
	b := newBuilder(s.Code(), "EUR")

	s.parseMetadata(b, text)

	matched := false
	for tableIdx, table := range tables {
		cols, headerRow, ok := findColumns(table, craftelierColumns)
		if !ok {
			continue
		}
		matched = true
		parseLineTable(b, tableIdx, table, cols, headerRow, lineItemLayout{
			columns:      craftelierColumns,
			decimalComma: true,
			manufacturer: "Craftelier",
		})
	}
	if !matched {
		b.addError(domain.MetadataRef(), domain.ReasonStrategyException, "no table matched the Craftelier product header layout")
	}

	return b.build()
}

func (s *Craftelier) parseMetadata(b *resultBuilder, text string) {
	if v := labelValue(text, "invoice no", "invoice number", "factura", "nº factura"); v != "" {
		b.meta.InvoiceNumber = firstToken(v)
	}

	if v := labelValue(text, "invoice date", "fecha", "date"); v != "" {
		raw := firstToken(v)
		if t, ok := parseDate(raw, true); ok {
			b.meta.InvoiceDate = &t
		} else {
			b.meta.InvoiceDateRaw = raw
			b.addError(domain.MetadataRef(), domain.ReasonUnparseableDate, raw)
		}
	}

	if v := labelValue(text, "total factura", "invoice total", "total"); v != "" {
		raw := firstToken(v)
		if amount, err := parsePrice(raw, true); err == nil {
			b.meta.TotalAmount = &amount
		} else {
			b.addError(domain.MetadataRef(), domain.ReasonUnparseableNumber, raw)
		}
	}
}
