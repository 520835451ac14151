package strategy

import (
	"regexp"
	"strings"

	"pimflow/internal/domain"
)

// Generic is the fallback strategy used when no supplier fingerprint matched.
// It extracts only structurally invariant fields: any table with a
// numeric-looking price column is treated as a product table, and the
// aggregator's error accounting flags the low-confidence run instead of
// failing outright.
type Generic struct{}

// NewGeneric creates the fallback strategy.
func NewGeneric() *Generic {
	return &Generic{}
}

func (s *Generic) Code() string { return "generic" }

var genericColumns = []column{
	{field: "price", keywords: []string{"price", "amount", "rate", "precio"}, required: true},
	{field: "sku", keywords: []string{"sku", "item", "code", "ref", "article"}},
	{field: "name", keywords: []string{"name", "description", "product"}},
	{field: "qty", keywords: []string{"qty", "quantity", "units", "count"}},
}

func (s *Generic) ParseInvoice(text string, tables []domain.Table) *domain.ParsingResult {
	b := newBuilder(s.Code(), detectCurrency(text))

	s.parseMetadata(b, text)

	matched := false
	for tableIdx, table := range tables {
		cols, headerRow, ok := findColumns(table, genericColumns)
		if !ok {
			cols, ok = inferColumns(table)
			headerRow = 0
			if !ok {
				continue
			}
		}
		if _, hasName := cols["name"]; !hasName {
			if _, hasSKU := cols["sku"]; !hasSKU {
				continue
			}
		}
		matched = true
		parseLineTable(b, tableIdx, table, cols, headerRow, lineItemLayout{
			columns:         genericColumns,
			decimalComma:    columnUsesDecimalComma(table.Rows, cols["price"], headerRow),
			defaultQuantity: 1,
		})
	}
	if !matched {
		b.addError(domain.MetadataRef(), domain.ReasonStrategyException, "no table with a recognizable price column found")
	}

	return b.build()
}

// inferColumns guesses a column mapping positionally when no header keyword
// matched: the rightmost mostly-numeric column is the price, the column with
// the longest cells is the name, and the first remaining column is the SKU.
func inferColumns(table domain.Table) (map[string]int, bool) {
	if len(table.Rows) < 2 {
		return nil, false
	}
	dataRows := table.Rows[1:]

	width := 0
	for _, row := range dataRows {
		if len(row) > width {
			width = len(row)
		}
	}

	priceCol := -1
	for col := width - 1; col >= 0; col-- {
		if mostlyPrices(dataRows, col) {
			priceCol = col
			break
		}
	}
	if priceCol < 0 {
		return nil, false
	}

	nameCol := -1
	longest := 0
	for col := 0; col < width; col++ {
		if col == priceCol {
			continue
		}
		total := 0
		for _, row := range dataRows {
			total += len(cellAt(row, col))
		}
		if total > longest {
			longest = total
			nameCol = col
		}
	}
	if nameCol < 0 {
		return nil, false
	}

	cols := map[string]int{"price": priceCol, "name": nameCol}
	for col := 0; col < width; col++ {
		if col != priceCol && col != nameCol {
			cols["sku"] = col
			break
		}
	}
	return cols, true
}

// mostlyPrices reports whether at least two thirds of the non-empty cells in
// a column parse as monetary amounts.
func mostlyPrices(rows [][]string, col int) bool {
	parsed, nonEmpty := 0, 0
	for _, row := range rows {
		cell := cellAt(row, col)
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := parsePrice(cell, strings.Contains(cell, ",") && !strings.Contains(cell, ".")); err == nil {
			parsed++
		}
	}
	return nonEmpty > 0 && parsed*3 >= nonEmpty*2
}

var (
	commaDecimalCell = regexp.MustCompile(`,\d{1,2}$`)
	dotDecimalCell   = regexp.MustCompile(`\.\d{1,2}$`)
)

// columnUsesDecimalComma reports whether a price column is written in the
// European comma-decimal convention ("12,50", "1.250,00"). With no supplier
// fingerprint the cells themselves are the only signal: the column takes
// whichever decimal style its trailing digits show more often, defaulting to
// dot-decimal. A cell like "1,250" with three trailing digits reads as a
// thousands separator, never as a decimal.
func columnUsesDecimalComma(rows [][]string, priceCol, headerRow int) bool {
	comma, dot := 0, 0
	for rowIdx := headerRow + 1; rowIdx < len(rows); rowIdx++ {
		cell := currencyMarks.Replace(cellAt(rows[rowIdx], priceCol))
		switch {
		case cell == "":
		case commaDecimalCell.MatchString(cell):
			comma++
		case dotDecimalCell.MatchString(cell):
			dot++
		}
	}
	return comma > dot
}

// detectCurrency infers an ISO-like currency code from symbols present in the
// document text, defaulting to USD.
func detectCurrency(text string) string {
	switch {
	case strings.Contains(text, "€") || strings.Contains(text, "EUR"):
		return "EUR"
	case strings.Contains(text, "£") || strings.Contains(text, "GBP"):
		return "GBP"
	default:
		return "USD"
	}
}

func (s *Generic) parseMetadata(b *resultBuilder, text string) {
	if v := labelValue(text, "invoice #", "invoice number", "invoice no", "invoice"); v != "" {
		b.meta.InvoiceNumber = firstToken(v)
	}

	if v := labelValue(text, "invoice date", "date"); v != "" {
		raw := firstToken(v)
		if t, ok := parseDate(raw, false); ok {
			b.meta.InvoiceDate = &t
		} else if t, ok := parseDate(raw, true); ok {
			b.meta.InvoiceDate = &t
		} else {
			b.meta.InvoiceDateRaw = raw
			b.addError(domain.MetadataRef(), domain.ReasonUnparseableDate, raw)
		}
	}

	if v := labelValue(text, "total"); v != "" {
		raw := firstToken(v)
		if amount, err := parsePrice(raw, commaDecimalCell.MatchString(currencyMarks.Replace(raw))); err == nil {
			b.meta.TotalAmount = &amount
		}
	}
}
