package strategy

import (
	"strings"

	"pimflow/internal/domain"
)

// lineItemLayout drives the shared column-mapped table walk used by the
// per-supplier strategies.
type lineItemLayout struct {
	columns      []column
	decimalComma bool
	manufacturer string
	// defaultQuantity is used only when the layout has no quantity column at
	// all (the generic fallback); a present-but-bad quantity is still an error.
	defaultQuantity int
}

// parseLineTable walks the data rows of one matched table, emitting one
// product or exactly one error per row. A malformed row never aborts the
// remaining rows.
func parseLineTable(b *resultBuilder, tableIdx int, table domain.Table, cols map[string]int, headerRow int, layout lineItemLayout) {
	skuCol, hasSKU := cols["sku"]
	nameCol, hasName := cols["name"]
	qtyCol, hasQty := cols["qty"]
	priceCol := cols["price"]
	catCol, hasCat := cols["category"]

	for rowIdx := headerRow + 1; rowIdx < len(table.Rows); rowIdx++ {
		row := table.Rows[rowIdx]
		if rowIsEmpty(row) {
			continue
		}
		ref := domain.TableRowRef(tableIdx, rowIdx)

		sku := ""
		if hasSKU {
			sku = cellAt(row, skuCol)
		}
		name := ""
		if hasName {
			name = cellAt(row, nameCol)
		}
		if sku == "" && name == "" {
			b.addError(ref, domain.ReasonMissingRequiredField, strings.Join(row, " | "))
			continue
		}

		quantity := layout.defaultQuantity
		if hasQty {
			rawQty := cellAt(row, qtyCol)
			q, err := parseQuantity(rawQty)
			if err != nil {
				b.addError(ref, domain.ReasonUnparseableNumber, rawQty)
				continue
			}
			quantity = q
		}

		rawPrice := cellAt(row, priceCol)
		if rawPrice == "" {
			b.addError(ref, domain.ReasonMalformedRow, strings.Join(row, " | "))
			continue
		}
		price, err := parsePrice(rawPrice, layout.decimalComma)
		if err != nil {
			b.addError(ref, domain.ReasonUnparseableNumber, rawPrice)
			continue
		}

		product := domain.Product{
			SupplierSKU: sku,
			Name:        name,
			Quantity:    quantity,
			PriceUSD:    price,
			SourceTable: tableIdx,
			SourceRow:   rowIdx,
		}
		if layout.manufacturer != "" {
			m := layout.manufacturer
			product.Manufacturer = &m
		}
		if hasCat {
			if cat := cellAt(row, catCol); cat != "" {
				product.Category = &cat
			}
		}
		b.addProduct(product)
	}
}
