package csvexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"pimflow/internal/domain"
)

const sheetName = "Products"

// WriteXLSX writes products as a single-sheet workbook to w. The columns match
// the CSV export so the two formats stay interchangeable downstream.
func WriteXLSX(w io.Writer, products []domain.Product) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i := range products {
		p := &products[i]
		price, _ := p.PriceUSD.Float64()
		row := []interface{}{
			p.SupplierSKU,
			p.Name,
			deref(p.Category),
			deref(p.Manufacturer),
			p.Quantity,
			price,
			p.SourceTable,
			p.SourceRow,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
