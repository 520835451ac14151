package strategy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pimflow/internal/domain"
)

// normalizeHeader lowercases a header cell and collapses internal whitespace,
// so "Unit  Price " matches "unit price".
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// column describes one field a strategy wants to map from a header row.
type column struct {
	field    string
	keywords []string
	required bool
}

// findColumns scans the first rows of a table for a header row containing all
// required columns. Matching is containment on the normalized header, never
// exact equality. Returns the field to column-index mapping and the header row
// index, or ok=false when no row qualifies.
func findColumns(table domain.Table, cols []column) (map[string]int, int, bool) {
	maxHeaderScan := 3
	if len(table.Rows) < maxHeaderScan {
		maxHeaderScan = len(table.Rows)
	}

	for rowIdx := 0; rowIdx < maxHeaderScan; rowIdx++ {
		row := table.Rows[rowIdx]
		normalized := make([]string, len(row))
		for i, cell := range row {
			normalized[i] = normalizeHeader(cell)
		}

		mapping := make(map[string]int)
		used := make(map[int]bool)
		for _, c := range cols {
			for i, cell := range normalized {
				if used[i] || cell == "" {
					continue
				}
				if matchesKeyword(cell, c.keywords) {
					mapping[c.field] = i
					used[i] = true
					break
				}
			}
		}

		complete := true
		for _, c := range cols {
			if _, ok := mapping[c.field]; c.required && !ok {
				complete = false
				break
			}
		}
		if complete && len(mapping) > 0 {
			return mapping, rowIdx, true
		}
	}
	return nil, 0, false
}

func matchesKeyword(normalizedCell string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalizedCell, kw) {
			return true
		}
	}
	return false
}

// cellAt returns the cell at idx, tolerating ragged rows.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var thousandsSep = strings.NewReplacer(",", "", " ", "", " ", "")

// parseQuantity parses an integer quantity. Negative and non-numeric values
// are rejected, never clamped.
func parseQuantity(s string) (int, error) {
	cleaned := thousandsSep.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not an integer", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("quantity %d is negative", n)
	}
	return n, nil
}

var currencyMarks = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", "USD", "", "EUR", "", "GBP", "", " ", "", " ", "")

// parsePrice parses a monetary amount after stripping currency symbols and
// thousands separators. decimalComma selects the European convention
// ("1.234,56"). Failures are rejected; a silently-zeroed price is worse than
// a dropped row.
func parsePrice(s string, decimalComma bool) (decimal.Decimal, error) {
	cleaned := currencyMarks.Replace(strings.TrimSpace(s))
	if decimalComma {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty price")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("price %q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("price %q is negative", s)
	}
	return d, nil
}

var usDateLayouts = []string{
	"01/02/2006", "1/2/2006", "2006-01-02",
	"January 2, 2006", "Jan 2, 2006", "Jan 2 2006", "01-02-2006",
}

var euDateLayouts = []string{
	"02/01/2006", "2/1/2006", "02.01.2006", "02-01-2006",
	"2006-01-02", "2 January 2006", "2 Jan 2006",
}

// parseDate tries the supplier's date layouts in order. ok=false means the
// value should be kept as a raw string with a flag, not dropped.
func parseDate(s string, dayFirst bool) (time.Time, bool) {
	layouts := usDateLayouts
	if dayFirst {
		layouts = euDateLayouts
	}
	trimmed := strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// labelValue performs a label-anchored search in the reading-order text: the
// first line containing one of the labels yields the remainder of that line
// after the label and any separator. Labels are tried in order; matching is
// case-insensitive and whitespace-tolerant but never spans lines, so values
// from unrelated table cells cannot bleed in. Labels match only at word
// boundaries: "date" does not fire inside "Updated", nor "total" inside
// "Subtotal".
func labelValue(text string, labels ...string) string {
	for _, label := range labels {
		if label == "" {
			continue
		}
		pattern := `(?i)\b` + regexp.QuoteMeta(label)
		if isWordByte(label[len(label)-1]) {
			pattern += `\b`
		}
		re := regexp.MustCompile(pattern + `[ \t:#]*([^\n]+)`)
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if v := strings.TrimSpace(strings.TrimLeft(m[1], ":# \t")); v != "" {
				return v
			}
		}
	}
	return ""
}

func isWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

// firstToken returns the first whitespace-delimited token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
