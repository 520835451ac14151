package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"pimflow/internal/domain"
)

// ErrTimeout is returned when PDF decoding exceeds the configured wall-clock cap.
var ErrTimeout = errors.New("pdf extraction timed out")

// ExtractionError indicates the input could not be decoded as a PDF or
// contained no extractable pages. It is terminal: no partial result exists.
type ExtractionError struct {
	Msg string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdf extraction failed: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("pdf extraction failed: %s", e.Msg)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor converts raw PDF bytes into reading-order text plus detected tables.
type Extractor struct {
	timeout time.Duration
}

// NewExtractor creates an Extractor. timeout bounds a single extraction; zero
// disables the cap.
func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{timeout: timeout}
}

// Extract decodes pdfBytes and returns both document views. Decoding runs in
// a separate goroutine so it can be raced against ctx and the configured
// timeout; the underlying library has no cancellation hooks, so on timeout the
// goroutine is abandoned and its eventual result discarded.
func (e *Extractor) Extract(ctx context.Context, pdfBytes []byte) (*domain.ExtractedContent, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type outcome struct {
		content *domain.ExtractedContent
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			// The pdf library panics on some malformed inputs.
			if r := recover(); r != nil {
				done <- outcome{err: &ExtractionError{Msg: fmt.Sprintf("decoder panic: %v", r)}}
			}
		}()
		content, err := decode(pdfBytes)
		done <- outcome{content: content, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Printf("extract.Extractor: extraction exceeded %s, abandoning", e.timeout)
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	case out := <-done:
		return out.content, out.err
	}
}

func decode(pdfBytes []byte) (*domain.ExtractedContent, error) {
	reader, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return nil, &ExtractionError{Msg: "not a readable PDF", Err: err}
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, &ExtractionError{Msg: "document has zero pages"}
	}

	var lines [][]pdf.Text
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, &ExtractionError{Msg: fmt.Sprintf("reading page %d", i), Err: err}
		}
		for _, row := range rows {
			if len(row.Content) == 0 {
				continue
			}
			lines = append(lines, row.Content)
		}
	}

	if len(lines) == 0 {
		return nil, &ExtractionError{Msg: "no extractable text in document"}
	}

	return &domain.ExtractedContent{
		Text:   buildText(lines),
		Tables: buildTables(lines),
	}, nil
}

// minCellGap is the horizontal whitespace (in PDF points) separating two words
// that places them in different table cells.
const minCellGap = 14.0

// buildText serializes positioned words into reading-order text, one document
// line per text line, words separated by single spaces.
func buildText(lines [][]pdf.Text) string {
	var b strings.Builder
	for i, words := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, w := range words {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.S)
		}
	}
	return b.String()
}

// splitCells clusters one line's words (sorted by X) into cell strings. A new
// cell starts whenever the gap from the previous word's right edge exceeds
// minCellGap.
func splitCells(words []pdf.Text) []string {
	if len(words) == 0 {
		return nil
	}

	var cells []string
	var cell strings.Builder
	cell.WriteString(words[0].S)
	prevRight := words[0].X + words[0].W

	for _, w := range words[1:] {
		if w.X-prevRight > minCellGap {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		} else if cell.Len() > 0 {
			cell.WriteByte(' ')
		}
		cell.WriteString(w.S)
		prevRight = w.X + w.W
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells
}

// buildTables groups consecutive multi-cell lines into tables. A line that
// clusters into a single cell ends the current table. Ragged rows are kept;
// downstream strategies must tolerate them.
func buildTables(lines [][]pdf.Text) []domain.Table {
	var tables []domain.Table
	var current [][]string

	flush := func() {
		// A lone multi-cell line is more likely a label/value pair than a grid.
		if len(current) >= 2 {
			tables = append(tables, domain.Table{Rows: current})
		}
		current = nil
	}

	for _, words := range lines {
		cells := splitCells(words)
		if len(cells) >= 2 {
			current = append(current, cells)
			continue
		}
		flush()
	}
	flush()

	return tables
}
