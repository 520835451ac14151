package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pimflow/internal/domain"
	"pimflow/internal/pipeline"
	"pimflow/internal/pipeline/extract"
	"pimflow/mocks"
)

func lawnFawnContent() *domain.ExtractedContent {
	return &domain.ExtractedContent{
		Text: "Lawn Fawn Inc\nlawnfawn.com\nInvoice #: CP-Summer25\n",
		Tables: []domain.Table{{Rows: [][]string{
			{"SKU", "Name", "Qty", "Price"},
			{"LF1142", "Stitched Rectangle Frames", "2", "$12.50"},
		}}},
	}
}

func TestPipeline_Parse(t *testing.T) {
	extractor := new(mocks.MockContentExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(lawnFawnContent(), nil)

	p := pipeline.New(extractor, pipeline.DefaultRegistry())

	result, err := p.Parse(context.Background(), []byte("%PDF-fake"))
	require.NoError(t, err)

	assert.Equal(t, "lawnfawn", result.Supplier)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "LF1142", result.Products[0].SupplierSKU)
	assert.Equal(t, "CP-Summer25", result.Metadata.InvoiceNumber)
	extractor.AssertExpectations(t)
}

func TestPipeline_ParseFallsBackToGeneric(t *testing.T) {
	extractor := new(mocks.MockContentExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&domain.ExtractedContent{
		Text: "Some Unknown Supplier\nInvoice Number: U-1\n",
		Tables: []domain.Table{{Rows: [][]string{
			{"Item", "Description", "Amount"},
			{"U-100", "Unknown thing", "$4.00"},
		}}},
	}, nil)

	p := pipeline.New(extractor, pipeline.DefaultRegistry())

	result, err := p.Parse(context.Background(), []byte("%PDF-fake"))
	require.NoError(t, err)

	assert.Equal(t, "generic", result.Supplier)
	require.Len(t, result.Products, 1)
	assert.Equal(t, 1, result.Products[0].Quantity)
}

func TestPipeline_ExtractionErrorPropagates(t *testing.T) {
	extractor := new(mocks.MockContentExtractor)
	exErr := &extract.ExtractionError{Msg: "not a readable PDF"}
	extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, exErr)

	p := pipeline.New(extractor, pipeline.DefaultRegistry())

	_, err := p.Parse(context.Background(), []byte("junk"))

	var got *extract.ExtractionError
	require.ErrorAs(t, err, &got)
}

type panickingStrategy struct{}

func (panickingStrategy) Code() string { return "boom" }

func (panickingStrategy) ParseInvoice(text string, tables []domain.Table) *domain.ParsingResult {
	panic("exploded mid-parse")
}

func TestPipeline_StrategyPanicRecovered(t *testing.T) {
	extractor := new(mocks.MockContentExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&domain.ExtractedContent{Text: "anything"}, nil)

	p := pipeline.New(extractor, pipeline.NewRegistry(panickingStrategy{}))

	result, err := p.Parse(context.Background(), []byte("%PDF-fake"))
	require.NoError(t, err)

	assert.Equal(t, "boom", result.Supplier)
	assert.Empty(t, result.Products)
	require.Len(t, result.ParsingErrors, 1)
	assert.Equal(t, domain.ReasonStrategyException, result.ParsingErrors[0].Reason)
	assert.Equal(t, domain.MetadataRef(), result.ParsingErrors[0].Ref)
	assert.Contains(t, result.ParsingErrors[0].RawValue, "exploded mid-parse")
}
