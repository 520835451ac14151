package pipeline

import (
	"context"
	"fmt"
	"log"

	"pimflow/internal/domain"
	"pimflow/internal/pipeline/aggregate"
	"pimflow/internal/pipeline/strategy"
	"pimflow/internal/pipeline/supplier"
)

// ContentExtractor converts raw PDF bytes into text and tables.
type ContentExtractor interface {
	Extract(ctx context.Context, pdfBytes []byte) (*domain.ExtractedContent, error)
}

// Pipeline sequences extraction, supplier detection, strategy dispatch and
// aggregation for one invoice. Each Parse call is a self-contained, stateless
// computation; concurrent calls share nothing mutable but the registry
// snapshot.
type Pipeline struct {
	extractor ContentExtractor
	registry  *Registry
}

// New creates a Pipeline.
func New(extractor ContentExtractor, registry *Registry) *Pipeline {
	return &Pipeline{extractor: extractor, registry: registry}
}

// Registry exposes the supplier registry for runtime registration.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Parse runs the full parsing pipeline without any persistence. Extraction
// failures are returned as errors; everything downstream is recovered into
// the result's error list.
func (p *Pipeline) Parse(ctx context.Context, pdfBytes []byte) (*domain.ParsingResult, error) {
	content, err := p.extractor.Extract(ctx, pdfBytes)
	if err != nil {
		return nil, err
	}

	identity := supplier.Detect(p.registry.Fingerprints(), content.Text)
	strat := p.registry.StrategyFor(identity.Code)
	log.Printf("pipeline.Parse: supplier=%q confidence=%s strategy=%s (%d tables)",
		identity.Code, identity.Confidence, strat.Code(), len(content.Tables))

	return safeParse(strat, content), nil
}

// safeParse shields the orchestrator from strategy panics: a crashing
// strategy degrades to zero products plus one strategy_exception error
// instead of propagating.
func safeParse(s strategy.Strategy, content *domain.ExtractedContent) (result *domain.ParsingResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline.safeParse: strategy %s panicked: %v", s.Code(), r)
			result = aggregate.Assemble(s.Code(), nil, []domain.ParsingError{{
				Ref:      domain.MetadataRef(),
				Reason:   domain.ReasonStrategyException,
				RawValue: fmt.Sprintf("strategy panic: %v", r),
			}}, domain.InvoiceMetadata{})
		}
	}()
	return s.ParseInvoice(content.Text, content.Tables)
}
