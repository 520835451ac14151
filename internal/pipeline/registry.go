package pipeline

import (
	"log"
	"sync"
	"sync/atomic"

	"pimflow/internal/pipeline/strategy"
	"pimflow/internal/pipeline/supplier"
)

// Registration binds a supplier fingerprint to its parsing strategy.
type Registration struct {
	Fingerprint supplier.Fingerprint
	Strategy    strategy.Strategy
}

// Registry maps supplier codes to parsing strategies. Reads take an atomic
// snapshot and writers replace the whole slice under a mutex, so in-flight
// parses never observe a partially updated registry even when suppliers are
// registered at runtime.
type Registry struct {
	mu       sync.Mutex
	entries  atomic.Pointer[[]Registration]
	fallback strategy.Strategy
}

// NewRegistry creates an empty registry with the given fallback strategy,
// used whenever detection yields no confident supplier.
func NewRegistry(fallback strategy.Strategy) *Registry {
	r := &Registry{fallback: fallback}
	empty := make([]Registration, 0)
	r.entries.Store(&empty)
	return r
}

// Register adds or replaces a supplier. Registration order is significant:
// it is the documented tie-break when two fingerprints match with equal
// specificity.
func (r *Registry) Register(code string, fp supplier.Fingerprint, s strategy.Strategy) {
	fp.Code = code

	r.mu.Lock()
	defer r.mu.Unlock()

	old := *r.entries.Load()
	next := make([]Registration, 0, len(old)+1)
	replaced := false
	for _, e := range old {
		if e.Fingerprint.Code == code {
			next = append(next, Registration{Fingerprint: fp, Strategy: s})
			replaced = true
			continue
		}
		next = append(next, e)
	}
	if !replaced {
		next = append(next, Registration{Fingerprint: fp, Strategy: s})
	}
	r.entries.Store(&next)
	log.Printf("pipeline.Registry: registered supplier %q (%d patterns)", code, len(fp.Patterns))
}

// Fingerprints returns the current fingerprint snapshot in registration order.
func (r *Registry) Fingerprints() []supplier.Fingerprint {
	entries := *r.entries.Load()
	fps := make([]supplier.Fingerprint, len(entries))
	for i, e := range entries {
		fps[i] = e.Fingerprint
	}
	return fps
}

// StrategyFor returns the strategy for a supplier code, or the fallback when
// the code is empty or unregistered.
func (r *Registry) StrategyFor(code string) strategy.Strategy {
	if code != "" {
		for _, e := range *r.entries.Load() {
			if e.Fingerprint.Code == code {
				return e.Strategy
			}
		}
	}
	return r.fallback
}

// DefaultRegistry builds the registry of known suppliers. This is an explicit
// table built at startup, not runtime discovery.
func DefaultRegistry() *Registry {
	r := NewRegistry(strategy.NewGeneric())

	r.Register("lawnfawn", supplier.Fingerprint{
		Patterns: []supplier.Pattern{
			supplier.Literal("Lawn Fawn"),
			supplier.Literal("lawnfawn.com"),
			supplier.Regex(`\bLF\d{3,}\b`),
		},
		DefaultCurrency: "USD",
	}, strategy.NewLawnFawn())

	r.Register("craftelier", supplier.Fingerprint{
		Patterns: []supplier.Pattern{
			supplier.Literal("Craftelier"),
			supplier.Literal("craftelier.com"),
			supplier.Literal("Factura"),
		},
		DefaultCurrency: "EUR",
	}, strategy.NewCraftelier())

	return r
}
