// Package resolver walks the ordered provider chain. Each provider is
// attempted exactly once, strictly in sequence, under one uniform timeout;
// any failure advances the chain, and total exhaustion falls through to the
// synthesizer so a record is always produced.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"consulta/internal/identity/models"
	"consulta/internal/identity/providers"
	"consulta/internal/identity/synthetic"
	"consulta/internal/platform/metrics"
	"consulta/pkg/requestcontext"
)

// Result carries the resolved record plus the per-provider failures that were
// recovered along the way. Failures are diagnostic only; they never abort the
// resolution.
type Result struct {
	Record *models.Record
	Errors map[string]error
}

// Resolver orchestrates the fallback chain.
type Resolver struct {
	chain   []providers.Provider
	synth   *synthetic.Generator
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(
	chain []providers.Provider,
	synth *synthetic.Generator,
	timeout time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Resolver {
	return &Resolver{
		chain:   chain,
		synth:   synth,
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
}

// Resolve tries each provider in order and short-circuits on the first
// success. When every provider fails it returns a synthetic record; callers
// distinguish that case via Record.Synthetic(). Resolve never returns a nil
// record.
func (r *Resolver) Resolve(ctx context.Context, q providers.Query) *Result {
	result := &Result{Errors: make(map[string]error)}
	requestID := requestcontext.RequestID(ctx)

	for _, p := range r.chain {
		record, err := r.attempt(ctx, p, q)
		if err != nil {
			result.Errors[p.Name()] = err
			r.metrics.RecordProviderFailure(p.Name(), string(providers.GetCategory(err)))
			r.logger.WarnContext(ctx, "provider attempt failed, advancing chain",
				"request_id", requestID,
				"provider", p.Name(),
				"category", string(providers.GetCategory(err)),
				"error", err.Error(),
			)
			continue
		}
		result.Record = record
		r.metrics.RecordLookup(p.Name())
		return result
	}

	r.logger.WarnContext(ctx, "all providers failed, synthesizing contingency record",
		"request_id", requestID,
		"providers_tried", len(r.chain),
		"error", providers.ErrAllProvidersFailed.Error(),
	)
	result.Record = r.synth.Generate(q)
	r.metrics.RecordSyntheticFallback()
	r.metrics.RecordLookup(models.SourceSynthetic)
	return result
}

// attempt runs one provider under the uniform timeout ceiling.
func (r *Resolver) attempt(ctx context.Context, p providers.Provider, q providers.Query) (*models.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return p.Lookup(ctx, q)
}
