// Package identity orchestrates a lookup end to end: domain validation,
// cache consult, and the provider fallback chain.
package identity

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"consulta/internal/domain"
	"consulta/internal/identity/cache"
	"consulta/internal/identity/models"
	"consulta/internal/identity/providers"
	"consulta/internal/identity/resolver"
	"consulta/internal/platform/metrics"
	dErrors "consulta/pkg/domain-errors"
	"consulta/pkg/platform/sentinel"
	"consulta/pkg/requestcontext"
)

// Service coordinates identity resolution with caching and duplicate-lookup
// collapsing.
type Service struct {
	resolver *resolver.Resolver
	cache    cache.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	group    singleflight.Group
}

// NewService constructs the service. cache may be nil to disable caching.
func NewService(r *resolver.Resolver, c cache.Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		resolver: r,
		cache:    c,
		logger:   logger,
		metrics:  m,
	}
}

// Lookup validates the request and resolves a record. Input errors come back
// with CodeInvalidInput and never reach the resolver; once validation passes
// a record is always produced, synthetic if every provider failed.
func (s *Service) Lookup(ctx context.Context, req models.LookupRequest) (*models.Record, error) {
	cpf, err := domain.NewCPF(req.CPF)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInvalidInput, "invalid cpf", err)
	}
	if err := domain.ValidateBirthDate(req.BirthDate, requestcontext.Now(ctx)); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInvalidInput, "invalid birth date", err)
	}
	if err := domain.ValidatePhone(req.Phone); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInvalidInput, "invalid phone", err)
	}

	if record := s.fromCache(ctx, cpf.String()); record != nil {
		return record, nil
	}

	q := providers.Query{CPF: cpf, BirthDate: req.BirthDate}

	// Concurrent lookups for the same CPF share one chain walk. The shared
	// call cannot fail: resolution always yields a record, synthetic at worst.
	v, _, _ := s.group.Do(cpf.String(), func() (any, error) {
		result := s.resolver.Resolve(ctx, q)
		s.fillCache(ctx, result.Record)
		return result.Record, nil
	})
	return v.(*models.Record), nil
}

// fromCache consults the cache, tolerating cache failures: a broken cache
// degrades to a normal chain walk, never to a failed lookup.
func (s *Service) fromCache(ctx context.Context, cpf string) *models.Record {
	if s.cache == nil {
		return nil
	}
	record, err := s.cache.Find(ctx, cpf)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "cache lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		return nil
	}
	s.metrics.RecordCacheHit()
	return record
}

// fillCache saves genuine provider data. Synthetic records are never cached:
// the next request should try the real sources again.
func (s *Service) fillCache(ctx context.Context, record *models.Record) {
	if s.cache == nil || record.Synthetic() {
		return
	}
	if err := s.cache.Save(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "cache save failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
}
