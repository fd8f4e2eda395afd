// Package providers defines the interface and error taxonomy shared by every
// upstream identity source. Adapters normalize their provider-specific payloads
// into models.Record so the resolver can treat sources uniformly.
package providers

import (
	"context"

	"consulta/internal/domain"
	"consulta/internal/identity/models"
)

// Query carries the lookup key plus the user-supplied birth date, which some
// providers omit from their payloads and adapters echo back instead.
type Query struct {
	CPF       domain.CPF
	BirthDate string
}

// Provider is the interface all identity sources implement.
type Provider interface {
	// Name returns the stable source identifier tagged onto records.
	Name() string

	// Lookup resolves the query into a canonical record or fails with a
	// *ProviderError. The returned record always has non-empty CPF and name.
	Lookup(ctx context.Context, q Query) (*models.Record, error)
}
