// Package cache bounds repeat lookups for the same CPF. Entries carry a TTL;
// this is working state with enforced retention, not durable persistence.
package cache

import (
	"context"

	"consulta/internal/identity/models"
)

// Store caches resolved identity records keyed by clean CPF.
// Find returns sentinel.ErrNotFound (possibly wrapped) on a miss.
type Store interface {
	Find(ctx context.Context, cpf string) (*models.Record, error)
	Save(ctx context.Context, record *models.Record) error
}
