package cache

import (
	"context"
	"sync"
	"time"

	"consulta/internal/identity/models"
	"consulta/pkg/platform/sentinel"
)

// MemoryStore is the in-process Store. Suitable for a single instance; use
// RedisStore when running more than one replica.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	record    models.Record
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Find returns the cached record for the CPF, or sentinel.ErrNotFound on a
// miss or an expired entry. Expired entries are dropped lazily here.
func (s *MemoryStore) Find(_ context.Context, cpf string) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[cpf]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, cpf)
		return nil, sentinel.ErrNotFound
	}
	record := entry.record
	return &record, nil
}

// Save stores a copy of the record under its CPF with the configured TTL.
func (s *MemoryStore) Save(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[record.CPF] = memoryEntry{
		record:    *record,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}
