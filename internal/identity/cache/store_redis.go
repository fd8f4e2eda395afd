package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"consulta/internal/identity/models"
	"consulta/pkg/platform/sentinel"
)

const redisKeyPrefix = "consulta:record:"

// RedisStore is the shared Store for multi-replica deployments. Records are
// stored as JSON with the TTL enforced by Redis itself.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Find(ctx context.Context, cpf string) (*models.Record, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+cpf).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var record models.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal cached record: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Save(ctx context.Context, record *models.Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+record.CPF, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
