package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consulta/internal/identity/models"
	"consulta/pkg/platform/sentinel"
)

func testRecord() *models.Record {
	return models.NewRecord("52998224725", "Jose Carlos Silva", "20/05/1990", "Helena Silva", models.SourceAPICPF)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("miss returns sentinel not found", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)
		_, err := s.Find(ctx, "52998224725")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("round-trips a saved record", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)
		require.NoError(t, s.Save(ctx, testRecord()))

		got, err := s.Find(ctx, "52998224725")
		require.NoError(t, err)
		assert.Equal(t, testRecord(), got)
	})

	t.Run("returns a copy, not the stored record", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)
		require.NoError(t, s.Save(ctx, testRecord()))

		first, err := s.Find(ctx, "52998224725")
		require.NoError(t, err)
		first.Name = "mutated"

		second, err := s.Find(ctx, "52998224725")
		require.NoError(t, err)
		assert.Equal(t, "Jose Carlos Silva", second.Name)
	})

	t.Run("expired entries are dropped", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)
		now := time.Now()
		s.now = func() time.Time { return now }
		require.NoError(t, s.Save(ctx, testRecord()))

		s.now = func() time.Time { return now.Add(2 * time.Minute) }
		_, err := s.Find(ctx, "52998224725")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("save overwrites an existing entry", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)
		require.NoError(t, s.Save(ctx, testRecord()))

		updated := testRecord()
		updated.Source = models.SourceConsultaBR
		require.NoError(t, s.Save(ctx, updated))

		got, err := s.Find(ctx, "52998224725")
		require.NoError(t, err)
		assert.Equal(t, models.SourceConsultaBR, got.Source)
	})
}
