//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"consulta/internal/identity/cache"
	"consulta/internal/identity/models"
	"consulta/pkg/platform/sentinel"
	"consulta/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *cache.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = cache.NewRedisStore(s.redis.Client, 5*time.Minute)
}

func (s *RedisStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.redis.FlushAll(ctx)
	s.Require().NoError(err)
}

func (s *RedisStoreSuite) TestMissReturnsErrNotFound() {
	ctx := context.Background()
	_, err := s.store.Find(ctx, "52998224725")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	record := models.NewRecord("52998224725", "Jose Carlos Silva", "20/05/1990", "Maria Carlos Silva", models.SourceAPICPF)

	err := s.store.Save(ctx, record)
	s.Require().NoError(err)

	found, err := s.store.Find(ctx, "52998224725")
	s.Require().NoError(err)
	s.Equal(record.CPF, found.CPF)
	s.Equal(record.Name, found.Name)
	s.Equal(record.BirthDate, found.BirthDate)
	s.Equal(record.MotherName, found.MotherName)
	s.Equal(record.Source, found.Source)
	s.Equal(models.SituacaoDefault, found.Situacao)
	s.Equal(models.StatusDefault, found.Status)
}

func (s *RedisStoreSuite) TestRecordsAreIsolatedByCPF() {
	ctx := context.Background()
	first := models.NewRecord("52998224725", "Jose Carlos Silva", "20/05/1990", "Maria Carlos Silva", models.SourceAPICPF)
	second := models.NewRecord("11144477735", "Ana Beatriz Costa", "03/11/1982", "Maria Beatriz Costa", models.SourceConsultaBR)

	s.Require().NoError(s.store.Save(ctx, first))
	s.Require().NoError(s.store.Save(ctx, second))

	found, err := s.store.Find(ctx, "11144477735")
	s.Require().NoError(err)
	s.Equal("Ana Beatriz Costa", found.Name)
	s.Equal(models.SourceConsultaBR, found.Source)
}

func (s *RedisStoreSuite) TestTTLEviction() {
	ctx := context.Background()
	shortTTLStore := cache.NewRedisStore(s.redis.Client, 50*time.Millisecond)
	record := models.NewRecord("52998224725", "Jose Carlos Silva", "20/05/1990", "Maria Carlos Silva", models.SourceAPICPF)

	err := shortTTLStore.Save(ctx, record)
	s.Require().NoError(err)

	time.Sleep(90 * time.Millisecond)

	_, err = shortTTLStore.Find(ctx, "52998224725")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
