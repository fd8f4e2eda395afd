package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consulta/internal/identity/cache"
	"consulta/internal/identity/models"
	"consulta/internal/identity/providers"
	"consulta/internal/identity/resolver"
	"consulta/internal/identity/synthetic"
	"consulta/internal/platform/metrics"
	dErrors "consulta/pkg/domain-errors"
)

// Prometheus collectors register globally, so the package shares one instance.
var testMetrics = metrics.New()

var validRequest = models.LookupRequest{
	CPF:       "529.982.247-25",
	BirthDate: "20/05/1990",
	Phone:     "11987654321",
}

type stubProvider struct {
	name  string
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Lookup(_ context.Context, q providers.Query) (*models.Record, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return models.NewRecord(q.CPF.String(), "Jose Carlos Silva", q.BirthDate, "Helena Silva", p.name), nil
}

// gatedProvider blocks every lookup until release is closed so concurrent
// callers pile up on one in-flight resolution. calls is mutex-guarded for the
// race detector.
type gatedProvider struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (p *gatedProvider) Name() string { return "gated" }

func (p *gatedProvider) Lookup(ctx context.Context, q providers.Query) (*models.Record, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return models.NewRecord(q.CPF.String(), "Jose Carlos Silva", q.BirthDate, "Helena Silva", p.Name()), nil
}

type fixedPicker struct{}

func (fixedPicker) Intn(int) int { return 0 }

type failingStore struct{}

func (failingStore) Find(context.Context, string) (*models.Record, error) {
	return nil, errors.New("cache down")
}

func (failingStore) Save(context.Context, *models.Record) error {
	return errors.New("cache down")
}

func newService(store cache.Store, chain ...providers.Provider) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := resolver.New(chain, synthetic.New(fixedPicker{}), time.Second, logger, testMetrics)
	return NewService(res, store, logger, testMetrics)
}

func TestService_Lookup_InputErrors(t *testing.T) {
	provider := &stubProvider{name: "a"}
	svc := newService(nil, provider)
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.LookupRequest
	}{
		{"invalid cpf checksum", models.LookupRequest{CPF: "52998224726", BirthDate: "20/05/1990", Phone: "11987654321"}},
		{"all-identical cpf", models.LookupRequest{CPF: "11111111111", BirthDate: "20/05/1990", Phone: "11987654321"}},
		{"malformed birth date", models.LookupRequest{CPF: "52998224725", BirthDate: "1990-05-20", Phone: "11987654321"}},
		{"future birth date", models.LookupRequest{CPF: "52998224725", BirthDate: "01/01/2250", Phone: "11987654321"}},
		{"short phone", models.LookupRequest{CPF: "52998224725", BirthDate: "20/05/1990", Phone: "119876543"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Lookup(ctx, tc.req)
			require.Error(t, err)
			assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
		})
	}

	assert.Equal(t, 0, provider.calls, "input errors must never reach the resolver")
}

func TestService_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves through the chain", func(t *testing.T) {
		provider := &stubProvider{name: "a"}
		svc := newService(nil, provider)

		record, err := svc.Lookup(ctx, validRequest)
		require.NoError(t, err)
		assert.Equal(t, "52998224725", record.CPF)
		assert.Equal(t, "a", record.Source)
	})

	t.Run("second lookup is answered from cache", func(t *testing.T) {
		provider := &stubProvider{name: "a"}
		svc := newService(cache.NewMemoryStore(time.Minute), provider)

		_, err := svc.Lookup(ctx, validRequest)
		require.NoError(t, err)
		_, err = svc.Lookup(ctx, validRequest)
		require.NoError(t, err)

		assert.Equal(t, 1, provider.calls)
	})

	t.Run("synthetic records are not cached", func(t *testing.T) {
		provider := &stubProvider{name: "a", err: providers.NewError(providers.ErrorOutage, "a", "down", nil)}
		svc := newService(cache.NewMemoryStore(time.Minute), provider)

		record, err := svc.Lookup(ctx, validRequest)
		require.NoError(t, err)
		assert.True(t, record.Synthetic())

		_, err = svc.Lookup(ctx, validRequest)
		require.NoError(t, err)
		assert.Equal(t, 2, provider.calls, "next request must try the real sources again")
	})

	t.Run("concurrent lookups for one cpf share a single chain walk", func(t *testing.T) {
		provider := &gatedProvider{release: make(chan struct{})}
		svc := newService(cache.NewMemoryStore(time.Minute), provider)

		const n = 8
		records := make([]*models.Record, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				record, err := svc.Lookup(ctx, validRequest)
				assert.NoError(t, err)
				records[i] = record
			}(i)
		}

		// Let the callers pile up on the in-flight resolution, then let it
		// finish. Stragglers that miss the flight hit the cache instead.
		time.Sleep(20 * time.Millisecond)
		close(provider.release)
		wg.Wait()

		provider.mu.Lock()
		calls := provider.calls
		provider.mu.Unlock()
		assert.Equal(t, 1, calls)
		for _, record := range records {
			require.NotNil(t, record)
			assert.Equal(t, "52998224725", record.CPF)
			assert.Equal(t, "gated", record.Source)
		}
	})

	t.Run("broken cache degrades to a chain walk", func(t *testing.T) {
		provider := &stubProvider{name: "a"}
		svc := newService(failingStore{}, provider)

		record, err := svc.Lookup(ctx, validRequest)
		require.NoError(t, err)
		assert.Equal(t, "a", record.Source)
	})
}
