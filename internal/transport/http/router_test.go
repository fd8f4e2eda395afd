package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consulta/internal/identity/handler"
	"consulta/internal/identity/models"
	"consulta/internal/platform/metrics"
)

// Prometheus collectors register globally, so the package shares one instance.
var testMetrics = metrics.New()

type noopService struct{}

func (noopService) Lookup(context.Context, models.LookupRequest) (*models.Record, error) {
	return nil, nil
}

func newTestRouter(health func(context.Context) error) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.New(noopService{}, logger, testMetrics, time.Second)
	return NewRouter(h, health)
}

func TestRouter_Health(t *testing.T) {
	t.Run("ok without a configured dependency", func(t *testing.T) {
		srv := httptest.NewServer(newTestRouter(nil))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("degraded when the cache is down", func(t *testing.T) {
		down := func(context.Context) error { return errors.New("dial tcp: refused") }
		srv := httptest.NewServer(newTestRouter(down))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "cache unavailable", body["error"])
	})
}

func TestRouter_Metrics(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
