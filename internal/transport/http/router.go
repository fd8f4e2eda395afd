// Package httptransport assembles the public router. Transport concerns stay
// here; domain services never see net/http.
package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"consulta/internal/identity/handler"
	dErrors "consulta/pkg/domain-errors"
)

// NewRouter wires the public endpoints: the resolution API, a health probe
// and the Prometheus scrape endpoint. health reports on the shared cache and
// may be nil when no external dependency is configured.
func NewRouter(identity *handler.Handler, health func(context.Context) error) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(health))
	r.Handle("/metrics", promhttp.Handler())

	identity.Register(r)
	return r
}

// handleHealth reports degraded with 503 when a configured dependency is
// down. Lookups still work in that state, so this is a signal, not liveness.
func handleHealth(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if check != nil {
			if err := check(r.Context()); err != nil {
				degraded := dErrors.Wrap(dErrors.CodeUnavailable, "cache unavailable", err)
				w.WriteHeader(dErrors.ToHTTPStatus(dErrors.GetCode(degraded)))
				_ = json.NewEncoder(w).Encode(map[string]string{
					"status": "degraded",
					"error":  dErrors.Message(degraded),
				})
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
