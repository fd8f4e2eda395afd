// Package handler is the thin HTTP layer for identity resolution. It decodes
// and presence-checks the payload, delegates to the identity service, and
// shapes the success/error envelopes; business logic stays in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"consulta/internal/identity/models"
	"consulta/internal/platform/metrics"
	"consulta/internal/platform/middleware"
	dErrors "consulta/pkg/domain-errors"
	"consulta/pkg/requestcontext"
)

// Service defines the identity operations the handler delegates to.
type Service interface {
	Lookup(ctx context.Context, req models.LookupRequest) (*models.Record, error)
}

// Handler handles identity resolution endpoints.
type Handler struct {
	logger   *slog.Logger
	identity Service
	metrics  *metrics.Metrics
	validate *validator.Validate
	timeout  time.Duration
}

// New creates the identity Handler. timeout bounds the whole request,
// provider chain included.
func New(identity Service, logger *slog.Logger, m *metrics.Metrics, timeout time.Duration) *Handler {
	return &Handler{
		logger:   logger,
		identity: identity,
		metrics:  m,
		validate: validator.New(),
		timeout:  timeout,
	}
}

// Register mounts the resolution routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	lookupRouter := chi.NewRouter()
	lookupRouter.Use(middleware.Recovery(h.logger))
	lookupRouter.Use(middleware.RequestID)
	lookupRouter.Use(middleware.RequestTime)
	lookupRouter.Use(middleware.Logger(h.logger))
	lookupRouter.Use(middleware.Timeout(h.timeout))
	lookupRouter.Use(middleware.ContentTypeJSON)
	lookupRouter.Use(middleware.Latency(h.metrics))
	lookupRouter.Post("/api/consulta", h.handleLookup)

	r.Mount("/", lookupRouter)
}

func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid lookup request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		h.writeError(ctx, w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.WarnContext(ctx, "lookup request missing fields",
			"request_id", requestID,
			"error", err.Error(),
		)
		h.writeError(ctx, w, dErrors.New(dErrors.CodeInvalidInput, "cpf, data_nascimento and telefone are required"))
		return
	}

	record, err := h.identity.Lookup(ctx, req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInvalidInput) {
			h.logger.WarnContext(ctx, "lookup rejected invalid input",
				"request_id", requestID,
				"error", err.Error(),
			)
			h.writeError(ctx, w, err)
			return
		}
		h.logger.ErrorContext(ctx, "lookup failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		h.writeError(ctx, w, dErrors.New(dErrors.CodeInternal, "internal error"))
		return
	}

	resp := models.LookupResponse{
		Success:          true,
		Data:             record,
		Source:           record.Source,
		ProcessingTimeMS: processingTime(ctx),
		RequestID:        requestID,
	}
	if record.Synthetic() {
		resp.Warning = models.SyntheticDataAlert
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := dErrors.ToHTTPStatus(dErrors.GetCode(err))
	h.writeJSON(w, status, models.ErrorResponse{
		Success:          false,
		Error:            dErrors.Message(err),
		ProcessingTimeMS: processingTime(ctx),
		RequestID:        middleware.GetRequestID(ctx),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// processingTime measures from the request-scoped start time captured by the
// RequestTime middleware.
func processingTime(ctx context.Context) int64 {
	return time.Since(requestcontext.Now(ctx)).Milliseconds()
}
