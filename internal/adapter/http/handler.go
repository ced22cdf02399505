package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adengine/internal/core/port"
	"adengine/internal/errortypes"
)

// Handler contains dependencies and routes. It is an inbound adapter for
// HTTP. It holds the AuctionUseCase to execute business logic and a
// logger for structured logging. Routes are registered on a chi.Router.
type Handler struct {
	svc    port.AuctionUseCase
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.AuctionUseCase, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/requests", h.handleCreateRequest)
		r.Post("/auction/{requestID}/run", h.handleRunAuction)
		r.Get("/frequency/check", h.handleFrequencyCheck)
		r.Post("/frequency/events", h.handleFrequencyRecord)
		r.Get("/optimization/recommendations", h.handleRecommendations)
		r.Get("/stats/overview", h.handleStatsOverview)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// writeJSON encodes v with the given status. Encoding should rarely fail;
// failures are logged and the response left as-is.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeError maps the typed error taxonomy onto HTTP statuses. Unknown
// errors are logged and reported as a generic 500 without detail.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch errortypes.ReadCode(err) {
	case errortypes.NotFoundErrorCode:
		http.Error(w, err.Error(), http.StatusNotFound)
	case errortypes.InvalidInputErrorCode:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errortypes.CapExceededErrorCode:
		http.Error(w, err.Error(), http.StatusConflict)
	case errortypes.UpstreamUnavailableErrorCode:
		h.logger.Error("upstream unavailable", slog.Any("error", err))
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
