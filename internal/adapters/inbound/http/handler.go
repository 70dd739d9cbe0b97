// Package http serves the balance view over HTTP.
//
// Routes:
//   - GET /balances      zero-filled balance table keyed by token address
//   - GET /health        combined status
//   - GET /health/ready  readiness probe
//   - GET /health/live   liveness probe
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/archon-research/stl/stl-lend/internal/ports/inbound"
)

// Handler implements the balance API handlers.
type Handler struct {
	balances inbound.BalanceViewer
	logger   *slog.Logger
}

// NewHandler creates a new HTTP handler over the balance view.
func NewHandler(balances inbound.BalanceViewer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		balances: balances,
		logger:   logger.With("component", "balance-handler"),
	}
}

// RegisterRoutes registers the API routes with the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /balances", h.Balances)
}

// Balances writes the balance table as a JSON object.
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, h.balances.Balances(r.Context()))
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}
