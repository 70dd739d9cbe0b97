package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/archon-research/stl/stl-lend/internal/ports/inbound"
)

// Probes serves readiness and liveness checks. Once shuttingDown is set every
// probe reports 503 so the load balancer drains the instance before it stops.
type Probes struct {
	checker      inbound.HealthChecker
	shuttingDown *atomic.Bool
	logger       *slog.Logger
}

// NewProbes creates health probes over checker.
func NewProbes(checker inbound.HealthChecker, shuttingDown *atomic.Bool, logger *slog.Logger) *Probes {
	if logger == nil {
		logger = slog.Default()
	}
	if shuttingDown == nil {
		shuttingDown = &atomic.Bool{}
	}
	return &Probes{
		checker:      checker,
		shuttingDown: shuttingDown,
		logger:       logger.With("component", "health"),
	}
}

// RegisterRoutes registers the probe routes with the given mux.
func (p *Probes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health/ready", p.handleReady)
	mux.HandleFunc("GET /health/live", p.handleLive)
	mux.HandleFunc("GET /health", p.handleHealth)
}

// handleReady returns 200 while the token source can be read.
func (p *Probes) handleReady(w http.ResponseWriter, _ *http.Request) {
	if p.shuttingDown.Load() {
		respondJSON(w, p.logger, http.StatusServiceUnavailable, map[string]string{"status": "shutting_down"})
		return
	}
	if p.checker.IsReady() {
		respondJSON(w, p.logger, http.StatusOK, map[string]string{"status": "ready"})
	} else {
		respondJSON(w, p.logger, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
	}
}

// handleLive returns 200 until shutdown starts. Token source failures are
// reported by /health and /health/ready only: the process keeps serving
// empty tables, so a restart would not help.
func (p *Probes) handleLive(w http.ResponseWriter, _ *http.Request) {
	if p.shuttingDown.Load() {
		respondJSON(w, p.logger, http.StatusServiceUnavailable, map[string]string{"status": "shutting_down"})
		return
	}
	respondJSON(w, p.logger, http.StatusOK, map[string]string{"status": "alive"})
}

// handleHealth reports liveness for simple load balancer checks, with readiness as detail.
// Readiness does not affect the status code here; a missing token list still
// serves an empty table.
func (p *Probes) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if p.shuttingDown.Load() {
		respondJSON(w, p.logger, http.StatusServiceUnavailable, map[string]any{
			"status":       "shutting_down",
			"ready":        false,
			"healthy":      false,
			"shuttingDown": true,
		})
		return
	}

	healthy := p.checker.IsHealthy()
	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, p.logger, code, map[string]any{
		"status":       status,
		"ready":        p.checker.IsReady(),
		"healthy":      healthy,
		"shuttingDown": false,
	})
}
