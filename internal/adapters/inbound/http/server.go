package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/archon-research/stl/stl-lend/internal/ports/inbound"
)

// ServerConfig holds configuration for the balance API server.
type ServerConfig struct {
	// Addr is the address to listen on (e.g., ":8080")
	Addr string

	Logger *slog.Logger

	// ReadTimeout for HTTP requests
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses
	WriteTimeout time.Duration
}

// ServerConfigDefaults returns a config with default values.
func ServerConfigDefaults() ServerConfig {
	return ServerConfig{
		Addr:         ":8080",
		Logger:       slog.Default(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Server serves the balance API and health probes on one listener.
type Server struct {
	server       *http.Server
	shuttingDown atomic.Bool
	logger       *slog.Logger
}

// NewServer creates the API server.
func NewServer(config ServerConfig, balances inbound.BalanceViewer, checker inbound.HealthChecker) *Server {
	defaults := ServerConfigDefaults()
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}

	s := &Server{logger: config.Logger.With("component", "api-server")}

	mux := http.NewServeMux()
	NewHandler(balances, config.Logger).RegisterRoutes(mux)
	NewProbes(checker, &s.shuttingDown, config.Logger).RegisterRoutes(mux)

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      otelhttp.NewHandler(mux, "balance-api"),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("serving balance API", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Shutdown marks the server as draining and stops it gracefully.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.shuttingDown.Store(true)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
