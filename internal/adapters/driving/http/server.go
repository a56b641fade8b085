// Package http serves the JSON API used by the rendering front end.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
	"github.com/custodia-labs/microverse/internal/logger"
)

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("http: retrieval service is required")

// Config wires the server to the core services.
type Config struct {
	// Addr is the listen address (default: domain.DefaultServerAddr).
	Addr string

	// Retrieval serves search, embed and count. Required.
	Retrieval driving.RetrievalService

	// Intent serves /api/intent. Optional.
	Intent driving.IntentService

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// Server is the HTTP API server.
type Server struct {
	cfg     Config
	handler http.Handler
}

// NewServer builds the routes for cfg.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Retrieval == nil {
		return nil, ErrMissingRetrievalService
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}

	s := &Server{cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/rag/search", post(s.handleSearch))
	mux.HandleFunc("/api/rag/count", get(s.handleCount))
	mux.HandleFunc("/api/embed", post(s.handleEmbed))
	mux.HandleFunc("/api/utter", post(s.handleUtter))
	if cfg.Intent != nil {
		mux.HandleFunc("/api/intent", post(s.handleIntent))
	}
	mux.HandleFunc("/healthz", get(s.handleHealth))
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	s.handler = loggingMiddleware(mux)
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP server listening on %s", ln.Addr())
	err := server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
