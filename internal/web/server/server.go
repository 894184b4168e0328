// Package server wires the HTTP transport: the RPC endpoint and its
// WebSocket bridge, catalog-backed asset and file serving, health and
// Prometheus endpoints, all behind the middleware stack.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/catalog"
	"github.com/loomkit/loom/internal/rpc"
	"github.com/loomkit/loom/internal/scaffold"
	"github.com/loomkit/loom/internal/web/auth"
	"github.com/loomkit/loom/internal/web/metrics"
	"github.com/loomkit/loom/internal/web/middleware"
	"github.com/loomkit/loom/internal/web/session"
)

// maxRequestBody bounds POST /rpc payloads.
const maxRequestBody = 1 << 20

// Config holds HTTP server configuration.
type Config struct {
	// Addr is the listen address (host:port).
	Addr string

	// AuthEnabled turns on bearer auth for the RPC endpoints.
	AuthEnabled bool
	// AuthSecret signs and validates HS256 session tokens.
	AuthSecret string
	// APIKeyHashes are bcrypt hashes of accepted static API keys.
	APIKeyHashes []string

	// AssetsDir optionally serves an on-disk icon SVG tree under /assets/.
	AssetsDir string

	// SessionTTL is the idle session lifetime. Zero uses the default.
	SessionTTL time.Duration

	// ShutdownTimeout is the drain window for graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server is the HTTP transport over a shared RPC dispatcher.
type Server struct {
	config   Config
	router   chi.Router
	rpc      *rpc.Server
	store    *catalog.Store
	sessions *session.MemoryStore
	metrics  *metrics.Metrics
	files    map[string]string
	manifest []byte
	logger   *zap.Logger
}

// New builds the server and its route table.
func New(config Config, rpcServer *rpc.Server, store *catalog.Store, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	manifest, err := json.MarshalIndent(store.Snapshot().Assets, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render asset manifest: %w", err)
	}

	s := &Server{
		config:   config,
		rpc:      rpcServer,
		store:    store,
		sessions: session.NewMemoryStore(config.SessionTTL),
		metrics:  metrics.New(),
		files:    catalogFiles(store),
		manifest: manifest,
		logger:   logger,
	}
	rpcServer.SetObserver(s.observeToolCall)
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(s.logger, "/healthz", "/metrics"))
	r.Use(middleware.Recovery(s.logger))

	// RPC endpoints carry credentials when auth is on; everything else
	// stays public so scaffold setup scripts can fetch files.
	r.Group(func(r chi.Router) {
		if s.config.AuthEnabled {
			var tokens *auth.TokenService
			if s.config.AuthSecret != "" {
				tokens = auth.NewTokenService(s.config.AuthSecret, 24*time.Hour)
			}
			r.Use(middleware.Auth(middleware.AuthConfig{
				Tokens:       tokens,
				APIKeyHashes: s.config.APIKeyHashes,
			}))
		}
		r.Post("/rpc", s.handleRPC)
		r.Get("/rpc/ws", s.handleWebSocket)
	})

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/assets/*", s.handleAssets)
	r.Get("/files/*", s.handleFiles)

	return r
}

// handleRPC runs one JSON-RPC message through the shared dispatcher,
// tracking the caller's session via the Loom-Session-Id header.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(session.HeaderName)
	if sessionID == "" {
		sessionID = session.NewID()
	}
	s.sessions.Touch(sessionID)
	w.Header().Set(session.HeaderName, sessionID)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeMessage(w, s.logger, rpc.NewErrorMessage(nil, rpc.InternalError, "failed to read request body", nil))
		return
	}

	var msg rpc.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		writeMessage(w, s.logger, rpc.NewErrorMessage(nil, rpc.ParseError, fmt.Sprintf("failed to parse message: %v", err), nil))
		return
	}

	response := s.rpc.Dispatch(r.Context(), &msg)
	if response == nil {
		// Notifications acknowledge with no body.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeMessage(w, s.logger, response)
}

func writeMessage(w http.ResponseWriter, logger *zap.Logger, msg *rpc.Message) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		logger.Error("write rpc response", zap.Error(err))
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "ok",
		"components": s.store.Len(),
		"sessions":   s.sessions.Count(),
	})
}

// observeToolCall exports per-tool metrics; scaffold calls also record the
// generated file count.
func (s *Server) observeToolCall(tool string, failed bool, duration time.Duration, env *rpc.Envelope) {
	s.metrics.ObserveToolCall(tool, failed, duration)
	if env == nil || failed {
		return
	}
	if plan, ok := env.Data.(*scaffold.Plan); ok {
		s.metrics.ObserveScaffoldSize(plan.FileCount())
	}
}

// Run serves until the context is canceled or SIGINT/SIGTERM arrives, then
// drains connections within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.config.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", s.config.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := s.sessions.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Handler exposes the route table (for tests).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the session store outside of Run.
func (s *Server) Close() error {
	return s.sessions.Close()
}
