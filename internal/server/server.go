// Package server exposes the layout engine over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /version
//	POST   /v1/layout                 stateless one-shot layout
//	POST   /v1/sessions               create a session (optionally with a first refresh)
//	POST   /v1/sessions/{id}/refresh  refresh a session
//	PUT    /v1/sessions/{id}/state    set the UI state of one position
//	PUT    /v1/sessions/{id}/mode     switch the active view mode
//	DELETE /v1/sessions/{id}          drop a session
//
// A session owns one pipeline.Orchestrator, so pans between refreshes can
// reflow the previous generation. Sessions live in memory and expire after
// an idle TTL. Responses are payload.Layout documents; the layout fingerprint
// is sent as the ETag.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/varlayout/pkg/payload"
	"github.com/matzehuels/varlayout/pkg/pipeline"
	"github.com/matzehuels/varlayout/pkg/source/mongo"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = ":8080"

	// DefaultSessionTTL is the idle lifetime of a session.
	DefaultSessionTTL = 30 * time.Minute

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes = 32 << 20

	shutdownTimeout = 10 * time.Second

	// minSweepInterval bounds how often idle sessions are swept.
	minSweepInterval = time.Second
)

// Loader fetches payloads for requests that name a dataset query instead of
// carrying records. *mongo.Source implements it.
type Loader interface {
	Load(ctx context.Context, q mongo.Query) (*payload.Payload, error)
}

// Config configures a Server.
type Config struct {
	Addr       string
	SessionTTL time.Duration

	// Pipeline is the template for every orchestrator the server creates.
	Pipeline pipeline.Options

	// Loader is optional. Without it, requests must carry their payload.
	Loader Loader

	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	logger   *log.Logger
	sessions *sessionStore
	router   chi.Router
}

// New validates cfg and builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	// Validate once so that every per-session copy is already defaulted.
	if err := cfg.Pipeline.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		sessions: newSessionStore(cfg.SessionTTL),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(api chi.Router) {
		api.Post("/layout", s.handleLayout)
		api.Route("/sessions", func(sr chi.Router) {
			sr.Post("/", s.handleCreateSession)
			sr.Route("/{id}", func(item chi.Router) {
				item.Post("/refresh", s.handleRefresh)
				item.Put("/state", s.handleSetState)
				item.Put("/mode", s.handleSetMode)
				item.Delete("/", s.handleDeleteSession)
			})
		})
	})
	return r
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sweepInterval is half the session TTL, at least minSweepInterval.
func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/2, minSweepInterval)
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval(s.cfg.SessionTTL))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.sessions.sweep(now); n > 0 {
				s.logger.Debug("expired sessions", "count", n)
			}
		}
	}
}
