package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/roach88/nngen/internal/config"
	"github.com/roach88/nngen/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Recorder persists compilation records. *store.Store implements it.
type Recorder interface {
	WriteCompilation(ctx context.Context, c store.Compilation) (store.Compilation, error)
}

// Server is the HTTP front end of the compiler.
type Server struct {
	cfg      config.Config
	log      logrus.FieldLogger
	recorder Recorder
	flight   singleflight.Group
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder enables compilation history.
func WithRecorder(r Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// New creates a server. log may be nil, in which case the standard logrus
// logger is used.
func New(cfg config.Config, log logrus.FieldLogger, opts ...Option) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed, CORS-enabled and logged handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return s.logRequests(c.Handler(mux))
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. The static directory is created if missing.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if err := os.MkdirAll(s.cfg.StaticDir, 0o755); err != nil {
		ln.Close()
		return fmt.Errorf("create static dir: %w", err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.log.WithFields(logrus.Fields{
		"addr":    ln.Addr().String(),
		"static":  s.cfg.StaticDir,
		"history": s.recorder != nil,
	}).Info("serving")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info("server stopped")
		return nil
	}
}
