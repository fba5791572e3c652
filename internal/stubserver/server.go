// Package stubserver implements the local stub API the client starter kit
// develops against: a fixed dev login that issues JWTs, an echo endpoint,
// and routes that fail on purpose so callers can exercise their error
// handling. It is not meant to be deployed anywhere.
package stubserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jub0bs/cors"

	apikit "github.com/appfoundry/apikit"
	"github.com/appfoundry/apikit/internal/logger"
)

type Server struct {
	router   *chi.Mux
	cfg      *Config
	logger   *slog.Logger
	handlers *HandlerService
}

func NewServer(cfg *Config, log *slog.Logger) (*Server, error) {
	auth, err := newAuthService(cfg)
	if err != nil {
		return nil, err
	}

	schema, err := loadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}

	corsMiddleware, err := newCORSMiddleware(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: log,
		handlers: &HandlerService{
			auth:        auth,
			schema:      schema,
			environment: cfg.Environment,
		},
	}

	s.setupMiddleware(corsMiddleware)
	s.registerRoutes()

	return s, nil
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(corsMiddleware *cors.Middleware) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(SecurityHeaders(s.cfg.Environment))
	s.router.Use(RateLimit(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))
	s.router.Use(CORS(corsMiddleware))
	s.router.Use(RequestSizeLimit(s.cfg.MaxRequestSize))
}

func (s *Server) registerRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handlers.HandleHealth)
		r.Post("/auth/login", s.handlers.HandleLogin)
		r.Post("/echo", s.handlers.HandleEcho)

		// deliberate failures for exercising client error handling
		r.Get("/fail/401", s.handlers.HandleFailUnauthorized)
		r.Get("/fail/500", s.handlers.HandleFailServerError)
		r.Get("/fail/timeout", s.handlers.HandleFailTimeout)

		r.Group(func(r chi.Router) {
			r.Use(s.handlers.RequireAuth)
			r.Get("/me", s.handlers.HandleMe)
		})
	})
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("stub API listening",
			slog.String("addr", serverAddr),
			slog.String("environment", s.cfg.Environment),
		)

		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("stub API shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), apikit.ServerShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}
