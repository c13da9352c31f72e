package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/config"
	"github.com/nuhm/bitnap/backend/internal/api"
	"github.com/nuhm/bitnap/backend/internal/metrics"
	"github.com/nuhm/bitnap/backend/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	http       *http.Server
	logger     *zap.Logger
	onShutdown []func(context.Context) error
}

// New builds the router with the shared middleware chain and every API route.
func New(cfg *config.Config, deps api.Dependencies, logger *zap.Logger) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
	)

	deps.Logger = logger
	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Router exposes the gin engine, mostly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// OnShutdown registers fn to run after the listener has stopped.
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server and runs the shutdown hooks.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down server")
	errs := []error{s.http.Shutdown(ctx)}
	for _, fn := range s.onShutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
