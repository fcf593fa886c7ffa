package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	bionic "github.com/tassa-yoniso-manasi-karoto/go-bionic"
)

const shutdownTimeout = 10 * time.Second

// Options configure a Server
type Options struct {
	Addr           string
	AllowedOrigins []string
	Logger         zerolog.Logger
	Registry       *prometheus.Registry // a fresh registry is used when nil
}

// Server serves the render endpoints and /metrics
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger zerolog.Logger
}

// New builds a Server around renderer
func New(renderer *bionic.Renderer, opts Options) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(opts.Logger), corsPolicy(opts.AllowedOrigins))

	NewHandlers(renderer, NewMetrics(reg), opts.Logger).RegisterRoutesTo(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:              opts.Addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: opts.Logger,
	}
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Bionic reading service listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("Shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
