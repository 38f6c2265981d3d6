// Package server implements the HTTP dispatcher that maps inbound
// requests onto the wake, sleep and probe services.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/fgeck/wolrelay/internal/services/probe"
	"github.com/fgeck/wolrelay/internal/services/sleep"
	"github.com/fgeck/wolrelay/internal/services/wake"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const shutdownGrace = 10 * time.Second

// Server dispatches HTTP requests to the core services. It owns no
// algorithmic logic; every request is parsed, validated and handed to
// exactly one service call.
type Server struct {
	wakeSvc  wake.Service
	sleepSvc sleep.Service
	probeSvc probe.Service
	cfg      models.ServerConfig
	logger   zerolog.Logger
	router   *mux.Router
}

// New creates a server wired to the default service implementations.
func New(logger zerolog.Logger, cfg *models.RelayConfig) *Server {
	return NewWithServices(
		logger,
		cfg.Server,
		wake.New(logger, cfg.Broadcast),
		sleep.New(logger, cfg.SSH, cfg.Sleep),
		probe.New(logger, cfg.Probe),
	)
}

// NewWithServices creates a server with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	cfg models.ServerConfig,
	wakeSvc wake.Service,
	sleepSvc sleep.Service,
	probeSvc probe.Service,
) *Server {
	s := &Server{
		wakeSvc:  wakeSvc,
		sleepSvc: sleepSvc,
		probeSvc: probeSvc,
		cfg:      cfg,
		logger:   logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	router := mux.NewRouter()

	router.Methods(http.MethodGet).Path("/healthz").HandlerFunc(s.handleHealth)
	// Kept alongside /healthz for compatibility with external monitors.
	router.Methods(http.MethodGet).Path("/health").HandlerFunc(s.handleHealth)

	router.Methods(http.MethodPost).Path("/wake").HandlerFunc(s.handleWake)
	router.Methods(http.MethodPost).Path("/sleep").HandlerFunc(s.handleSleep)
	router.Methods(http.MethodGet).Path("/api/status").HandlerFunc(s.handleStatus)
	router.Methods(http.MethodPost).Path("/api/control").HandlerFunc(s.handleControl)

	router.Path("/metrics").Handler(promhttp.Handler())

	s.router = router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.BindAddress, strconv.Itoa(s.cfg.Port))

	accessLog := s.logger.With().Str("component", "http").Logger()
	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.LoggingHandler(&accessLog, s.router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	s.logger.Info().Str("addr", addr).Msg("starting relay server")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
