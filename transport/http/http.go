package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/infras/postgres"
	"pxltravel/shared/constant"
	"pxltravel/transport/http/response"
	"pxltravel/transport/http/router"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	healthCheckTimeout = 2 * time.Second
	readHeaderTimeout  = 10 * time.Second
)

type HTTP struct {
	Config  *config.Config
	Router  router.Router
	DB      *postgres.Connection
	state   atomic.Int32
	mux     *chi.Mux
	server  *http.Server
	stopped chan struct{}
}

func New(cfg *config.Config, r router.Router, db *postgres.Connection) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		DB:     db,
	}
}

// State reports where the server is in its shutdown sequence.
func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// Serve blocks until the server has stopped and in-flight requests have drained.
func (h *HTTP) Serve() {
	h.setup()

	h.stopped = make(chan struct{})

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	h.setupGracefulShutdown()

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-h.stopped
}

// Handler returns the routed handler without listening, for serverless entrypoints.
func (h *HTTP) Handler() http.Handler {
	h.setup()

	return h.mux
}

func (h *HTTP) setup() {
	if h.mux != nil {
		return
	}

	h.mux = chi.NewRouter()
	h.mux.Get("/health", h.health)
	h.Router.SetupRoutes(h.mux)
	h.state.Store(int32(ServerStateReady))
}

func (h *HTTP) health(w http.ResponseWriter, r *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.DB.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("health check failed")
			response.WithUnhealthy(w)

			return
		}
	}

	response.WithMessage(w, http.StatusOK, "OK")
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

// respondToSigterm fails health checks for the grace period so the load balancer drains the
// instance, then gives in-flight requests the cleanup period to finish.
func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		h.shutdown(0)

		return
	}

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	h.shutdown(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) shutdown(timeout time.Duration) {
	defer close(h.stopped)

	if timeout <= 0 {
		if err := h.server.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close HTTP server")
		}

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown did not complete")
	}
}
