package handler

import (
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/di"
	"pxltravel/infras/metrics"
	"pxltravel/shared/logger"
	"pxltravel/transport/http/response"
)

var (
	once    sync.Once
	handler http.Handler
)

// Handler is the serverless entrypoint. Connections are opened once per warm instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)
		logger.SetLogLevel(cfg)

		metrics.Register()

		server, _, err := di.InitializeService()
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize service")

			return
		}

		handler = server.Handler()
	})

	if handler == nil {
		response.WithUnhealthy(w)

		return
	}

	handler.ServeHTTP(w, r)
}
