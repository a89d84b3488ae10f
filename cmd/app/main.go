package main

import (
	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/di"
	"pxltravel/infras/metrics"
	"pxltravel/shared/logger"
)

// @title pxltravel API
// @version 1.0
// @description Booking and inventory API for local flights and urban transportation.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	metrics.Register()

	http, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}

	defer cleanup()

	http.Serve()
}
