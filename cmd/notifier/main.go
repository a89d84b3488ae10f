package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/di"
	"pxltravel/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	if !cfg.Kafka.Enable {
		log.Fatal().Msg("notifier requires KAFKA_ENABLE=true")
	}

	notifier, cleanup, err := di.InitializeNotifier()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize notifier")
	}

	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier.Run(ctx)

	log.Info().Msg("notifier stopped")
}
