package di

import (
	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/infras/kafka"
	"pxltravel/infras/otel"
)

// provideKafka closes the writer when the injector's cleanup runs.
func provideKafka(cfg *config.Config, otel otel.Otel) (kafka.Client, func()) {
	client := kafka.New(cfg, otel)

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Kafka client")
		}
	}
}
