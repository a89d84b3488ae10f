package redis

import (
	"context"
	"fmt"
	"net"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"pxltravel/config"
)

// New connects to the primary Redis; the returned cleanup closes the client.
func New(config *config.Config) (*goRedis.Client, func(), error) {
	primary := config.Cache.Redis.Primary

	client := goRedis.NewClient(&goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()

		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info().
		Int("db", primary.DB).
		Str("host", primary.Host).
		Str("port", primary.Port).
		Msg("Connected to Redis")

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis client")
		}
	}

	return client, cleanup, nil
}
