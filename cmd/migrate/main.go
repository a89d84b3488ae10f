package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/di"
	"pxltravel/helper"
	"pxltravel/shared/logger"
)

const (
	argLength = 2
)

func main() {
	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, drop, step-up, version or seed-admins")
	}

	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	switch action := os.Args[1]; action {
	case "up", "down", "drop", "step-up":
		if err := helper.Runner(cfg, action); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	case "version":
		version, dirty, err := helper.Version(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read migration version")
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema version")
	case "seed-admins":
		seedAdmins(cfg)
	default:
		log.Fatal().Str("action", action).Msg("Invalid action. Use 'up', 'down', 'drop', 'step-up', 'version' or 'seed-admins'")
	}
}

// seedAdmins promotes the configured ADMIN_EMAILS to admin.
func seedAdmins(cfg *config.Config) {
	users, cleanup, err := di.InitializeUserService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize user service")
	}

	defer cleanup()

	promoted, err := users.SeedAdmins(context.Background(), cfg.App.AdminEmails)
	if err != nil {
		log.Error().Err(err).Msg("failed to seed admins")

		return
	}

	log.Info().Int("promoted", promoted).Int("listed", len(cfg.App.AdminEmails)).Msg("admins seeded")
}
