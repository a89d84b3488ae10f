// Package config loads the service configuration from the environment, after merging a local .env if present.
package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresEndpoint is one pool of the read/write pair.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"     default:"pxltravel"`
	Timezone string `envconfig:"TIMEZONE" default:"UTC"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"15"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"pxltravel"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS" default:"Authorization,Content-Type"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS" default:"GET,POST,PATCH,OPTIONS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS" default:"300"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"120"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
		// AdminEmails is only consumed by `migrate seed-admins`.
		AdminEmails []string `envconfig:"ADMIN_EMAILS"`
		Upload      struct {
			MaxDocumentBytes int64 `envconfig:"MAX_DOCUMENT_BYTES" default:"5242880"`
		} `envconfig:"UPLOAD"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST" default:"localhost"`
				Port     string `envconfig:"PORT" default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL" default:"300"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int              `envconfig:"MAX_RETRY"       default:"3"`
			RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MigrationTable string           `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			Prefix         string           `envconfig:"PREFIX"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		ConsumerGroup string `envconfig:"CONSUMER_GROUP" default:"pxltravel-notifier"`
		Topic         struct {
			Booking   string `envconfig:"BOOKING"   default:"pxltravel.booking"`
			Inventory string `envconfig:"INVENTORY" default:"pxltravel.inventory"`
			Session   string `envconfig:"SESSION"   default:"pxltravel.session"`
		} `envconfig:"TOPIC"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			// Endpoint left empty keeps spans in process and exports nothing.
			Endpoint    string  `envconfig:"ENDPOINT"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			Region          string `envconfig:"REGION"       default:"auto"`
			BucketName      string `envconfig:"BUCKET_NAME"  default:"passports"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

// Load reads the environment into a fresh Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
	}

	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	return &cfg, nil
}

var load = sync.OnceValues(Load)

// Get returns the process-wide configuration, loading it on first call. A malformed environment is fatal.
func Get() *Config {
	cfg, err := load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return cfg
}
