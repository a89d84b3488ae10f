package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"pxltravel/config"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

var errNoAttempts = errors.New("no connection attempts configured")

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one side of the read/write pair.
type Endpoint struct {
	Name     string
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
	Timezone string
}

// DSN renders the endpoint as a postgres:// URL with optional extra query parameters.
func (e Endpoint) DSN(extra ...string) string {
	query := url.Values{}
	query.Set("sslmode", e.SSLMode)

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	for i := 0; i+1 < len(extra); i += 2 {
		query.Set(extra[i], extra[i+1])
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.DBName,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// New opens both pools; the returned cleanup closes them.
func New(config *config.Config) (*Connection, func(), error) {
	write, err := connect(WriteEndpoint(config), config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
	if err != nil {
		return nil, nil, err
	}

	read, err := connect(ReadEndpoint(config), config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
	if err != nil {
		_ = write.Close()

		return nil, nil, err
	}

	conn := &Connection{Read: read, Write: write}

	return conn, conn.Close, nil
}

func (c *Connection) Close() {
	for name, db := range map[string]*sqlx.DB{"read": c.Read, "write": c.Write} {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Str("name", name).Msg("failed to close database connection")
		}
	}
}

// Ping checks both pools.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write database unreachable: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read database unreachable: %w", err)
	}

	return nil
}

func getDBName(config *config.Config, baseName string) string {
	return config.DB.Postgres.Prefix + baseName
}

func endpoint(config *config.Config, name string, pool config.PostgresEndpoint) Endpoint {
	return Endpoint{
		Name:     name,
		Username: pool.Username,
		Password: pool.Password,
		Host:     pool.Host,
		Port:     pool.Port,
		DBName:   getDBName(config, pool.Name),
		SSLMode:  pool.SSLMode,
		Timezone: pool.Timezone,
	}
}

func WriteEndpoint(config *config.Config) Endpoint {
	return endpoint(config, "write", config.DB.Postgres.Write)
}

func ReadEndpoint(config *config.Config) Endpoint {
	return endpoint(config, "read", config.DB.Postgres.Read)
}

func connect(endpoint Endpoint, maxRetry, waitTime int) (*sqlx.DB, error) {
	lastErr := errNoAttempts

	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", endpoint.DSN())
		if err == nil {
			log.
				Info().
				Str("name", endpoint.Name).
				Str("host", endpoint.Host).
				Str("port", endpoint.Port).
				Str("dbName", endpoint.DBName).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			return sqlDB, nil
		}

		lastErr = err

		log.
			Error().
			Err(err).
			Str("name", endpoint.Name).
			Str("host", endpoint.Host).
			Str("dbName", endpoint.DBName).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to %s database: %w", endpoint.Name, lastErr)
}
