package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pxltravel/config"
	"pxltravel/infras/postgres"
)

func TestEndpointDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "dev_"
	cfg.DB.Postgres.Write.Username = "booking"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "pxltravel"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	endpoint := postgres.WriteEndpoint(cfg)

	assert.Equal(t, "dev_pxltravel", endpoint.DBName)
	assert.Equal(t, "postgres://booking:p%40ss%2Fword@db:5432/dev_pxltravel?sslmode=disable", endpoint.DSN())
	assert.Equal(t,
		"postgres://booking:p%40ss%2Fword@db:5432/dev_pxltravel?sslmode=disable&x-migrations-table=schema_migrations",
		endpoint.DSN("x-migrations-table", "schema_migrations"),
	)
}

func TestReadEndpoint_WithoutPrefix(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Read.Name = "pxltravel"
	cfg.DB.Postgres.Read.Host = "replica"
	cfg.DB.Postgres.Read.Port = "5433"

	endpoint := postgres.ReadEndpoint(cfg)

	assert.Equal(t, "read", endpoint.Name)
	assert.Equal(t, "pxltravel", endpoint.DBName)
	assert.Contains(t, endpoint.DSN(), "replica:5433")
}

func TestEndpointDSN_SessionTimezone(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Write = config.PostgresEndpoint{
		Host:     "db",
		Port:     "5432",
		Username: "booking",
		Name:     "pxltravel",
		SSLMode:  "require",
		Timezone: "Asia/Jakarta",
	}

	assert.Equal(t,
		"postgres://booking:@db:5432/pxltravel?sslmode=require&timezone=Asia%2FJakarta",
		postgres.WriteEndpoint(cfg).DSN(),
	)
}
