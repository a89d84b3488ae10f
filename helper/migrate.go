package helper

//nolint:revive
import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/infras/postgres"
)

const migrationsSource = "file://migrations/postgres"

type step struct {
	run  func(mig *migrate.Migrate) error
	done string
}

var steps = map[string]step{
	"up":      {run: (*migrate.Migrate).Up, done: "Database migrations completed successfully"},
	"step-up": {run: func(mig *migrate.Migrate) error { return mig.Steps(1) }, done: "Database migrated one step up"},
	"down":    {run: func(mig *migrate.Migrate) error { return mig.Steps(-1) }, done: "Database rolled back one step"},
	"drop":    {run: (*migrate.Migrate).Down, done: "Database migrations rolled back successfully"},
}

func open(cfg *config.Config) (*migrate.Migrate, error) {
	dsn := postgres.WriteEndpoint(cfg).DSN("x-migrations-table", cfg.DB.Postgres.MigrationTable)

	mig, err := migrate.New(migrationsSource, dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Runner applies one named action against the write database.
func Runner(cfg *config.Config, action string) error {
	st, ok := steps[action]
	if !ok {
		return fmt.Errorf("unknown migration action %q", action)
	}

	mig, err := open(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := st.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", action).Msg(st.done)

	return nil
}

// Version reports the applied schema version and whether the last run left it dirty.
func Version(cfg *config.Config) (uint, bool, error) {
	mig, err := open(cfg)
	if err != nil {
		return 0, false, err
	}

	defer mig.Close()

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, fmt.Errorf("error reading migration version: %w", err)
	}

	return version, dirty, nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, "up")
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, "step-up")
}

func Down(cfg *config.Config) error {
	return Runner(cfg, "down")
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, "drop")
}
