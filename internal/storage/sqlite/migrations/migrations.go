// Package migrations holds the task journal schema and applies it.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/wsc/internal/log"
)

//go:embed sql/*.sql
var schemaFiles embed.FS

// MigratorConfig is the configuration of the journal schema migrator.
type MigratorConfig struct {
	DB     *sql.DB
	Logger log.Logger
}

func (c *MigratorConfig) defaults() error {
	if c.DB == nil {
		return fmt.Errorf("db is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "migrations.Migrator"})
	return nil
}

// Migrator applies the task journal schema.
type Migrator struct {
	db     *sql.DB
	logger log.Logger
}

// NewMigrator returns a journal schema migrator.
func NewMigrator(cfg MigratorConfig) (*Migrator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Migrator{db: cfg.DB, logger: cfg.Logger}, nil
}

// Up brings the journal schema to the latest version and returns it.
func (m *Migrator) Up(ctx context.Context) (version uint, err error) {
	err = m.withSchema(ctx, func(s *migrate.Migrate) error {
		if err := s.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not apply journal schema: %w", err)
		}
		version, err = schemaVersion(s)
		return err
	})
	if err != nil {
		return 0, err
	}

	m.logger.Debugf("Journal schema at version %d", version)
	return version, nil
}

// Reset drops every journaled task by reverting the schema and applying it again.
func (m *Migrator) Reset(ctx context.Context) error {
	return m.withSchema(ctx, func(s *migrate.Migrate) error {
		from, err := schemaVersion(s)
		if err != nil {
			return err
		}

		if err := s.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not drop journal schema: %w", err)
		}
		if err := s.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not apply journal schema: %w", err)
		}

		m.logger.Infof("Journal reset (schema version %d)", from)
		return nil
	})
}

// withSchema runs f with a migrate instance over the embedded schema. The instance is
// not closed because that would close the shared database handle, only its source is.
func (m *Migrator) withSchema(ctx context.Context, f func(s *migrate.Migrate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	driver, err := sqlite3.WithInstance(m.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	src, err := iofs.New(schemaFiles, "sql")
	if err != nil {
		return fmt.Errorf("could not load journal schema: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			m.logger.Warningf("could not close journal schema source: %s", err)
		}
	}()

	s, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	return f(s)
}

func schemaVersion(s *migrate.Migrate) (uint, error) {
	v, dirty, err := s.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not get journal schema version: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("journal schema version %d is dirty", v)
	}
	return v, nil
}
