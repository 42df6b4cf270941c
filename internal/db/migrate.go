package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown mode: %s (use 'up' or 'down')", s)
	}
}

// Migrate applies the embedded schema. Down rolls back a single step.
func Migrate(db *sql.DB, dir Direction) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Steps(-1)
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations (%s): %w", dir, err)
	}
	return nil
}
