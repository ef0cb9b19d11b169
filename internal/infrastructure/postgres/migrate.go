package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Direcciones de migración admitidas.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// Migrate aplica las migraciones embebidas en la dirección indicada.
// Estar ya en la versión objetivo no es un error.
func Migrate(dsn, direction string) error {
	if dsn == "" {
		return errors.New("migrate: DSN vacío; define DATABASE_URL o DB_HOST/DB_NAME")
	}
	if direction != MigrateUp && direction != MigrateDown {
		return fmt.Errorf("migrate: dirección debe ser up o down, recibido %q", direction)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == MigrateUp {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}
