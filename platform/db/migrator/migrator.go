package migrator

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Migrator applies goose SQL migrations from a directory. It owns the
// *sql.DB handed to it and closes it on Close.
type Migrator struct {
	db            *sql.DB
	migrationsDir string
}

func NewMigrator(db *sql.DB, migrationsDir string) *Migrator {
	return &Migrator{
		db:            db,
		migrationsDir: migrationsDir,
	}
}

func (m *Migrator) Up() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(m.db, m.migrationsDir); err != nil {
		return fmt.Errorf("apply migrations from %s: %w", m.migrationsDir, err)
	}
	return nil
}

func (m *Migrator) Close() error {
	return m.db.Close()
}
