package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_ships_table",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_ship_timestamps",
		Up:      migrationV2,
	},
}

func createVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// RunMigrations applies every migration newer than the recorded version.
func RunMigrations(database *sql.DB) error {
	if err := createVersionTable(database); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current int
	if err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := m.Up(database); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// migrationV1 creates the document table.
func migrationV1(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS ships (
			name TEXT PRIMARY KEY,
			document TEXT NOT NULL
		)
	`)
	return err
}

// migrationV2 adds created/updated timestamps. SQLite cannot add a column
// with a non-constant default, so the table is rebuilt.
func migrationV2(database *sql.DB) error {
	tx, err := database.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`CREATE TABLE ships_new (
			name TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`INSERT INTO ships_new (name, document) SELECT name, document FROM ships`,
		`DROP TABLE ships`,
		`ALTER TABLE ships_new RENAME TO ships`,
		`CREATE INDEX IF NOT EXISTS idx_ships_updated ON ships(updated_at)`,
	}
	for _, stmt := range steps {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
