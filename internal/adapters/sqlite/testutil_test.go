// Package sqlite_test contains integration tests for the SQLite adapters.
//
// # Schema Protection
//
// This file is the single point where the database schema is loaded for
// tests. setupTestDB uses db.GetSchemaSQL() so tests run against the
// authoritative schema instead of a hand-written copy.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/portplan/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedShip inserts a ship document directly.
func seedShip(t *testing.T, database *sql.DB, name, document string) {
	t.Helper()
	if _, err := database.Exec("INSERT INTO ships (name, document) VALUES (?, ?)", name, document); err != nil {
		t.Fatalf("failed to seed ship: %v", err)
	}
}
