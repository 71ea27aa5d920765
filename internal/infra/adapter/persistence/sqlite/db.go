// Package sqlite implements the repositories on an embedded SQLite database
// for single-node deployments and tests. Money columns are stored as decimal
// strings and timestamps as unix milliseconds.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens the SQLite database at dsn and applies pending migrations.
// Use ":memory:" for a private in-memory database.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// OpenTestDB opens a migrated in-memory database closed at test cleanup.
func OpenTestDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Repos groups the SQLite repositories sharing one database.
type Repos struct {
	Customers *CustomerRepo
	Products  *ProductRepo
	Offers    *OfferRepo
}

// NewRepos creates every repository over db.
func NewRepos(db *sql.DB) *Repos {
	return &Repos{
		Customers: &CustomerRepo{db: db},
		Products:  &ProductRepo{db: db},
		Offers:    &OfferRepo{db: db, now: time.Now},
	}
}
