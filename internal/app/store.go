// Package app assembles the services shared by the api and worker binaries
// from environment configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"customer-offers/internal/infra/adapter/persistence/postgres"
	"customer-offers/internal/infra/adapter/persistence/recordstore"
	"customer-offers/internal/infra/adapter/persistence/sqlite"
	"customer-offers/internal/infra/db"
	"customer-offers/internal/observability/metrics"
	"customer-offers/internal/repository"
	"customer-offers/internal/resilience/circuitbreaker"
	"customer-offers/pkg/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StoreConfig selects the storage backend.
//
// Environment variables:
//   - STORE_DRIVER: "postgres" (default) or "sqlite"
//   - DATABASE_URL: PostgreSQL DSN, required for postgres
//   - DB_AUTO_MIGRATE: create the postgres schema on startup (default: true)
//   - SQLITE_PATH: database file for sqlite (default: "offers.db")
type StoreConfig struct {
	Driver      string
	DatabaseURL string
	AutoMigrate bool
	SQLitePath  string
	Pool        db.ConnectionConfig
}

// LoadStoreConfig reads StoreConfig from the environment.
func LoadStoreConfig() StoreConfig {
	return StoreConfig{
		Driver:      strings.ToLower(config.GetEnvString("STORE_DRIVER", DriverPostgres)),
		DatabaseURL: config.GetEnvString("DATABASE_URL", ""),
		AutoMigrate: config.GetEnvBool("DB_AUTO_MIGRATE", true),
		SQLitePath:  config.GetEnvString("SQLITE_PATH", "offers.db"),
		Pool:        db.ConnectionConfigFromEnv(),
	}
}

// Store bundles the repositories of one backend.
type Store struct {
	DB        *sql.DB
	Driver    string
	Customers repository.CustomerRepository
	Products  repository.ProductRepository
	Offers    repository.OfferRepository
	// Records is the product lookup and offer persistence port used by the
	// analysis service.
	Records repository.RecordStore
}

// OpenStore opens the configured backend and builds its repositories.
// PostgreSQL access goes through a circuit breaker; SQLite is local and
// is used directly.
func OpenStore(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (*Store, error) {
	switch cfg.Driver {
	case DriverPostgres:
		database, err := db.Open(ctx, cfg.DatabaseURL, cfg.Pool)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := db.MigrateUp(ctx, database); err != nil {
				_ = database.Close()
				return nil, err
			}
		}
		cb := circuitbreaker.WrapDB(database, circuitbreaker.ForDatabase())
		products := postgres.NewProductRepo(cb)
		offers := postgres.NewOfferRepo(cb)
		logger.Info("using postgres store", slog.Bool("auto_migrate", cfg.AutoMigrate))
		return &Store{
			DB:        database,
			Driver:    DriverPostgres,
			Customers: postgres.NewCustomerRepo(cb),
			Products:  products,
			Offers:    offers,
			Records:   recordstore.New(products, offers),
		}, nil

	case DriverSQLite:
		database, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repos := sqlite.NewRepos(database)
		logger.Info("using sqlite store", slog.String("path", cfg.SQLitePath))
		return &Store{
			DB:        database,
			Driver:    DriverSQLite,
			Customers: repos.Customers,
			Products:  repos.Products,
			Offers:    repos.Offers,
			Records:   recordstore.New(repos.Products, repos.Offers),
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (expected %s or %s)", cfg.Driver, DriverPostgres, DriverSQLite)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// WatchPoolStats publishes the connection pool gauges every interval until
// ctx is canceled.
func (s *Store) WatchPoolStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		metrics.RecordDBStats(s.DB.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
