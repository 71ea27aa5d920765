package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
    id      BIGSERIAL PRIMARY KEY,
    name    TEXT NOT NULL,
    email   TEXT NOT NULL DEFAULT '',
    credit  NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (credit >= 0),
    segment TEXT NOT NULL DEFAULT '',
    active  BOOLEAN NOT NULL DEFAULT TRUE
)`,
	`CREATE TABLE IF NOT EXISTS products (
    id       BIGSERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    price    NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (price >= 0),
    active   BOOLEAN NOT NULL DEFAULT TRUE
)`,
	`CREATE TABLE IF NOT EXISTS offers (
    id          BIGSERIAL PRIMARY KEY,
    customer_id BIGINT NOT NULL REFERENCES customers(id),
    product_id  BIGINT NOT NULL REFERENCES products(id),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_active ON customers(active) WHERE active = TRUE`,
	`CREATE INDEX IF NOT EXISTS idx_products_active ON products(active) WHERE active = TRUE`,
	`CREATE INDEX IF NOT EXISTS idx_offers_product_id ON offers(product_id)`,
}

// MigrateUp creates the schema. Every statement is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}
	return nil
}

// MigrateDown drops every table created by MigrateUp, offers first.
// All data is lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"offers", "products", "customers"} {
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS `+table+` CASCADE`); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	return nil
}
