package circuitbreaker

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ForDatabase trips after five straight failures and probes again after
// 30 seconds. sql.ErrNoRows is a normal outcome and never counts.
func ForDatabase() Settings {
	return Settings{
		Name:           "database",
		HalfOpenProbes: 3,
		Window:         time.Minute,
		Cooldown:       30 * time.Second,
		TripRatio:      1.0,
		MinSamples:     5,
		Neutral:        func(err error) bool { return errors.Is(err, sql.ErrNoRows) },
	}
}

// DB runs queries against a *sql.DB through a Breaker.
type DB struct {
	*Breaker
	conn *sql.DB
}

// WrapDB guards conn with a breaker built from s.
func WrapDB(conn *sql.DB, s Settings) *DB {
	return &DB{Breaker: New(s), conn: conn}
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return Do(d.Breaker, func() (*sql.Rows, error) {
		return d.conn.QueryContext(ctx, query, args...)
	})
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return Do(d.Breaker, func() (sql.Result, error) {
		return d.conn.ExecContext(ctx, query, args...)
	})
}

// QueryRowScan runs a single-row query and scans it into dest.
func (d *DB) QueryRowScan(ctx context.Context, query string, args []any, dest ...any) error {
	_, err := Do(d.Breaker, func() (struct{}, error) {
		return struct{}{}, d.conn.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
	return err
}

// Conn returns the wrapped pool.
func (d *DB) Conn() *sql.DB { return d.conn }
