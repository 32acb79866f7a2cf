package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for the usage-ledger database.
type Config struct {
	DSN     string
	Timeout time.Duration
}

// Connect opens a lib/pq pool and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS call_usage (
	call_id           TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	duration_seconds  DOUBLE PRECISION NOT NULL,
	billed_minutes    DOUBLE PRECISION NOT NULL,
	remaining_credits DOUBLE PRECISION NOT NULL,
	status            TEXT NOT NULL,
	received_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_call_usage_user_received ON call_usage (user_id, received_at DESC);
`

// Migrate creates the ledger table when it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate usage ledger: %w", err)
	}
	return nil
}
