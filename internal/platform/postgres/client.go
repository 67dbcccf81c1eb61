package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"airdrop-backend/internal/common/config"
	"airdrop-backend/internal/common/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(cfg *config.Config) (*Client, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client := &Client{db: db}
	if err := client.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	logger.Info().
		Str("host", cfg.Postgres.Host).
		Int("port", cfg.Postgres.Port).
		Str("database", cfg.Postgres.Database).
		Msg("PostgreSQL client initialized")

	return client, nil
}

// GetDB returns the underlying database handle.
func (c *Client) GetDB() *sql.DB {
	return c.db
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// HealthCheck pings the database.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Stats returns connection pool statistics.
func (c *Client) Stats() sql.DBStats {
	return c.db.Stats()
}

// ensureSchema creates the campaign tables. The UNIQUE constraint on
// (telegram_uid, task_id) is the enforcement point for at-most-once
// crediting; inserts go through ON CONFLICT DO NOTHING and credit only when
// a row was actually written.
func (c *Client) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			telegram_uid TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			telegram_username TEXT NOT NULL DEFAULT '',
			twitter_username TEXT NOT NULL DEFAULT '',
			twitter_uid TEXT NOT NULL DEFAULT '',
			wallet_address TEXT NOT NULL DEFAULT '',
			points BIGINT NOT NULL DEFAULT 0,
			referral_code TEXT NOT NULL UNIQUE,
			ref_by TEXT NOT NULL DEFAULT '',
			is_banned BOOLEAN NOT NULL DEFAULT FALSE,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			task_id TEXT NOT NULL UNIQUE,
			task_type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			reward BIGINT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS user_activity (
			id UUID PRIMARY KEY,
			telegram_uid TEXT NOT NULL,
			task_id TEXT NOT NULL,
			details JSONB NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT '',
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (telegram_uid, task_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_ref_by ON users (ref_by)`,
		`CREATE INDEX IF NOT EXISTS idx_user_activity_uid ON user_activity (telegram_uid)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
