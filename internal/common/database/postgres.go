// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"portfolio-scoring-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// PortfolioSchema holds the tables written by persist-portfolio-score.
var PortfolioSchema = []string{
	`CREATE TABLE IF NOT EXISTS portfolio_runs (
		id                    UUID PRIMARY KEY,
		partner_id            TEXT NOT NULL,
		item_count            INTEGER NOT NULL,
		exec_bootcamp_count   INTEGER NOT NULL,
		literacy_sprint_count INTEGER NOT NULL,
		diagnostic_count      INTEGER NOT NULL,
		average_fit_score     INTEGER NOT NULL,
		created_at            TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_portfolio_runs_partner ON portfolio_runs (partner_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS portfolio_scores (
		run_id         UUID NOT NULL REFERENCES portfolio_runs (id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		name           TEXT NOT NULL,
		sector         TEXT,
		stage          TEXT,
		fit_score      INTEGER NOT NULL CHECK (fit_score BETWEEN 0 AND 100),
		recommendation TEXT NOT NULL,
		risk_flags     JSONB NOT NULL DEFAULT '[]',
		created_at     TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
}

// EnsureSchema creates the portfolio tables if they are missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range PortfolioSchema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
