// Package postgres holds the durable FusionResult append log.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// migrationLockID is a PostgreSQL advisory lock ID for coordinating
	// migrations across instances. Value: 0x6d696e646272 ("mindbr" in ASCII hex)
	migrationLockID             = 0x6d696e646272
	migrationLockReleaseTimeout = 5 * time.Second
)

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected", "min_conns", poolCfg.MinConns, "max_conns", poolCfg.MaxConns)
	return pool, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS fusion_results (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL,
		user_id UUID NOT NULL,
		primary_emotion TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		intensity DOUBLE PRECISION NOT NULL,
		weights_used JSONB NOT NULL DEFAULT '{}',
		risk_level TEXT NOT NULL,
		risk_score DOUBLE PRECISION NOT NULL,
		trend TEXT NOT NULL,
		volatility DOUBLE PRECISION NOT NULL,
		recommendations JSONB NOT NULL DEFAULT '{}',
		enhanced BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fusion_results_session_time
		ON fusion_results (session_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_fusion_results_created_at
		ON fusion_results (created_at)`,
}

// RunMigrations applies the schema under an advisory lock so concurrent
// instances never race on DDL.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for migration: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), migrationLockReleaseTimeout)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			slog.Error("failed to release migration lock", "error", err)
		}
	}()

	slog.Info("running database migrations")
	for _, migration := range migrations {
		if _, err := conn.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
