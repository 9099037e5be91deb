// Package database holds the Postgres pool and the Redis client used for
// chat history, both built from application configuration.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrisense-io/agrisense-engine/pkg/config"
)

// DB wraps the pgx pool shared by the record repositories.
type DB struct {
	*pgxpool.Pool
}

// pingTimeout bounds the startup connectivity check so a wedged
// database fails the retry loop promptly instead of hanging it.
const pingTimeout = 5 * time.Second

// NewConnection opens a connection pool sized and bounded from cfg and
// verifies connectivity with a ping. Pool limits are configuration-driven
// so operators can tune them per deployment.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	poolConfig.MaxConnLifetime = cfg.ConnLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database %s/%s: %w", cfg.Host, cfg.Database, err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
