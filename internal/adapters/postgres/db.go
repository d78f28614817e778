// Package postgres implements the order-evidence and terminal-config ports on pgx
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lacarta/pos-gateway/internal/config"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// NewPool creates a pgx connection pool and verifies connectivity
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger ports.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database pool initialized",
		ports.String("database", cfg.Database),
		ports.String("host", cfg.Host),
		ports.Int("max_conns", int(cfg.MaxConns)))

	return pool, nil
}
