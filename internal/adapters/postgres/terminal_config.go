package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// TerminalConfigSource resolves per-restaurant terminal credentials from the
// restaurant_terminals table, falling back to the fixed defaults when a
// restaurant has no terminal configured
type TerminalConfigSource struct {
	pool     *pgxpool.Pool
	defaults domain.TerminalConfig
	logger   ports.Logger
}

// NewTerminalConfigSource creates a terminal config source
func NewTerminalConfigSource(pool *pgxpool.Pool, defaults domain.TerminalConfig, logger ports.Logger) *TerminalConfigSource {
	return &TerminalConfigSource{pool: pool, defaults: defaults, logger: logger}
}

const resolveTerminalQuery = `
SELECT pos_id, system_id, branch, client_app_id
FROM restaurant_terminals
WHERE restaurant_id = $1`

// Resolve returns the tenant's terminal config or the defaults
func (s *TerminalConfigSource) Resolve(ctx context.Context, restaurantID string) (domain.TerminalConfig, error) {
	if restaurantID == "" {
		return s.defaults, nil
	}

	var cfg domain.TerminalConfig
	err := s.pool.QueryRow(ctx, resolveTerminalQuery, restaurantID).Scan(
		&cfg.PosID, &cfg.SystemID, &cfg.Branch, &cfg.ClientAppID)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Debug("no terminal configured for restaurant, using defaults",
			ports.String("restaurant_id", restaurantID))
		return s.defaults, nil
	}
	if err != nil {
		return domain.TerminalConfig{}, domain.WrapError(domain.ErrorCodeDatabaseError, "resolve terminal config", err)
	}

	if cfg.IsZero() {
		return s.defaults, nil
	}
	return cfg, nil
}
