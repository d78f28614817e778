package ports

import (
	"context"

	"github.com/lacarta/pos-gateway/internal/domain"
)

// TerminalConfigSource resolves the tenant's merchant terminal configuration.
// Implementations fall back to fixed defaults when a restaurant has no
// terminal of its own configured.
type TerminalConfigSource interface {
	Resolve(ctx context.Context, restaurantID string) (domain.TerminalConfig, error)
}
