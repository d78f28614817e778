package secrets

import (
	"context"
	"os"

	"github.com/lacarta/pos-gateway/internal/config"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// NewFromConfig selects the secret backend named in configuration
func NewFromConfig(ctx context.Context, cfg config.SecretsConfig, logger ports.Logger) (ports.SecretStore, error) {
	switch cfg.Backend {
	case "aws":
		return NewAWSStore(ctx, cfg.AWSRegion, logger)
	case "vault":
		return NewVaultStore(VaultConfig{
			Address: cfg.VaultAddr,
			Token:   os.Getenv("VAULT_TOKEN"),
		}, logger)
	default:
		return NewLocalStore(cfg.LocalPath, logger), nil
	}
}
