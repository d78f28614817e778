package ports

import "context"

// Secret is a retrieved secret with metadata
type Secret struct {
	Value     string
	Version   string
	Metadata  map[string]string
	CreatedAt string
}

// SecretStore retrieves deployment secrets (database password, default terminal
// credentials) from a secret management backend. Supported backends: local
// filesystem (development), AWS Secrets Manager, HashiCorp Vault.
type SecretStore interface {
	// GetSecret retrieves a secret by path. Path format depends on the backend:
	//   - local: relative file path under the base directory
	//   - AWS:   "pos-gateway/terminal/default"
	//   - Vault: "secret/data/pos-gateway/terminal/default"
	GetSecret(ctx context.Context, path string) (*Secret, error)

	// PutSecret creates or updates a secret and returns the new version id.
	PutSecret(ctx context.Context, path, value string, metadata map[string]string) (string, error)
}
