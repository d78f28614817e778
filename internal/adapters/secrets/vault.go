package secrets

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// vaultStore implements the SecretStore port on the Vault KV v2 engine
type vaultStore struct {
	client    *vault.Client
	mountPath string
	logger    ports.Logger
}

// VaultConfig configures the Vault backend
type VaultConfig struct {
	Address   string
	Token     string
	MountPath string // KV engine mount, default "secret"
}

// NewVaultStore creates a Vault-backed secret store with token authentication
func NewVaultStore(cfg VaultConfig, logger ports.Logger) (ports.SecretStore, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	mountPath := cfg.MountPath
	if mountPath == "" {
		mountPath = "secret"
	}

	return &vaultStore{
		client:    client,
		mountPath: mountPath,
		logger:    logger,
	}, nil
}

// GetSecret reads the "value" field of a KV v2 secret
func (s *vaultStore) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	kv, err := s.client.KVv2(s.mountPath).Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", path, err)
	}

	value, _ := kv.Data["value"].(string)
	if value == "" {
		return nil, fmt.Errorf("secret %s has no value field", path)
	}

	secret := &ports.Secret{
		Value:   value,
		Version: fmt.Sprintf("%d", kv.VersionMetadata.Version),
	}
	if !kv.VersionMetadata.CreatedTime.IsZero() {
		secret.CreatedAt = kv.VersionMetadata.CreatedTime.UTC().Format("2006-01-02T15:04:05Z")
	}
	return secret, nil
}

// PutSecret writes a KV v2 secret under the "value" field
func (s *vaultStore) PutSecret(ctx context.Context, path, value string, metadata map[string]string) (string, error) {
	data := map[string]interface{}{"value": value}
	for k, v := range metadata {
		data[k] = v
	}

	kv, err := s.client.KVv2(s.mountPath).Put(ctx, path, data)
	if err != nil {
		return "", fmt.Errorf("put secret %s: %w", path, err)
	}

	s.logger.Info("secret stored in vault", ports.String("path", path))
	return fmt.Sprintf("%d", kv.VersionMetadata.Version), nil
}
