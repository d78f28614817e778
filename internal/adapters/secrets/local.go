// Package secrets implements the SecretStore port against local files,
// AWS Secrets Manager and HashiCorp Vault
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// localStore reads secrets from the filesystem. Development only; production
// deployments use the AWS or Vault backends.
type localStore struct {
	basePath string
	logger   ports.Logger
}

// NewLocalStore creates a filesystem-backed secret store
func NewLocalStore(basePath string, logger ports.Logger) ports.SecretStore {
	return &localStore{basePath: basePath, logger: logger}
}

// GetSecret reads a secret file, accepting either a JSON document with a
// "value" field or plain text
func (s *localStore) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	filePath := filepath.Join(s.basePath, path)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("secret not found: %s", path)
		}
		return nil, fmt.Errorf("read secret: %w", err)
	}

	var doc struct {
		Value     string            `json:"value"`
		Tags      map[string]string `json:"tags"`
		CreatedAt string            `json:"created_at"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.Value != "" {
		return &ports.Secret{
			Value:     doc.Value,
			Version:   "v1",
			Metadata:  doc.Tags,
			CreatedAt: doc.CreatedAt,
		}, nil
	}

	return &ports.Secret{Value: string(data), Version: "v1"}, nil
}

// PutSecret writes a secret file as a JSON document with metadata
func (s *localStore) PutSecret(ctx context.Context, path, value string, metadata map[string]string) (string, error) {
	filePath := filepath.Join(s.basePath, path)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return "", fmt.Errorf("create secret directory: %w", err)
	}

	doc := map[string]interface{}{
		"value":      value,
		"tags":       metadata,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal secret: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o600); err != nil {
		return "", fmt.Errorf("write secret: %w", err)
	}

	s.logger.Info("secret stored on filesystem", ports.String("path", path))
	return "v1", nil
}
