package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// awsStore implements the SecretStore port on AWS Secrets Manager
type awsStore struct {
	client *secretsmanager.Client
	logger ports.Logger
}

// NewAWSStore creates an AWS Secrets Manager backed store using the default
// credentials chain (IAM role in production, profile locally)
func NewAWSStore(ctx context.Context, region string, logger ports.Logger) (ports.SecretStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &awsStore{
		client: secretsmanager.NewFromConfig(cfg),
		logger: logger,
	}, nil
}

// GetSecret retrieves the current version of a secret
func (s *awsStore) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", path, err)
	}

	secret := &ports.Secret{Version: aws.ToString(out.VersionId)}
	if out.SecretString != nil {
		secret.Value = *out.SecretString
	}
	if out.CreatedDate != nil {
		secret.CreatedAt = out.CreatedDate.UTC().Format("2006-01-02T15:04:05Z")
	}
	return secret, nil
}

// PutSecret creates or updates a secret
func (s *awsStore) PutSecret(ctx context.Context, path, value string, metadata map[string]string) (string, error) {
	out, err := s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(path),
		SecretString: aws.String(value),
	})
	if err != nil {
		return "", fmt.Errorf("put secret %s: %w", path, err)
	}

	s.logger.Info("secret stored in AWS Secrets Manager", ports.String("path", path))
	return aws.ToString(out.VersionId), nil
}
