package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Terminal TerminalConfig
	Secrets  SecretsConfig
	Logger   LoggerConfig
}

// ServerConfig holds the HTTP surface configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// TerminalConfig holds the ITD/POSLink vendor endpoints and the fixed default
// terminal identity used when a restaurant has no terminal of its own
type TerminalConfig struct {
	SaleURL    string
	CancelURL  string
	RefundURL  string
	QueryURL   string
	ReverseURL string

	DefaultPosID       string
	DefaultSystemID    string
	DefaultBranch      string
	DefaultClientAppID string
}

// SecretsConfig selects the secret management backend
type SecretsConfig struct {
	Backend   string // local, aws, vault
	LocalPath string
	AWSRegion string
	VaultAddr string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "pos_gateway"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Terminal: TerminalConfig{
			SaleURL:    getEnv("ITD_SALE_URL", ""),
			CancelURL:  getEnv("ITD_CANCEL_URL", ""),
			RefundURL:  getEnv("ITD_REFUND_URL", ""),
			QueryURL:   getEnv("ITD_QUERY_URL", ""),
			ReverseURL: getEnv("ITD_REVERSE_URL", ""),

			DefaultPosID:       getEnv("ITD_DEFAULT_POS_ID", "22224628"),
			DefaultSystemID:    getEnv("ITD_DEFAULT_SYSTEM_ID", ""),
			DefaultBranch:      getEnv("ITD_DEFAULT_BRANCH", "1"),
			DefaultClientAppID: getEnv("ITD_DEFAULT_CLIENT_APP_ID", "1"),
		},
		Secrets: SecretsConfig{
			Backend:   getEnv("SECRETS_BACKEND", "local"),
			LocalPath: getEnv("SECRETS_LOCAL_PATH", ".secrets"),
			AWSRegion: getEnv("AWS_REGION", "us-east-1"),
			VaultAddr: getEnv("VAULT_ADDR", ""),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if cfg.Terminal.SaleURL == "" {
		return nil, fmt.Errorf("ITD_SALE_URL is required")
	}
	if cfg.Terminal.CancelURL == "" {
		return nil, fmt.Errorf("ITD_CANCEL_URL is required")
	}
	if cfg.Terminal.RefundURL == "" {
		return nil, fmt.Errorf("ITD_REFUND_URL is required")
	}
	if cfg.Terminal.QueryURL == "" {
		return nil, fmt.Errorf("ITD_QUERY_URL is required")
	}
	if cfg.Terminal.ReverseURL == "" {
		return nil, fmt.Errorf("ITD_REVERSE_URL is required")
	}

	return cfg, nil
}

// DatabaseOnlyFromEnv loads just the database section, for tools that never
// talk to the terminal (migrations)
func DatabaseOnlyFromEnv() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "pos_gateway"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
