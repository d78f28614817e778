package mocks

import (
	"context"

	"github.com/lacarta/pos-gateway/internal/domain"
)

// MockTerminalSource is a mock implementation of TerminalConfigSource for testing
type MockTerminalSource struct {
	ResolveFunc func(ctx context.Context, restaurantID string) (domain.TerminalConfig, error)
	Calls       []string
}

// NewMockTerminalSource creates a mock source that always returns cfg
func NewMockTerminalSource(cfg domain.TerminalConfig) *MockTerminalSource {
	return &MockTerminalSource{
		ResolveFunc: func(ctx context.Context, restaurantID string) (domain.TerminalConfig, error) {
			return cfg, nil
		},
	}
}

// Resolve returns the configured terminal config
func (m *MockTerminalSource) Resolve(ctx context.Context, restaurantID string) (domain.TerminalConfig, error) {
	m.Calls = append(m.Calls, restaurantID)
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, restaurantID)
	}
	return domain.TerminalConfig{}, nil
}
