package mocks

import (
	"context"

	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// MockPOSGateway is a mock implementation of POSGateway for testing
type MockPOSGateway struct {
	SendFunc func(ctx context.Context, req ports.EncodedRequest) (*domain.GatewayOutcome, error)
	Calls    []ports.EncodedRequest
}

// NewMockPOSGateway creates a new mock gateway
func NewMockPOSGateway(sendFunc func(ctx context.Context, req ports.EncodedRequest) (*domain.GatewayOutcome, error)) *MockPOSGateway {
	return &MockPOSGateway{SendFunc: sendFunc}
}

// Send captures the request and executes the mock function
func (m *MockPOSGateway) Send(ctx context.Context, req ports.EncodedRequest) (*domain.GatewayOutcome, error) {
	m.Calls = append(m.Calls, req)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, req)
	}
	return &domain.GatewayOutcome{
		ResponseCode:   0,
		Classification: domain.ClassificationCompleted,
	}, nil
}
