package mocks

import (
	"context"

	"github.com/lacarta/pos-gateway/internal/domain"
)

// RefundCall captures one SaveRefundEvidence invocation
type RefundCall struct {
	OrderID       string
	OriginalTxnID string
	Evidence      domain.RefundEvidence
}

// SaleCall captures one SaveSaleEvidence invocation
type SaleCall struct {
	OrderID  string
	Evidence domain.SaleEvidence
}

// ReverseCall captures one SaveReverseEvidence invocation
type ReverseCall struct {
	OrderID  string
	Evidence domain.ReverseEvidence
}

// MockOrderStore is a mock implementation of OrderEvidenceStore for testing
type MockOrderStore struct {
	GetOrderFunc            func(ctx context.Context, orderID string) (*domain.Order, error)
	SaveSaleEvidenceFunc    func(ctx context.Context, orderID string, ev domain.SaleEvidence) error
	SaveRefundEvidenceFunc  func(ctx context.Context, orderID, originalTxnID string, ev domain.RefundEvidence) error
	SaveReverseEvidenceFunc func(ctx context.Context, orderID string, ev domain.ReverseEvidence) error

	GetOrderCalls []string
	SaleCalls     []SaleCall
	RefundCalls   []RefundCall
	ReverseCalls  []ReverseCall
}

// NewMockOrderStore creates a new mock order store
func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{}
}

// GetOrder loads an order
func (m *MockOrderStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	m.GetOrderCalls = append(m.GetOrderCalls, orderID)
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, orderID)
	}
	return &domain.Order{ID: orderID}, nil
}

// SaveSaleEvidence records sale evidence
func (m *MockOrderStore) SaveSaleEvidence(ctx context.Context, orderID string, ev domain.SaleEvidence) error {
	m.SaleCalls = append(m.SaleCalls, SaleCall{OrderID: orderID, Evidence: ev})
	if m.SaveSaleEvidenceFunc != nil {
		return m.SaveSaleEvidenceFunc(ctx, orderID, ev)
	}
	return nil
}

// SaveRefundEvidence records refund evidence
func (m *MockOrderStore) SaveRefundEvidence(ctx context.Context, orderID, originalTxnID string, ev domain.RefundEvidence) error {
	m.RefundCalls = append(m.RefundCalls, RefundCall{OrderID: orderID, OriginalTxnID: originalTxnID, Evidence: ev})
	if m.SaveRefundEvidenceFunc != nil {
		return m.SaveRefundEvidenceFunc(ctx, orderID, originalTxnID, ev)
	}
	return nil
}

// SaveReverseEvidence records reversal evidence
func (m *MockOrderStore) SaveReverseEvidence(ctx context.Context, orderID string, ev domain.ReverseEvidence) error {
	m.ReverseCalls = append(m.ReverseCalls, ReverseCall{OrderID: orderID, Evidence: ev})
	if m.SaveReverseEvidenceFunc != nil {
		return m.SaveReverseEvidenceFunc(ctx, orderID, ev)
	}
	return nil
}
