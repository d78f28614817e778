package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// OrderEvidenceStore implements ports.OrderEvidenceStore on the orders table
type OrderEvidenceStore struct {
	pool   *pgxpool.Pool
	logger ports.Logger
}

// NewOrderEvidenceStore creates an order evidence store
func NewOrderEvidenceStore(pool *pgxpool.Pool, logger ports.Logger) *OrderEvidenceStore {
	return &OrderEvidenceStore{pool: pool, logger: logger}
}

// Ping reports database reachability for readiness checks
func (s *OrderEvidenceStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const getOrderQuery = `
SELECT id, restaurant_id, created_at,
       transaction_id, transaction_id_string, transaction_datetime, sale_response,
       refund_transaction_id, refund_transaction_id_string, refund_transaction_datetime, refund_response, refunded_at,
       reverse_transaction_id, reverse_transaction_id_string, reverse_response, reversed_at
FROM orders
WHERE id = $1`

// GetOrder loads the evidence slice of an order
func (s *OrderEvidenceStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var (
		o                                             domain.Order
		txnIDStr, txnDT, saleResp                     *string
		refTxnIDStr, refTxnDT, refResp                *string
		revTxnIDStr, revResp                          *string
	)

	err := s.pool.QueryRow(ctx, getOrderQuery, orderID).Scan(
		&o.ID, &o.RestaurantID, &o.CreatedAt,
		&o.TransactionID, &txnIDStr, &txnDT, &saleResp,
		&o.RefundTransactionID, &refTxnIDStr, &refTxnDT, &refResp, &o.RefundedAt,
		&o.ReverseTransactionID, &revTxnIDStr, &revResp, &o.ReversedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound.WithDetail("order_id", orderID)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "get order", err)
	}

	o.TransactionIDString = deref(txnIDStr)
	o.TransactionDateTime = deref(txnDT)
	o.SaleResponse = deref(saleResp)
	o.RefundTransactionIDString = deref(refTxnIDStr)
	o.RefundTransactionDateTime = deref(refTxnDT)
	o.RefundResponse = deref(refResp)
	o.ReverseTransactionIDString = deref(revTxnIDStr)
	o.ReverseResponse = deref(revResp)

	return &o, nil
}

const saveSaleEvidenceQuery = `
UPDATE orders
SET transaction_id = $2,
    transaction_id_string = $3,
    transaction_datetime = $4,
    sale_response = $5,
    updated_at = now()
WHERE id = $1`

// SaveSaleEvidence records the original sale evidence on the order
func (s *OrderEvidenceStore) SaveSaleEvidence(ctx context.Context, orderID string, ev domain.SaleEvidence) error {
	tag, err := s.pool.Exec(ctx, saveSaleEvidenceQuery,
		orderID, ev.TransactionID, ev.TransactionIDString, ev.TransactionDateTime, ev.RawResponse)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "save sale evidence", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound.WithDetail("order_id", orderID)
	}
	return nil
}

// The refund write is a single conditional update: refunded_at is only ever set
// while it is still null, so two concurrent refunds against the same order
// cannot both succeed. Propagation reaches every order settled under the same
// original transaction id.
const saveRefundEvidenceQuery = `
UPDATE orders
SET refund_transaction_id = $3,
    refund_transaction_id_string = $4,
    refund_transaction_datetime = $5,
    refund_response = $6,
    refunded_at = now(),
    updated_at = now()
WHERE (id = $1
       OR ($2 <> '' AND (transaction_id_string = $2 OR transaction_id::text = $2)))
  AND refunded_at IS NULL`

// SaveRefundEvidence records refund/void evidence on the originating order and
// every order sharing the original transaction id
func (s *OrderEvidenceStore) SaveRefundEvidence(ctx context.Context, orderID, originalTxnID string, ev domain.RefundEvidence) error {
	tag, err := s.pool.Exec(ctx, saveRefundEvidenceQuery,
		orderID, originalTxnID,
		ev.TransactionID, ev.TransactionIDString, ev.TransactionDateTime, ev.RawResponse)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "save refund evidence", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicateOperation.
			WithDetail("order_id", orderID).
			WithDetail("original_transaction_id", originalTxnID)
	}

	s.logger.Info("refund evidence persisted",
		ports.String("order_id", orderID),
		ports.String("original_transaction_id", originalTxnID),
		ports.Int64("orders_updated", tag.RowsAffected()))
	return nil
}

const saveReverseEvidenceQuery = `
UPDATE orders
SET reverse_transaction_id = $2,
    reverse_transaction_id_string = $3,
    reverse_response = $4,
    reversed_at = now(),
    updated_at = now()
WHERE id = $1
  AND reversed_at IS NULL`

// SaveReverseEvidence records reversal evidence with the same conditional guard
func (s *OrderEvidenceStore) SaveReverseEvidence(ctx context.Context, orderID string, ev domain.ReverseEvidence) error {
	tag, err := s.pool.Exec(ctx, saveReverseEvidenceQuery,
		orderID, ev.TransactionID, ev.TransactionIDString, ev.RawResponse)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "save reverse evidence", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicateOperation.WithDetail("order_id", orderID)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
