package ports

import (
	"context"

	"github.com/lacarta/pos-gateway/internal/domain"
)

// OrderEvidenceStore is the persistence capability the gateway core needs from
// the order record: read the order, claim the per-operation duplicate guard, and
// write back the terminal's transaction evidence.
//
// Evidence writes are conditional updates keyed on the guard timestamp
// ("set refunded_at only if currently null") so concurrent requests against the
// same order cannot both record a refund. The second writer receives
// domain.ErrDuplicateOperation.
type OrderEvidenceStore interface {
	// GetOrder loads the evidence slice of an order.
	// Returns domain.ErrOrderNotFound when the id is unknown.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)

	// SaveSaleEvidence records the original sale evidence on the order.
	SaveSaleEvidence(ctx context.Context, orderID string, ev domain.SaleEvidence) error

	// SaveRefundEvidence records refund/void evidence and stamps RefundedAt on
	// the originating order and on every other order settled under
	// originalTxnID (shared POS transactions settle multiple orders under one
	// card swipe). The propagation lookup is by transaction-id equality, not
	// by order id.
	SaveRefundEvidence(ctx context.Context, orderID, originalTxnID string, ev domain.RefundEvidence) error

	// SaveReverseEvidence records reversal evidence and stamps ReversedAt.
	SaveReverseEvidence(ctx context.Context, orderID string, ev domain.ReverseEvidence) error
}
