package itd

import (
	"strings"

	"github.com/lacarta/pos-gateway/internal/domain"
)

const ticketLen = 4

// ResolveTicket returns the 4-character ticket number targeting a stored
// transaction: the explicit caller value verbatim, or the trailing digits of
// the order's stored transaction id, left-padded with '0'. Returns
// domain.ErrMissingTicketNumber when neither is available; Cancel, Refund and
// Reverse must not reach the network without one.
func ResolveTicket(explicit string, order *domain.Order) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if order != nil {
		if id := order.StoredTransactionID(); id != "" {
			if len(id) >= ticketLen {
				return id[len(id)-ticketLen:], nil
			}
			return strings.Repeat("0", ticketLen-len(id)) + id, nil
		}
	}

	return "", domain.ErrMissingTicketNumber
}
