package domain

import (
	"strconv"
	"time"
)

// Order carries the slice of the order record owned by the POS gateway: the
// transaction evidence for the original sale and for any refund/void or reversal
// issued against it. Evidence fields are empty at order creation, populated
// exactly once by a Completed gateway response, and never cleared.
type Order struct {
	ID           string
	RestaurantID string
	CreatedAt    time.Time

	// Original sale evidence
	TransactionID       *int64
	TransactionIDString string
	TransactionDateTime string // vendor format yyyyMMddHHmmssfff
	SaleResponse        string

	// Refund / void-by-ticket evidence. RefundedAt is the duplicate guard for
	// both Cancel and Refund: they are mutually exclusive against one order.
	RefundTransactionID       *int64
	RefundTransactionIDString string
	RefundTransactionDateTime string
	RefundResponse            string
	RefundedAt                *time.Time

	// Reversal evidence. ReversedAt guards Reverse independently.
	ReverseTransactionID       *int64
	ReverseTransactionIDString string
	ReverseResponse            string
	ReversedAt                 *time.Time
}

// StoredTransactionID returns the original sale transaction id as a string,
// preferring the string form the terminal returned.
func (o *Order) StoredTransactionID() string {
	if o.TransactionIDString != "" {
		return o.TransactionIDString
	}
	if o.TransactionID != nil {
		return strconv.FormatInt(*o.TransactionID, 10)
	}
	return ""
}

// CanRefund reports whether a Cancel or Refund may still be issued
func (o *Order) CanRefund() bool {
	return o.RefundedAt == nil
}

// CanReverse reports whether a Reverse may still be issued
func (o *Order) CanReverse() bool {
	return o.ReversedAt == nil
}

// SaleEvidence is the terminal's proof of an original sale, persisted onto the order
type SaleEvidence struct {
	TransactionID       *int64
	TransactionIDString string
	TransactionDateTime string
	RawResponse         string
}

// RefundEvidence is the terminal's proof of a refund or void, persisted onto
// every order settled under the original transaction id
type RefundEvidence struct {
	TransactionID       *int64
	TransactionIDString string
	TransactionDateTime string
	RawResponse         string
}

// ReverseEvidence is the terminal's proof of a reversal
type ReverseEvidence struct {
	TransactionID       *int64
	TransactionIDString string
	RawResponse         string
}
