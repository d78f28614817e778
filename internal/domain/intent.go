package domain

import (
	"github.com/shopspring/decimal"
)

// Operation is the closed set of POS terminal transaction operations
type Operation string

const (
	OperationSale    Operation = "SALE"    // Initial card authorization for an order
	OperationCancel  Operation = "CANCEL"  // Void-by-ticket, typically same-day
	OperationRefund  Operation = "REFUND"  // Reversal by transaction reference, post-settlement
	OperationQuery   Operation = "QUERY"   // Poll the terminal for a pending transaction
	OperationReverse Operation = "REVERSE" // Undo a transaction whose response was never received
)

// RequiresAmount reports whether the operation carries a monetary amount on the wire
func (o Operation) RequiresAmount() bool {
	return o == OperationSale || o == OperationCancel || o == OperationRefund
}

// RequiresTicket reports whether the operation must resolve a 4-digit ticket number
// before any network call is made
func (o Operation) RequiresTicket() bool {
	return o == OperationCancel || o == OperationRefund || o == OperationReverse
}

// TransactionIntent is the normalized input for a single POS gateway call.
// It is constructed per call and never persisted.
type TransactionIntent struct {
	Operation Operation

	// Amount of the operation. Required for Sale/Cancel/Refund; Reverse may carry
	// an explicit amount; Query never does.
	Amount decimal.Decimal

	// OrderID references the order whose evidence drives field derivation and the
	// duplicate guard. Optional for Query/Reverse when identifiers are explicit.
	OrderID string

	// RestaurantID selects the tenant terminal configuration.
	RestaurantID string

	// Caller-supplied overrides. When empty, values are derived from the order's
	// persisted evidence.
	TicketNumber        string
	OriginalDateTime    string // vendor 17-digit format, or an exact yyMMdd value
	TransactionID       *int64
	StringTransactionID string

	// Optional tax breakdown for Refund. Defaults to the encoded amount.
	TaxableAmount *decimal.Decimal
	InvoiceAmount *decimal.Decimal
	TaxAmount     *decimal.Decimal
}

// Validate rejects intents that must never reach the network
func (i *TransactionIntent) Validate() error {
	switch i.Operation {
	case OperationSale, OperationCancel, OperationRefund, OperationQuery, OperationReverse:
	default:
		return NewDomainError(ErrorCodeValidationMissingField, "unknown operation").
			WithDetail("operation", string(i.Operation))
	}

	if i.Operation.RequiresAmount() && !i.Amount.IsPositive() {
		return ErrInvalidAmount.WithDetail("amount", i.Amount.String())
	}
	if i.Operation == OperationReverse && !i.Amount.IsZero() && i.Amount.IsNegative() {
		return ErrInvalidAmount.WithDetail("amount", i.Amount.String())
	}

	if i.Operation == OperationQuery || i.Operation == OperationReverse {
		if i.TransactionID == nil && i.StringTransactionID == "" && i.OrderID == "" {
			return ErrMissingTransactionID
		}
	}

	return nil
}
