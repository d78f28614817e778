package itd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// Wire constants the terminal expects. The UYU currency code is ISO 4217
// numeric. Quotas/Plan/TaxRefund are strings on Sale/Refund but integers on
// Cancel: the two endpoints genuinely expect different JSON types for the same
// fields, so the divergence is preserved per endpoint.
const (
	wireUserID   = "1"
	currencyUYU  = "858"
	saleQuotas   = "5"
	salePlan     = "0"
	saleTax      = "1"
	refundQuotas = "1"
	refundPlan   = "0"
	refundTax    = "1"

	cancelQuotas = 1
	cancelPlan   = 0
	cancelTax    = 1

	// Fixed Sale placeholders. The terminal contract observed in production
	// does not derive these from the order total.
	// TODO: confirm real taxable/invoice derivation with the ITD integration contract.
	saleTaxableAmount = "0"
	saleInvoiceAmount = "0"
)

// Request shapes. Struct field order is the wire field order; encoding/json
// preserves it and some terminal firmwares care.

type commonFields struct {
	PosID               string `json:"PosID"`
	SystemID            string `json:"SystemId"`
	Branch              string `json:"Branch"`
	ClientAppID         string `json:"ClientAppId"`
	UserID              string `json:"UserId"`
	TransactionDateTime string `json:"TransactionDateTimeyyyyMMddHHmmssSSS"`
}

type saleRequest struct {
	commonFields
	Amount        string `json:"Amount"`
	Quotas        string `json:"Quotas"`
	Plan          string `json:"Plan"`
	Currency      string `json:"Currency"`
	TaxRefund     string `json:"TaxRefund"`
	TaxableAmount string `json:"TaxableAmount"`
	InvoiceAmount string `json:"InvoiceAmount"`
}

type cancelRequest struct {
	commonFields
	Amount          string `json:"Amount"`
	Quotas          int    `json:"Quotas"`
	Plan            int    `json:"Plan"`
	Currency        string `json:"Currency"`
	TaxRefund       int    `json:"TaxRefund"`
	OriginalTxnDate string `json:"OriginalTransactionDateyyMMdd"`
	TicketNumber    string `json:"TicketNumber"`
}

type refundRequest struct {
	commonFields
	Amount          string `json:"Amount"`
	Quotas          string `json:"Quotas"`
	Plan            string `json:"Plan"`
	Currency        string `json:"Currency"`
	TaxRefund       string `json:"TaxRefund"`
	TaxableAmount   string `json:"TaxableAmount"`
	InvoiceAmount   string `json:"InvoiceAmount"`
	OriginalTxnDate string `json:"OriginalTransactionDateyyMMdd"`
	TicketNumber    string `json:"TicketNumber"`
}

type queryRequest struct {
	commonFields
	TransactionID  *int64 `json:"TransactionId,omitempty"`
	STransactionID string `json:"STransactionId,omitempty"`
}

type reverseRequest struct {
	commonFields
	TransactionID  *int64 `json:"TransactionId,omitempty"`
	STransactionID string `json:"STransactionId,omitempty"`
}

// Encoder builds the exact JSON payload per operation from a normalized
// intent, the order's persisted evidence and the tenant terminal config
type Encoder struct {
	dates  *DateDeriver
	logger ports.Logger
}

// NewEncoder creates a request encoder
func NewEncoder(logger ports.Logger) *Encoder {
	return &Encoder{
		dates:  NewDateDeriver(logger),
		logger: logger,
	}
}

// Encode produces the deterministic wire body for the intent. Order may be nil
// for Query/Reverse intents carrying explicit transaction identifiers.
func (e *Encoder) Encode(intent *domain.TransactionIntent, order *domain.Order, cfg domain.TerminalConfig, now time.Time) ([]byte, error) {
	common := commonFields{
		PosID:               cfg.PosID,
		SystemID:            cfg.SystemID,
		Branch:              cfg.Branch,
		ClientAppID:         cfg.ClientAppID,
		UserID:              wireUserID,
		TransactionDateTime: OperationTimestamp(now),
	}

	switch intent.Operation {
	case domain.OperationSale:
		return e.encodeSale(intent, common)
	case domain.OperationCancel:
		return e.encodeCancel(intent, order, common, now)
	case domain.OperationRefund:
		return e.encodeRefund(intent, order, common, now)
	case domain.OperationQuery:
		return e.encodeQuery(intent, order, common)
	case domain.OperationReverse:
		return e.encodeReverse(intent, order, common)
	default:
		return nil, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "unknown operation").
			WithDetail("operation", string(intent.Operation))
	}
}

func (e *Encoder) encodeSale(intent *domain.TransactionIntent, common commonFields) ([]byte, error) {
	amount, err := EncodeAmount(intent.Amount)
	if err != nil {
		return nil, err
	}
	return marshalRequest(saleRequest{
		commonFields:  common,
		Amount:        amount,
		Quotas:        saleQuotas,
		Plan:          salePlan,
		Currency:      currencyUYU,
		TaxRefund:     saleTax,
		TaxableAmount: saleTaxableAmount,
		InvoiceAmount: saleInvoiceAmount,
	})
}

func (e *Encoder) encodeCancel(intent *domain.TransactionIntent, order *domain.Order, common commonFields, now time.Time) ([]byte, error) {
	amount, err := EncodeAmount(intent.Amount)
	if err != nil {
		return nil, err
	}
	ticket, err := ResolveTicket(intent.TicketNumber, order)
	if err != nil {
		return nil, err
	}
	return marshalRequest(cancelRequest{
		commonFields:    common,
		Amount:          amount,
		Quotas:          cancelQuotas,
		Plan:            cancelPlan,
		Currency:        currencyUYU,
		TaxRefund:       cancelTax,
		OriginalTxnDate: e.dates.OriginalTransactionDate(order, intent.OriginalDateTime, now),
		TicketNumber:    ticket,
	})
}

func (e *Encoder) encodeRefund(intent *domain.TransactionIntent, order *domain.Order, common commonFields, now time.Time) ([]byte, error) {
	amount, err := EncodeAmount(intent.Amount)
	if err != nil {
		return nil, err
	}
	ticket, err := ResolveTicket(intent.TicketNumber, order)
	if err != nil {
		return nil, err
	}

	taxable, err := encodeOptionalAmount(intent.TaxableAmount, amount)
	if err != nil {
		return nil, err
	}
	invoice, err := encodeOptionalAmount(intent.InvoiceAmount, amount)
	if err != nil {
		return nil, err
	}

	return marshalRequest(refundRequest{
		commonFields:    common,
		Amount:          amount,
		Quotas:          refundQuotas,
		Plan:            refundPlan,
		Currency:        currencyUYU,
		TaxRefund:       refundTax,
		TaxableAmount:   taxable,
		InvoiceAmount:   invoice,
		OriginalTxnDate: e.dates.OriginalTransactionDate(order, intent.OriginalDateTime, now),
		TicketNumber:    ticket,
	})
}

func (e *Encoder) encodeQuery(intent *domain.TransactionIntent, order *domain.Order, common commonFields) ([]byte, error) {
	txnID, sTxnID, err := resolveTransactionIDs(intent, order)
	if err != nil {
		return nil, err
	}
	return marshalRequest(queryRequest{
		commonFields:   common,
		TransactionID:  txnID,
		STransactionID: sTxnID,
	})
}

func (e *Encoder) encodeReverse(intent *domain.TransactionIntent, order *domain.Order, common commonFields) ([]byte, error) {
	// A reversal must target a ticket even though the wire shape omits the
	// field; an intent that cannot resolve one is malformed.
	if _, err := ResolveTicket(intent.TicketNumber, order); err != nil {
		return nil, err
	}

	txnID, sTxnID, err := resolveTransactionIDs(intent, order)
	if err != nil {
		return nil, err
	}

	// Reverse carries the original sale's timestamp, not its own
	common.TransactionDateTime = e.originalWireTimestamp(intent, order, common.TransactionDateTime)

	return marshalRequest(reverseRequest{
		commonFields:   common,
		TransactionID:  txnID,
		STransactionID: sTxnID,
	})
}

// originalWireTimestamp recovers the original sale's 17-digit timestamp from
// the order evidence or the caller, keeping the fresh timestamp otherwise
func (e *Encoder) originalWireTimestamp(intent *domain.TransactionIntent, order *domain.Order, fallback string) string {
	if order != nil && len(order.TransactionDateTime) == wireTimestampLen {
		return order.TransactionDateTime
	}
	if len(intent.OriginalDateTime) == wireTimestampLen {
		return intent.OriginalDateTime
	}
	e.logger.Warn("reverse has no recoverable original timestamp, using current instant",
		ports.String("order_id", intent.OrderID))
	return fallback
}

func resolveTransactionIDs(intent *domain.TransactionIntent, order *domain.Order) (*int64, string, error) {
	txnID := intent.TransactionID
	sTxnID := intent.StringTransactionID

	if txnID == nil && sTxnID == "" && order != nil {
		txnID = order.TransactionID
		sTxnID = order.TransactionIDString
	}
	if txnID == nil && sTxnID == "" {
		return nil, "", domain.ErrMissingTransactionID
	}
	return txnID, sTxnID, nil
}

func encodeOptionalAmount(d *decimal.Decimal, fallback string) (string, error) {
	if d == nil {
		return fallback, nil
	}
	return EncodeAmount(*d)
}

func marshalRequest(req interface{}) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal terminal request: %w", err)
	}
	return body, nil
}
