// Package gateway exposes the POS transaction operations to the admin backend
// over a thin JSON surface. Routing, authentication and the wider order CRUD
// live in the admin service; only the five terminal operations are served here.
package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
	"github.com/lacarta/pos-gateway/internal/services/posgateway"
)

// Handler serves the POS gateway operations
type Handler struct {
	svc    *posgateway.Service
	logger ports.Logger
}

// NewHandler creates the gateway handler
func NewHandler(svc *posgateway.Service, logger ports.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the operation endpoints
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/pos", func(r chi.Router) {
		r.Post("/sale", h.operation(domain.OperationSale))
		r.Post("/cancel", h.operation(domain.OperationCancel))
		r.Post("/refund", h.operation(domain.OperationRefund))
		r.Post("/query", h.operation(domain.OperationQuery))
		r.Post("/reverse", h.operation(domain.OperationReverse))
	})
}

type operationRequest struct {
	OrderID             string `json:"order_id"`
	RestaurantID        string `json:"restaurant_id"`
	Amount              string `json:"amount"`
	TicketNumber        string `json:"ticket_number"`
	OriginalDateTime    string `json:"original_datetime"`
	TransactionID       *int64 `json:"transaction_id"`
	StringTransactionID string `json:"s_transaction_id"`
	TaxableAmount       string `json:"taxable_amount"`
	InvoiceAmount       string `json:"invoice_amount"`
}

type operationResponse struct {
	ResponseCode            int      `json:"response_code"`
	Classification          string   `json:"classification"`
	StatusMessage           string   `json:"status_message"`
	TransactionID           *int64   `json:"transaction_id,omitempty"`
	StringTransactionID     string   `json:"s_transaction_id,omitempty"`
	RemainingExpirationTime *float64 `json:"remaining_expiration_time,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) operation(op domain.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req operationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid JSON body"})
			return
		}

		intent, err := req.toIntent(op)
		if err != nil {
			h.writeError(w, err)
			return
		}

		outcome, err := h.svc.Execute(r.Context(), intent)
		if err != nil && outcome == nil {
			h.writeError(w, err)
			return
		}

		status := http.StatusOK
		if err != nil {
			status = statusForError(err)
		}
		writeJSON(w, status, operationResponse{
			ResponseCode:            outcome.ResponseCode,
			Classification:          string(outcome.Classification),
			StatusMessage:           outcome.StatusMessage,
			TransactionID:           outcome.TransactionID,
			StringTransactionID:     outcome.StringTransactionID,
			RemainingExpirationTime: outcome.RemainingExpirationTime,
		})
	}
}

func (r *operationRequest) toIntent(op domain.Operation) (*domain.TransactionIntent, error) {
	intent := &domain.TransactionIntent{
		Operation:           op,
		OrderID:             r.OrderID,
		RestaurantID:        r.RestaurantID,
		TicketNumber:        r.TicketNumber,
		OriginalDateTime:    r.OriginalDateTime,
		TransactionID:       r.TransactionID,
		StringTransactionID: r.StringTransactionID,
	}

	if r.Amount != "" {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return nil, domain.ErrInvalidAmount.WithDetail("amount", r.Amount)
		}
		intent.Amount = amount
	}
	if r.TaxableAmount != "" {
		taxable, err := decimal.NewFromString(r.TaxableAmount)
		if err != nil {
			return nil, domain.ErrInvalidAmount.WithDetail("taxable_amount", r.TaxableAmount)
		}
		intent.TaxableAmount = &taxable
	}
	if r.InvoiceAmount != "" {
		invoice, err := decimal.NewFromString(r.InvoiceAmount)
		if err != nil {
			return nil, domain.ErrInvalidAmount.WithDetail("invoice_amount", r.InvoiceAmount)
		}
		intent.InvoiceAmount = &invoice
	}

	return intent, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := domain.GetErrorCode(err)
	writeJSON(w, statusForError(err), errorResponse{Code: string(code), Message: err.Error()})
}

func statusForError(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case domain.IsDuplicateOperation(err):
		return http.StatusConflict
	case domain.IsDomainError(err, domain.ErrorCodeOrderNotFound):
		return http.StatusNotFound
	case domain.IsDomainError(err, domain.ErrorCodeGatewayBusinessError):
		return http.StatusUnprocessableEntity
	case domain.IsDomainError(err, domain.ErrorCodeGatewayUnavailable),
		domain.IsDomainError(err, domain.ErrorCodeResponseParseError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
