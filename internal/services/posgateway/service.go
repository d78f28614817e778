// Package posgateway orchestrates POS terminal transactions: it validates the
// intent, enforces the duplicate-operation guard against persisted order
// evidence, encodes and sends the vendor request, and writes the terminal's
// evidence back on confirmed completion.
package posgateway

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lacarta/pos-gateway/internal/adapters/itd"
	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
	"github.com/lacarta/pos-gateway/pkg/observability"
)

// Service executes TransactionIntents against the card terminal
type Service struct {
	store     ports.OrderEvidenceStore
	terminals ports.TerminalConfigSource
	gateway   ports.POSGateway
	encoder   *itd.Encoder
	logger    ports.Logger
	now       func() time.Time
}

// NewService creates the gateway orchestration service
func NewService(
	store ports.OrderEvidenceStore,
	terminals ports.TerminalConfigSource,
	gateway ports.POSGateway,
	logger ports.Logger,
) *Service {
	return &Service{
		store:     store,
		terminals: terminals,
		gateway:   gateway,
		encoder:   itd.NewEncoder(logger),
		logger:    logger,
		now:       time.Now,
	}
}

// Sale authorizes a card payment for an order
func (s *Service) Sale(ctx context.Context, intent domain.TransactionIntent) (*domain.GatewayOutcome, error) {
	intent.Operation = domain.OperationSale
	return s.Execute(ctx, &intent)
}

// Cancel voids a sale by ticket number, typically same-day
func (s *Service) Cancel(ctx context.Context, intent domain.TransactionIntent) (*domain.GatewayOutcome, error) {
	intent.Operation = domain.OperationCancel
	return s.Execute(ctx, &intent)
}

// Refund reverses a settled sale by transaction reference
func (s *Service) Refund(ctx context.Context, intent domain.TransactionIntent) (*domain.GatewayOutcome, error) {
	intent.Operation = domain.OperationRefund
	return s.Execute(ctx, &intent)
}

// Query polls the terminal for the final status of a pending transaction
func (s *Service) Query(ctx context.Context, intent domain.TransactionIntent) (*domain.GatewayOutcome, error) {
	intent.Operation = domain.OperationQuery
	return s.Execute(ctx, &intent)
}

// Reverse undoes a transaction whose terminal response was never received
func (s *Service) Reverse(ctx context.Context, intent domain.TransactionIntent) (*domain.GatewayOutcome, error) {
	intent.Operation = domain.OperationReverse
	return s.Execute(ctx, &intent)
}

// Execute runs the full pipeline for one intent. Validation failures and the
// duplicate guard reject before any network I/O; evidence is persisted only on
// a Completed outcome.
func (s *Service) Execute(ctx context.Context, intent *domain.TransactionIntent) (*domain.GatewayOutcome, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.terminals.Resolve(ctx, intent.RestaurantID)
	if err != nil {
		return nil, err
	}

	order, err := s.loadOrder(ctx, intent)
	if err != nil {
		return nil, err
	}

	if err := s.guardDuplicate(intent, order); err != nil {
		return nil, err
	}

	now := s.now()
	body, err := s.encoder.Encode(intent, order, cfg, now)
	if err != nil {
		return nil, err
	}

	// Correlation id ties the request/response log pair together during
	// reconciliation; the terminal protocol itself has no such field
	callID := uuid.NewString()

	start := time.Now()
	outcome, err := s.gateway.Send(ctx, ports.EncodedRequest{
		Operation: intent.Operation,
		Body:      body,
	})
	if err != nil {
		observability.RecordGatewayOperation(string(intent.Operation), "unavailable", time.Since(start).Seconds())
		s.logger.Error("terminal call failed",
			ports.String("call_id", callID),
			ports.String("operation", string(intent.Operation)),
			ports.String("order_id", intent.OrderID),
			ports.String("request_body", string(body)),
			ports.Err(err))
		return nil, err
	}
	observability.RecordGatewayOperation(string(intent.Operation), string(outcome.Classification), time.Since(start).Seconds())

	switch outcome.Classification {
	case domain.ClassificationCompleted:
		if err := s.persistEvidence(ctx, intent, order, outcome, now); err != nil {
			s.logger.Error("terminal operation completed but evidence persist failed",
				ports.String("operation", string(intent.Operation)),
				ports.String("order_id", intent.OrderID),
				ports.String("response_body", outcome.RawBody),
				ports.Err(err))
			return outcome, err
		}
		s.logger.Info("terminal operation completed",
			ports.String("call_id", callID),
			ports.String("operation", string(intent.Operation)),
			ports.String("order_id", intent.OrderID),
			ports.Int("response_code", outcome.ResponseCode))
		return outcome, nil

	case domain.ClassificationPending:
		s.logger.Warn("terminal operation pending, re-query for final status",
			ports.String("call_id", callID),
			ports.String("operation", string(intent.Operation)),
			ports.String("order_id", intent.OrderID),
			ports.Int("response_code", outcome.ResponseCode),
			ports.String("request_body", string(body)),
			ports.String("response_body", outcome.RawBody))
		return outcome, nil

	default:
		s.logger.Error("terminal rejected operation",
			ports.String("call_id", callID),
			ports.String("operation", string(intent.Operation)),
			ports.String("order_id", intent.OrderID),
			ports.Int("response_code", outcome.ResponseCode),
			ports.String("status_message", outcome.StatusMessage),
			ports.String("request_body", string(body)),
			ports.String("response_body", outcome.RawBody))

		derr := domain.ErrGatewayBusiness
		if outcome.ResponseCode == -1 {
			derr = domain.ErrResponseParse
		}
		return outcome, derr.
			WithDetail("response_code", outcome.ResponseCode).
			WithDetail("status_message", outcome.StatusMessage)
	}
}

func (s *Service) loadOrder(ctx context.Context, intent *domain.TransactionIntent) (*domain.Order, error) {
	if intent.OrderID == "" {
		// Cancel and Refund target an order's evidence; Query and Reverse may
		// run on explicit identifiers alone
		if intent.Operation == domain.OperationCancel || intent.Operation == domain.OperationRefund {
			return nil, domain.ErrMissingOrder
		}
		return nil, nil
	}
	return s.store.GetOrder(ctx, intent.OrderID)
}

// guardDuplicate is the sole idempotency mechanism against the terminal, which
// exposes none of its own. RefundedAt blocks both Cancel and Refund; ReversedAt
// blocks Reverse independently.
func (s *Service) guardDuplicate(intent *domain.TransactionIntent, order *domain.Order) error {
	if order == nil {
		return nil
	}
	switch intent.Operation {
	case domain.OperationCancel, domain.OperationRefund:
		if !order.CanRefund() {
			observability.RecordDuplicateOperation(string(intent.Operation))
			return domain.ErrDuplicateOperation.
				WithDetail("order_id", order.ID).
				WithDetail("refunded_at", order.RefundedAt)
		}
	case domain.OperationReverse:
		if !order.CanReverse() {
			observability.RecordDuplicateOperation(string(intent.Operation))
			return domain.ErrDuplicateOperation.
				WithDetail("order_id", order.ID).
				WithDetail("reversed_at", order.ReversedAt)
		}
	}
	return nil
}

func (s *Service) persistEvidence(ctx context.Context, intent *domain.TransactionIntent, order *domain.Order, outcome *domain.GatewayOutcome, now time.Time) error {
	switch intent.Operation {
	case domain.OperationSale:
		if intent.OrderID == "" {
			return nil
		}
		return s.store.SaveSaleEvidence(ctx, intent.OrderID, domain.SaleEvidence{
			TransactionID:       outcome.TransactionID,
			TransactionIDString: outcome.StringTransactionID,
			TransactionDateTime: itd.OperationTimestamp(now),
			RawResponse:         outcome.RawBody,
		})

	case domain.OperationCancel, domain.OperationRefund:
		originalTxnID := intent.StringTransactionID
		if originalTxnID == "" && order != nil {
			originalTxnID = order.StoredTransactionID()
		}
		return s.store.SaveRefundEvidence(ctx, intent.OrderID, originalTxnID, domain.RefundEvidence{
			TransactionID:       outcome.TransactionID,
			TransactionIDString: outcome.StringTransactionID,
			TransactionDateTime: itd.OperationTimestamp(now),
			RawResponse:         outcome.RawBody,
		})

	case domain.OperationReverse:
		if intent.OrderID == "" {
			s.logger.Warn("reverse completed without order context, evidence not persisted",
				ports.String("s_transaction_id", intent.StringTransactionID))
			return nil
		}
		return s.store.SaveReverseEvidence(ctx, intent.OrderID, domain.ReverseEvidence{
			TransactionID:       outcome.TransactionID,
			TransactionIDString: outcome.StringTransactionID,
			RawResponse:         outcome.RawBody,
		})
	}
	return nil
}
