package posgateway

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
	"github.com/lacarta/pos-gateway/test/mocks"
)

var testTerminal = domain.TerminalConfig{
	PosID:       "22224628",
	SystemID:    "sys-1",
	Branch:      "1",
	ClientAppID: "1",
}

func newTestService(store *mocks.MockOrderStore, gateway *mocks.MockPOSGateway) *Service {
	svc := NewService(store, mocks.NewMockTerminalSource(testTerminal), gateway, mocks.NewMockLogger())
	svc.now = func() time.Time {
		return time.Date(2024, 3, 15, 14, 30, 22, 123*int(time.Millisecond), time.UTC)
	}
	return svc
}

func approvedGateway(code int, txnID int64) *mocks.MockPOSGateway {
	return mocks.NewMockPOSGateway(func(ctx context.Context, req ports.EncodedRequest) (*domain.GatewayOutcome, error) {
		return &domain.GatewayOutcome{
			ResponseCode:   code,
			Classification: domain.ClassificationCompleted,
			TransactionID:  &txnID,
			RawBody:        `{"ResponseCode":0,"TransactionId":123456}`,
			StatusMessage:  "Transaccion aprobada",
		}, nil
	})
}

func TestService_Sale(t *testing.T) {
	t.Run("completed sale persists evidence", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		gateway := approvedGateway(0, 123456)
		svc := newTestService(store, gateway)

		outcome, err := svc.Sale(context.Background(), domain.TransactionIntent{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("2000.00"),
		})

		require.NoError(t, err)
		assert.True(t, outcome.IsCompleted())
		require.Len(t, gateway.Calls, 1)
		assert.Equal(t, domain.OperationSale, gateway.Calls[0].Operation)
		assert.Contains(t, string(gateway.Calls[0].Body), `"Amount":"200000"`)

		require.Len(t, store.SaleCalls, 1)
		assert.Equal(t, "order-1", store.SaleCalls[0].OrderID)
		require.NotNil(t, store.SaleCalls[0].Evidence.TransactionID)
		assert.Equal(t, int64(123456), *store.SaleCalls[0].Evidence.TransactionID)
		assert.Equal(t, "20240315143022123", store.SaleCalls[0].Evidence.TransactionDateTime)
	})

	t.Run("zero amount rejected before any call", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		gateway := mocks.NewMockPOSGateway(nil)
		svc := newTestService(store, gateway)

		_, err := svc.Sale(context.Background(), domain.TransactionIntent{OrderID: "order-1"})

		require.Error(t, err)
		assert.Equal(t, domain.ErrorCodeValidationAmountInvalid, domain.GetErrorCode(err))
		assert.Empty(t, gateway.Calls)
		assert.Empty(t, store.GetOrderCalls)
	})

	t.Run("business rejection returns outcome and error", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		gateway := mocks.NewMockPOSGateway(func(ctx context.Context, req ports.EncodedRequest) (*domain.GatewayOutcome, error) {
			return &domain.GatewayOutcome{
				ResponseCode:   105,
				Classification: domain.ClassificationError,
				StatusMessage:  "Importe invalido",
			}, nil
		})
		svc := newTestService(store, gateway)

		outcome, err := svc.Sale(context.Background(), domain.TransactionIntent{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("10.00"),
		})

		require.Error(t, err)
		assert.Equal(t, domain.ErrorCodeGatewayBusinessError, domain.GetErrorCode(err))
		require.NotNil(t, outcome)
		assert.Equal(t, 105, outcome.ResponseCode)
		assert.Empty(t, store.SaleCalls)
	})

	t.Run("parse failure maps onto parse error", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		gateway := mocks.NewMockPOSGateway(func(ctx context.Context, req ports.EncodedRequest) (*domain.GatewayOutcome, error) {
			return &domain.GatewayOutcome{
				ResponseCode:   -1,
				Classification: domain.ClassificationError,
				RawBody:        "<html>oops</html>",
			}, nil
		})
		svc := newTestService(store, gateway)

		_, err := svc.Sale(context.Background(), domain.TransactionIntent{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("10.00"),
		})

		require.Error(t, err)
		assert.Equal(t, domain.ErrorCodeResponseParseError, domain.GetErrorCode(err))
	})

	t.Run("pending returns outcome without error", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		gateway := mocks.NewMockPOSGateway(func(ctx context.Context, req ports.EncodedRequest) (*domain.GatewayOutcome, error) {
			return &domain.GatewayOutcome{
				ResponseCode:   10,
				Classification: domain.ClassificationPending,
			}, nil
		})
		svc := newTestService(store, gateway)

		outcome, err := svc.Sale(context.Background(), domain.TransactionIntent{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("10.00"),
		})

		require.NoError(t, err)
		assert.True(t, outcome.IsPending())
		assert.Empty(t, store.SaleCalls)
	})
}

func TestService_Cancel(t *testing.T) {
	saleOrder := func() *domain.Order {
		return &domain.Order{
			ID:                  "order-1",
			TransactionIDString: "2603079266119988",
			TransactionDateTime: "20240310120000000",
			CreatedAt:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("completed cancel persists refund evidence", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		store.GetOrderFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
			return saleOrder(), nil
		}
		gateway := approvedGateway(0, 999001)
		svc := newTestService(store, gateway)

		outcome, err := svc.Cancel(context.Background(), domain.TransactionIntent{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("2000.00"),
		})

		require.NoError(t, err)
		assert.True(t, outcome.IsCompleted())
		assert.Contains(t, string(gateway.Calls[0].Body), `"TicketNumber":"9988"`)
		assert.Contains(t, string(gateway.Calls[0].Body), `"OriginalTransactionDateyyMMdd":"240310"`)

		require.Len(t, store.RefundCalls, 1)
		assert.Equal(t, "order-1", store.RefundCalls[0].OrderID)
		assert.Equal(t, "2603079266119988", store.RefundCalls[0].OriginalTxnID)
	})

	t.Run("already refunded order blocks before network", func(t *testing.T) {
		refundedAt := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
		store := mocks.NewMockOrderStore()
		store.GetOrderFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
			order := saleOrder()
			order.RefundedAt = &refundedAt
			return order, nil
		}
		gateway := mocks.NewMockPOSGateway(nil)
		svc := newTestService(store, gateway)

		_, err := svc.Cancel(context.Background(), domain.TransactionIntent{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("2000.00"),
		})

		require.Error(t, err)
		assert.True(t, domain.IsDuplicateOperation(err))
		assert.Empty(t, gateway.Calls)
	})

	t.Run("missing order reference rejected", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		gateway := mocks.NewMockPOSGateway(nil)
		svc := newTestService(store, gateway)

		_, err := svc.Cancel(context.Background(), domain.TransactionIntent{
			Amount: decimal.RequireFromString("2000.00"),
		})

		require.Error(t, err)
		assert.Equal(t, domain.ErrorCodeValidationMissingField, domain.GetErrorCode(err))
		assert.Empty(t, gateway.Calls)
	})

	t.Run("order not found propagates", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		store.GetOrderFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
			return nil, domain.ErrOrderNotFound
		}
		svc := newTestService(store, mocks.NewMockPOSGateway(nil))

		_, err := svc.Cancel(context.Background(), domain.TransactionIntent{
			OrderID: "missing",
			Amount:  decimal.RequireFromString("10.00"),
		})

		require.Error(t, err)
		assert.Equal(t, domain.ErrorCodeOrderNotFound, domain.GetErrorCode(err))
	})
}

func TestService_Refund(t *testing.T) {
	t.Run("refund propagates original transaction id to store", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		store.GetOrderFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
			return &domain.Order{
				ID:                  orderID,
				TransactionIDString: "2603079266119181",
				TransactionDateTime: "20240310120000000",
			}, nil
		}
		gateway := approvedGateway(100, 999002)
		svc := newTestService(store, gateway)

		_, err := svc.Refund(context.Background(), domain.TransactionIntent{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("500.00"),
		})

		require.NoError(t, err)
		require.Len(t, store.RefundCalls, 1)
		// The store fans this out to every order settled under the same id
		assert.Equal(t, "2603079266119181", store.RefundCalls[0].OriginalTxnID)
	})

	t.Run("duplicate write surfaces from store", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		store.GetOrderFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
			return &domain.Order{
				ID:                  orderID,
				TransactionIDString: "2603079266119181",
				TransactionDateTime: "20240310120000000",
			}, nil
		}
		store.SaveRefundEvidenceFunc = func(ctx context.Context, orderID, originalTxnID string, ev domain.RefundEvidence) error {
			return domain.ErrDuplicateOperation
		}
		svc := newTestService(store, approvedGateway(0, 999003))

		_, err := svc.Refund(context.Background(), domain.TransactionIntent{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("500.00"),
		})

		require.Error(t, err)
		assert.True(t, domain.IsDuplicateOperation(err))
	})
}

func TestService_Query(t *testing.T) {
	t.Run("query by explicit id needs no order", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		gateway := approvedGateway(0, 123456)
		svc := newTestService(store, gateway)

		id := int64(123456)
		outcome, err := svc.Query(context.Background(), domain.TransactionIntent{TransactionID: &id})

		require.NoError(t, err)
		assert.True(t, outcome.IsCompleted())
		assert.Empty(t, store.GetOrderCalls)
		assert.Contains(t, string(gateway.Calls[0].Body), `"TransactionId":123456`)
	})

	t.Run("query never persists evidence", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		svc := newTestService(store, approvedGateway(0, 123456))

		id := int64(123456)
		_, err := svc.Query(context.Background(), domain.TransactionIntent{TransactionID: &id})

		require.NoError(t, err)
		assert.Empty(t, store.SaleCalls)
		assert.Empty(t, store.RefundCalls)
		assert.Empty(t, store.ReverseCalls)
	})

	t.Run("query with no identifiers rejected", func(t *testing.T) {
		svc := newTestService(mocks.NewMockOrderStore(), mocks.NewMockPOSGateway(nil))

		_, err := svc.Query(context.Background(), domain.TransactionIntent{})

		require.Error(t, err)
		assert.Equal(t, domain.ErrorCodeValidationMissingTxnID, domain.GetErrorCode(err))
	})
}

func TestService_Reverse(t *testing.T) {
	reversibleOrder := func() *domain.Order {
		id := int64(123456)
		return &domain.Order{
			ID:                  "order-1",
			TransactionID:       &id,
			TransactionIDString: "2603079266119181",
			TransactionDateTime: "20240310120000456",
		}
	}

	t.Run("completed reverse persists evidence", func(t *testing.T) {
		store := mocks.NewMockOrderStore()
		store.GetOrderFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
			return reversibleOrder(), nil
		}
		gateway := approvedGateway(0, 123456)
		svc := newTestService(store, gateway)

		outcome, err := svc.Reverse(context.Background(), domain.TransactionIntent{OrderID: "order-1"})

		require.NoError(t, err)
		assert.True(t, outcome.IsCompleted())
		// Reverse carries the original sale timestamp, not the fresh one
		assert.Contains(t, string(gateway.Calls[0].Body), `"TransactionDateTimeyyyyMMddHHmmssSSS":"20240310120000456"`)
		require.Len(t, store.ReverseCalls, 1)
		assert.Equal(t, "order-1", store.ReverseCalls[0].OrderID)
	})

	t.Run("already reversed order blocks before network", func(t *testing.T) {
		reversedAt := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
		store := mocks.NewMockOrderStore()
		store.GetOrderFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
			order := reversibleOrder()
			order.ReversedAt = &reversedAt
			return order, nil
		}
		gateway := mocks.NewMockPOSGateway(nil)
		svc := newTestService(store, gateway)

		_, err := svc.Reverse(context.Background(), domain.TransactionIntent{OrderID: "order-1"})

		require.Error(t, err)
		assert.True(t, domain.IsDuplicateOperation(err))
		assert.Empty(t, gateway.Calls)
	})

	t.Run("refunded order may still be reversed", func(t *testing.T) {
		refundedAt := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
		store := mocks.NewMockOrderStore()
		store.GetOrderFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
			order := reversibleOrder()
			order.RefundedAt = &refundedAt
			return order, nil
		}
		svc := newTestService(store, approvedGateway(0, 123456))

		_, err := svc.Reverse(context.Background(), domain.TransactionIntent{OrderID: "order-1"})
		require.NoError(t, err)
	})
}

func TestService_GatewayUnavailable(t *testing.T) {
	store := mocks.NewMockOrderStore()
	gateway := mocks.NewMockPOSGateway(func(ctx context.Context, req ports.EncodedRequest) (*domain.GatewayOutcome, error) {
		return nil, domain.ErrGatewayUnavailable
	})
	svc := newTestService(store, gateway)

	outcome, err := svc.Sale(context.Background(), domain.TransactionIntent{
		OrderID: "order-1",
		Amount:  decimal.RequireFromString("10.00"),
	})

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, domain.ErrorCodeGatewayUnavailable, domain.GetErrorCode(err))
	assert.Empty(t, store.SaleCalls)
}
