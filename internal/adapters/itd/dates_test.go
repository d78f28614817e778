package itd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/test/mocks"
)

func TestOperationTimestamp(t *testing.T) {
	instant := time.Date(2024, 3, 15, 14, 30, 22, 123*int(time.Millisecond), time.UTC)
	assert.Equal(t, "20240315143022123", OperationTimestamp(instant))
}

func TestOperationTimestamp_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UYT", -3*3600)
	instant := time.Date(2024, 3, 15, 11, 30, 22, 0, loc)
	assert.Equal(t, "20240315143022000", OperationTimestamp(instant))
}

func TestOriginalTransactionDate(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	deriver := NewDateDeriver(mocks.NewMockLogger())

	t.Run("from stored sale evidence", func(t *testing.T) {
		order := &domain.Order{
			ID:                  "order-1",
			TransactionDateTime: "20240315143022123",
			CreatedAt:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		got := deriver.OriginalTransactionDate(order, "20240601090000000", now)
		assert.Equal(t, "240315", got)
	})

	t.Run("caller-supplied short date", func(t *testing.T) {
		order := &domain.Order{ID: "order-1", CreatedAt: now}
		got := deriver.OriginalTransactionDate(order, "240601", now)
		assert.Equal(t, "240601", got)
	})

	t.Run("caller-supplied full timestamp is sliced", func(t *testing.T) {
		got := deriver.OriginalTransactionDate(nil, "20240601090000000", now)
		assert.Equal(t, "240601", got)
	})

	t.Run("order creation date fallback", func(t *testing.T) {
		order := &domain.Order{
			ID:        "order-1",
			CreatedAt: time.Date(2024, 5, 20, 23, 59, 0, 0, time.UTC),
		}
		got := deriver.OriginalTransactionDate(order, "", now)
		assert.Equal(t, "240520", got)
	})

	t.Run("yesterday fallback with no context", func(t *testing.T) {
		got := deriver.OriginalTransactionDate(nil, "", now)
		assert.Equal(t, "240609", got)
	})

	t.Run("malformed stored evidence falls through", func(t *testing.T) {
		order := &domain.Order{
			ID:                  "order-1",
			TransactionDateTime: "not-a-date",
			CreatedAt:           time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		}
		got := deriver.OriginalTransactionDate(order, "", now)
		assert.Equal(t, "240520", got)
	})
}

func TestSliceWireDate(t *testing.T) {
	t.Run("full wire timestamp", func(t *testing.T) {
		got, ok := sliceWireDate("20240315143022123")
		assert.True(t, ok)
		assert.Equal(t, "240315", got)
	})

	t.Run("date-only prefix", func(t *testing.T) {
		got, ok := sliceWireDate("20240315")
		assert.True(t, ok)
		assert.Equal(t, "240315", got)
	})

	t.Run("too short", func(t *testing.T) {
		_, ok := sliceWireDate("2024031")
		assert.False(t, ok)
	})

	t.Run("non-digit prefix", func(t *testing.T) {
		_, ok := sliceWireDate("2024-03-15T14:30")
		assert.False(t, ok)
	})
}
