package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder_StoredTransactionID(t *testing.T) {
	numeric := int64(987654321)

	t.Run("string form preferred", func(t *testing.T) {
		order := &Order{TransactionID: &numeric, TransactionIDString: "2603079266119181"}
		assert.Equal(t, "2603079266119181", order.StoredTransactionID())
	})

	t.Run("numeric fallback", func(t *testing.T) {
		order := &Order{TransactionID: &numeric}
		assert.Equal(t, "987654321", order.StoredTransactionID())
	})

	t.Run("empty when no sale evidence", func(t *testing.T) {
		assert.Equal(t, "", (&Order{}).StoredTransactionID())
	})
}

func TestOrder_DuplicateGuards(t *testing.T) {
	now := time.Now()

	order := &Order{}
	assert.True(t, order.CanRefund())
	assert.True(t, order.CanReverse())

	order.RefundedAt = &now
	assert.False(t, order.CanRefund())
	// The two guards are independent
	assert.True(t, order.CanReverse())

	order.ReversedAt = &now
	assert.False(t, order.CanReverse())
}
