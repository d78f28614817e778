package itd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacarta/pos-gateway/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		code int
		want domain.Classification
	}{
		{0, domain.ClassificationCompleted},
		{100, domain.ClassificationCompleted},
		{10, domain.ClassificationPending},
		{11, domain.ClassificationPending},
		{12, domain.ClassificationError},
		{105, domain.ClassificationError},
		{999, domain.ClassificationError},
		{-100, domain.ClassificationError},
		{-5, domain.ClassificationError},
		{-1, domain.ClassificationError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.code), "code %d", tc.code)
	}
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "Transaccion aprobada", StatusMessage(0))
	assert.Equal(t, "Transaccion aprobada", StatusMessage(100))
	assert.Equal(t, "Importe invalido", StatusMessage(105))
	assert.Equal(t, "Error indeterminado", StatusMessage(999))
	// Unknown codes map onto the format/required-fields message
	assert.Equal(t, "Formato en campo/s incorrecta; Faltan campos obligatorios", StatusMessage(42))
}

func TestInterpret(t *testing.T) {
	t.Run("approved with numeric transaction id", func(t *testing.T) {
		outcome := Interpret([]byte(`{"ResponseCode":0,"TransactionId":123456}`))

		assert.Equal(t, 0, outcome.ResponseCode)
		assert.Equal(t, domain.ClassificationCompleted, outcome.Classification)
		require.NotNil(t, outcome.TransactionID)
		assert.Equal(t, int64(123456), *outcome.TransactionID)
		assert.Equal(t, "Transaccion aprobada", outcome.StatusMessage)
	})

	t.Run("string transaction id", func(t *testing.T) {
		outcome := Interpret([]byte(`{"ResponseCode":100,"TransactionId":"2603079266119181"}`))

		assert.Equal(t, domain.ClassificationCompleted, outcome.Classification)
		assert.Equal(t, "2603079266119181", outcome.StringTransactionID)
		require.NotNil(t, outcome.TransactionID)
		assert.Equal(t, int64(2603079266119181), *outcome.TransactionID)
	})

	t.Run("STransactionId fallback", func(t *testing.T) {
		outcome := Interpret([]byte(`{"ResponseCode":0,"STransactionId":"abc-123"}`))
		assert.Equal(t, "abc-123", outcome.StringTransactionID)
		assert.Nil(t, outcome.TransactionID)
	})

	t.Run("pending", func(t *testing.T) {
		outcome := Interpret([]byte(`{"ResponseCode":10}`))
		assert.Equal(t, domain.ClassificationPending, outcome.Classification)
	})

	t.Run("alternate code key spellings", func(t *testing.T) {
		for _, body := range []string{
			`{"responseCode":0}`,
			`{"Code":0}`,
			`{"code":0}`,
			`{"StatusCode":0}`,
			`{"ResponseCode":"0"}`,
		} {
			outcome := Interpret([]byte(body))
			assert.Equal(t, domain.ClassificationCompleted, outcome.Classification, "body %s", body)
		}
	})

	t.Run("business rejection", func(t *testing.T) {
		outcome := Interpret([]byte(`{"ResponseCode":105}`))
		assert.Equal(t, 105, outcome.ResponseCode)
		assert.Equal(t, domain.ClassificationError, outcome.Classification)
		assert.Equal(t, "Importe invalido", outcome.StatusMessage)
	})

	t.Run("remaining expiration time", func(t *testing.T) {
		outcome := Interpret([]byte(`{"ResponseCode":10,"RemainingExpirationTime":42.5}`))
		require.NotNil(t, outcome.RemainingExpirationTime)
		assert.Equal(t, 42.5, *outcome.RemainingExpirationTime)
	})

	t.Run("unparseable body yields -1", func(t *testing.T) {
		outcome := Interpret([]byte(`<html>gateway timeout</html>`))

		assert.Equal(t, -1, outcome.ResponseCode)
		assert.Equal(t, domain.ClassificationError, outcome.Classification)
		assert.Equal(t, "<html>gateway timeout</html>", outcome.RawBody)
	})

	t.Run("json with no recognizable code yields -1", func(t *testing.T) {
		outcome := Interpret([]byte(`{"Result":"ok"}`))
		assert.Equal(t, -1, outcome.ResponseCode)
		assert.Equal(t, domain.ClassificationError, outcome.Classification)
	})
}
