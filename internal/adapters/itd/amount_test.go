package itd

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacarta/pos-gateway/internal/domain"
)

func TestEncodeAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		want   string
	}{
		{"whole amount", "2000.00", "200000"},
		{"cents", "11.20", "1120"},
		{"single cent", "0.01", "1"},
		{"zero", "0", "0"},
		{"no decimals", "150", "15000"},
		{"sub-cent rounds half up", "10.005", "1001"},
		{"sub-cent rounds down", "10.004", "1000"},
		{"large amount", "999999.99", "99999999"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc.amount)
			require.NoError(t, err)

			got, err := EncodeAmount(amount)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeAmount_RejectsNegative(t *testing.T) {
	_, err := EncodeAmount(decimal.NewFromFloat(-10.50))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeValidationAmountInvalid, domain.GetErrorCode(err))
}
