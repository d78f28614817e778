// Package itd implements the ITD/POSLink HTTP/JSON protocol spoken by the
// card-payment terminal: field-exact request encoding, derived date and ticket
// fields, the HTTP client, and response-code interpretation.
package itd

import (
	"github.com/shopspring/decimal"

	"github.com/lacarta/pos-gateway/internal/domain"
)

var centsFactor = decimal.NewFromInt(100)

// EncodeAmount converts a currency amount to the terminal's scaled integer
// string representation: round(amount * 100) in base 10 with no separators.
// 2000.00 -> "200000". Rounding is half away from zero on the scaled value.
func EncodeAmount(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", domain.ErrInvalidAmount.WithDetail("amount", amount.String())
	}
	return amount.Mul(centsFactor).Round(0).String(), nil
}
