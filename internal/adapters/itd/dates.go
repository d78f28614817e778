package itd

import (
	"fmt"
	"time"

	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

const (
	// wireTimestampLen is the terminal's TransactionDateTimeyyyyMMddHHmmssSSS
	// field length: 17 digits, millisecond precision
	wireTimestampLen = 17

	shortDateLayout = "060102"
)

// OperationTimestamp formats an instant as the terminal's 17-digit
// yyyyMMddHHmmssfff wire field. Always computed fresh from the current UTC
// time, never derived from the order.
func OperationTimestamp(now time.Time) string {
	now = now.UTC()
	return now.Format("20060102150405") + fmt.Sprintf("%03d", now.Nanosecond()/int(time.Millisecond))
}

// DateDeriver resolves the OriginalTransactionDateyyMMdd field required by
// Cancel, Refund and Reverse. Each fallback tier logs distinctly so a
// mis-derived date can be traced back to its source.
type DateDeriver struct {
	logger ports.Logger
}

// NewDateDeriver creates a date deriver
func NewDateDeriver(logger ports.Logger) *DateDeriver {
	return &DateDeriver{logger: logger}
}

// OriginalTransactionDate derives the 6-character yyMMdd date of the source
// transaction. Resolution order: the order's stored sale timestamp, the
// caller-supplied value, the order's creation date, yesterday.
func (d *DateDeriver) OriginalTransactionDate(order *domain.Order, callerSupplied string, now time.Time) string {
	if order != nil {
		if v, ok := sliceWireDate(order.TransactionDateTime); ok {
			d.logger.Debug("original transaction date taken from stored sale evidence",
				ports.String("order_id", order.ID),
				ports.String("original_date", v))
			return v
		}
	}

	if callerSupplied != "" {
		if len(callerSupplied) == 6 {
			d.logger.Debug("original transaction date supplied by caller",
				ports.String("original_date", callerSupplied))
			return callerSupplied
		}
		if v, ok := sliceWireDate(callerSupplied); ok {
			d.logger.Debug("original transaction date sliced from caller-supplied timestamp",
				ports.String("original_date", v))
			return v
		}
	}

	if order != nil {
		v := order.CreatedAt.UTC().Format(shortDateLayout)
		d.logger.Warn("original transaction date fell back to order creation date",
			ports.String("order_id", order.ID),
			ports.String("original_date", v))
		return v
	}

	// Last-resort fallback with no order context. Should never occur in
	// practice; kept so a malformed intent still produces a diagnosable call.
	v := now.UTC().AddDate(0, 0, -1).Format(shortDateLayout)
	d.logger.Warn("original transaction date fell back to yesterday, no order context",
		ports.String("original_date", v))
	return v
}

// sliceWireDate reinterprets the leading date digits of a 17-digit wire
// timestamp, taking characters 3-8 as yyMMdd
func sliceWireDate(wire string) (string, bool) {
	if len(wire) < 8 || !isDigits(wire[:8]) {
		return "", false
	}
	return wire[2:8], true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
