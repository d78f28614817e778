package domain

// Classification is the stable outcome taxonomy derived from the vendor's
// numeric ResponseCode
type Classification string

const (
	ClassificationCompleted Classification = "completed" // 0, 100
	ClassificationPending   Classification = "pending"   // 10, 11 - re-query later
	ClassificationError     Classification = "error"     // everything else
)

// GatewayOutcome is the ephemeral result of a single POS terminal call
type GatewayOutcome struct {
	ResponseCode   int
	Classification Classification

	// Transaction identifiers extracted from the response, when present
	TransactionID       *int64
	StringTransactionID string

	// RemainingExpirationTime is the seconds until a pending transaction
	// expires; Query responses only
	RemainingExpirationTime *float64

	// RawBody is the unmodified vendor response, kept for audit
	RawBody string

	// StatusMessage is the human-readable text for ResponseCode
	StatusMessage string
}

// IsCompleted reports whether the terminal confirmed the operation
func (o *GatewayOutcome) IsCompleted() bool {
	return o.Classification == ClassificationCompleted
}

// IsPending reports whether the caller should re-Query later
func (o *GatewayOutcome) IsPending() bool {
	return o.Classification == ClassificationPending
}
