package ports

import (
	"context"

	"github.com/lacarta/pos-gateway/internal/domain"
)

// EncodedRequest is a fully derived, wire-ready terminal request. The sender
// resolves the endpoint from the operation.
type EncodedRequest struct {
	Operation domain.Operation
	Body      []byte
}

// POSGateway sends an encoded request to the card terminal and returns the
// classified outcome. One attempt per call, no automatic retry: financial
// operations must not be silently retried without an idempotency key. Ambiguous
// timeouts are resolved via the Query operation only.
type POSGateway interface {
	Send(ctx context.Context, req EncodedRequest) (*domain.GatewayOutcome, error)
}
