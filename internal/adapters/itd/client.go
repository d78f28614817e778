package itd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
)

// requestTimeout bounds every terminal call. One attempt, no automatic retry:
// a timed-out financial operation is ambiguous and is resolved via Query only.
const requestTimeout = 30 * time.Second

// Endpoints holds the distinct vendor URL per operation
type Endpoints struct {
	Sale    string
	Cancel  string
	Refund  string
	Query   string
	Reverse string
}

// For returns the endpoint for an operation
func (e Endpoints) For(op domain.Operation) string {
	switch op {
	case domain.OperationSale:
		return e.Sale
	case domain.OperationCancel:
		return e.Cancel
	case domain.OperationRefund:
		return e.Refund
	case domain.OperationQuery:
		return e.Query
	case domain.OperationReverse:
		return e.Reverse
	}
	return ""
}

// Client implements ports.POSGateway against the ITD terminal endpoints
type Client struct {
	endpoints  Endpoints
	httpClient ports.HTTPClient
	logger     ports.Logger
}

// NewClient creates a terminal client with dependency injection
func NewClient(endpoints Endpoints, httpClient ports.HTTPClient, logger ports.Logger) *Client {
	return &Client{
		endpoints:  endpoints,
		httpClient: httpClient,
		logger:     logger,
	}
}

// NewClientWithDefaults creates a terminal client with the default HTTP client
func NewClientWithDefaults(endpoints Endpoints, logger ports.Logger) *Client {
	return NewClient(endpoints, &http.Client{Timeout: requestTimeout}, logger)
}

// Send posts the encoded request to the operation's endpoint and interprets
// the response. A non-2xx status or transport failure surfaces as
// GATEWAY_UNAVAILABLE carrying the raw vendor body; it is never retried here.
func (c *Client) Send(ctx context.Context, req ports.EncodedRequest) (*domain.GatewayOutcome, error) {
	endpoint := c.endpoints.For(req.Operation)
	if endpoint == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeInternalError, "no endpoint configured for operation").
			WithDetail("operation", string(req.Operation))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("build terminal request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=UTF-8")

	c.logger.Info("sending terminal request",
		ports.String("operation", string(req.Operation)),
		ports.String("endpoint", endpoint))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeGatewayUnavailable, "terminal request failed", err).
			WithDetail("operation", string(req.Operation)).
			WithDetail("request_body", string(req.Body))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeGatewayUnavailable, "read terminal response", err).
			WithDetail("operation", string(req.Operation))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		// Callers need the raw vendor error text for reconciliation
		return nil, domain.NewDomainError(domain.ErrorCodeGatewayUnavailable, "terminal returned non-success status").
			WithDetail("operation", string(req.Operation)).
			WithDetail("http_status", httpResp.StatusCode).
			WithDetail("response_body", string(body))
	}

	return Interpret(body), nil
}
