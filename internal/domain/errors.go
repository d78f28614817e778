package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Validation errors (VALIDATION_*) - rejected before any network call
	ErrorCodeValidationAmountInvalid ErrorCode = "VALIDATION_AMOUNT_INVALID"
	ErrorCodeValidationMissingTicket ErrorCode = "VALIDATION_MISSING_TICKET"
	ErrorCodeValidationMissingTxnID  ErrorCode = "VALIDATION_MISSING_TRANSACTION_ID"
	ErrorCodeValidationMissingField  ErrorCode = "VALIDATION_MISSING_FIELD"

	// Ledger errors (LEDGER_*) - rejected before any network call
	ErrorCodeDuplicateOperation ErrorCode = "LEDGER_DUPLICATE_OPERATION"
	ErrorCodeOrderNotFound      ErrorCode = "LEDGER_ORDER_NOT_FOUND"

	// Gateway errors (GATEWAY_*)
	ErrorCodeGatewayUnavailable   ErrorCode = "GATEWAY_UNAVAILABLE"
	ErrorCodeGatewayBusinessError ErrorCode = "GATEWAY_BUSINESS_ERROR"
	ErrorCodeGatewayPending       ErrorCode = "GATEWAY_PENDING"
	ErrorCodeResponseParseError   ErrorCode = "GATEWAY_RESPONSE_PARSE_ERROR"

	// Internal errors (INTERNAL_*)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail returns a copy of the error with one more detail field. Copying
// keeps the shared error instances below immutable.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	clone := &DomainError{
		Err:     e.Err,
		Code:    e.Code,
		Message: e.Message,
		Details: make(map[string]interface{}, len(e.Details)+1),
	}
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	clone.Details[key] = value
	return clone
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// IsValidationError checks if an error was rejected during input validation
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeValidationAmountInvalid ||
		code == ErrorCodeValidationMissingTicket ||
		code == ErrorCodeValidationMissingTxnID ||
		code == ErrorCodeValidationMissingField
}

// IsDuplicateOperation checks if an error is the ledger duplicate guard
func IsDuplicateOperation(err error) bool {
	return GetErrorCode(err) == ErrorCodeDuplicateOperation
}

// IsGatewayError checks if an error originated at the POS terminal boundary
func IsGatewayError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayUnavailable ||
		code == ErrorCodeGatewayBusinessError ||
		code == ErrorCodeGatewayPending ||
		code == ErrorCodeResponseParseError
}

// Structured error instances
var (
	ErrInvalidAmount        = NewDomainError(ErrorCodeValidationAmountInvalid, "amount must be greater than zero")
	ErrMissingTicketNumber  = NewDomainError(ErrorCodeValidationMissingTicket, "ticket number could not be resolved")
	ErrMissingTransactionID = NewDomainError(ErrorCodeValidationMissingTxnID, "original transaction id is required")
	ErrMissingOrder         = NewDomainError(ErrorCodeValidationMissingField, "order reference is required")

	ErrDuplicateOperation = NewDomainError(ErrorCodeDuplicateOperation, "financial operation already recorded for this order")
	ErrOrderNotFound      = NewDomainError(ErrorCodeOrderNotFound, "order not found")

	ErrGatewayUnavailable = NewDomainError(ErrorCodeGatewayUnavailable, "POS terminal is unavailable")
	ErrGatewayBusiness    = NewDomainError(ErrorCodeGatewayBusinessError, "POS terminal rejected the transaction")
	ErrResponseParse      = NewDomainError(ErrorCodeResponseParseError, "POS terminal response could not be parsed")
)
