// Package domain contains the core business entities and interfaces for the payment service.
package domain

import "errors"

// Domain errors represent the failure modes of the payment flow.
// These are used to communicate specific error conditions from the domain layer.
var (
	// ErrInvalidPaymentOrder is returned when the payment order data is invalid.
	ErrInvalidPaymentOrder = errors.New("invalid payment order data")

	// ErrGateway is returned when a create or fetch call to Mercado Pago fails,
	// either at the network level or with a non-2xx status.
	ErrGateway = errors.New("payment gateway error")

	// ErrMalformedGatewayResponse is returned when the gateway answers 2xx but the
	// expected nested fields (the PIX QR payload) are absent.
	ErrMalformedGatewayResponse = errors.New("malformed gateway response")

	// ErrNotificationFailed is returned when the approval e-mail cannot be sent.
	ErrNotificationFailed = errors.New("approval notification failed")

	// ErrRateQuoteFailed is returned when the shipping-rate API call fails.
	ErrRateQuoteFailed = errors.New("shipping rate quote failed")
)

// PaymentError wraps a domain error with additional context. Detail carries
// the upstream error body when the gateway returned one, so the HTTP layer
// can surface it to the storefront.
type PaymentError struct {
	Err     error
	Message string
	Code    string
	Detail  string
}

// Error implements the error interface.
func (e *PaymentError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap allows errors.Is and errors.As to work with PaymentError.
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new PaymentError with the given error and message.
func NewPaymentError(err error, message, code string) *PaymentError {
	return &PaymentError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// WithDetail attaches an upstream error body to the error.
func (e *PaymentError) WithDetail(detail string) *PaymentError {
	e.Detail = detail
	return e
}
