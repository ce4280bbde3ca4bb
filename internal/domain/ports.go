// Package domain contains the core business entities and interfaces for the payment service.
package domain

import (
	"context"
	"encoding/json"
)

// ShippingQuote is one rate entry exactly as returned by the shipping API.
// Entries are passed through to the storefront verbatim.
type ShippingQuote = json.RawMessage

// PaymentGateway defines the interface for interacting with the payment provider.
// This is a "port" in hexagonal architecture - the domain defines what it needs,
// and infrastructure provides the implementation.
type PaymentGateway interface {
	// CreatePayment creates a PIX payment and returns its QR payload.
	// A fresh idempotency token is generated for every call.
	CreatePayment(ctx context.Context, order PaymentOrder) (*PixCharge, error)

	// GetPayment retrieves the authoritative state of a payment.
	// Used when processing webhook callbacks.
	GetPayment(ctx context.Context, paymentID string) (*PaymentRecord, error)
}

// ApprovalNotifier sends the approval notice for a paid order. Two
// interchangeable implementations exist (SMTP relay and transactional
// e-mail API); the deployment configuration selects one at startup.
type ApprovalNotifier interface {
	SendApprovalNotice(ctx context.Context, notice ApprovalNotice) error
}

// ShippingRater quotes shipping options for a destination postal code.
type ShippingRater interface {
	QuoteShipping(ctx context.Context, destinationCEP string) ([]ShippingQuote, error)
}
