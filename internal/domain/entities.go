// Package domain contains the core business entities and interfaces for the payment service.
// This is the innermost layer of the Clean Architecture - it has no dependencies on
// external frameworks or infrastructure.
package domain

import "github.com/shopspring/decimal"

// Customer holds the contact and delivery data collected by the storefront
// alongside a payment. Every field is optional; absent fields are replaced
// by a sentinel value when forwarded to the gateway.
type Customer struct {
	Name         string `json:"nome"`
	Phone        string `json:"celular"`
	PostalCode   string `json:"cep"`
	Street       string `json:"rua"`
	Number       string `json:"numero"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"cidade"`
	State        string `json:"estado"`
}

// IsEmpty reports whether no customer field was filled in.
func (c Customer) IsEmpty() bool {
	return c == Customer{}
}

// PaymentOrder represents a request to create a PIX payment.
// Amount is a decimal because the storefront sends it either as a JSON
// number or as a numeric string.
type PaymentOrder struct {
	Product        string
	Amount         decimal.Decimal
	ShippingMethod string
	Customer       Customer
}

// PixCharge is the scannable payload returned by the gateway for a created
// PIX payment.
type PixCharge struct {
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
}

// WebhookNotification represents an incoming webhook from Mercado Pago.
// Only DataID is used; the authoritative payment state is always re-fetched
// from the gateway, never read off the webhook payload.
type WebhookNotification struct {
	ID          string
	Type        string
	Action      string
	DataID      string
	LiveMode    bool
	DateCreated string
}

// StatusApproved is the gateway status that triggers the approval notice.
const StatusApproved = "approved"

// PaymentRecord is the authoritative payment state fetched from the gateway.
// It is owned entirely by Mercado Pago; this service never persists it.
type PaymentRecord struct {
	ID             string
	Status         string
	StatusDetail   string
	Description    string
	Amount         float64
	ShippingMethod string
	Customer       Customer
}

// ApprovalNotice carries the data for a single approval e-mail. It is built
// from a PaymentRecord at the moment its status is seen as approved and
// discarded after the send attempt. Customer is nil when customer-data
// collection is disabled.
type ApprovalNotice struct {
	Description    string
	Amount         float64
	ShippingMethod string
	Customer       *Customer
}
