// Package mercadopago implements the domain.PaymentGateway port against the
// Mercado Pago API. Payment creation talks to the REST endpoint directly so
// the idempotency header and the raw gateway error body stay under our
// control; the status fetch on the webhook path goes through the official SDK.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	sdkconfig "github.com/mercadopago/sdk-go/pkg/config"
	sdkpayment "github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/lojapix/lojapix-payments/internal/domain"
)

const (
	paymentsURL = "https://api.mercadopago.com/v1/payments"

	// The storefront does not ask buyers for an e-mail address, so every
	// payment is created with this placeholder payer.
	payerEmail = "cliente@email.com"

	// Sentinel stored in the payment metadata for fields the buyer left blank.
	notInformed = "Não informado"
)

// Client implements domain.PaymentGateway.
type Client struct {
	accessToken     string
	notificationURL string
	collectCustomer bool
	httpClient      *http.Client
	payments        paymentFetcher
}

// paymentFetcher is the slice of the SDK payment client used on the webhook path.
type paymentFetcher interface {
	Get(ctx context.Context, id int) (*sdkpayment.Response, error)
}

// NewClient creates a gateway client for the given access token.
// notificationURL is the webhook callback handed to Mercado Pago on every
// created payment. When collectCustomer is false, no customer metadata is
// attached to payments.
func NewClient(accessToken, notificationURL string, collectCustomer bool) (*Client, error) {
	cfg, err := sdkconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create MP config: %w", err)
	}

	return &Client{
		accessToken:     accessToken,
		notificationURL: notificationURL,
		collectCustomer: collectCustomer,
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		payments:        sdkpayment.NewClient(cfg),
	}, nil
}

// createPaymentRequest mirrors the POST /v1/payments body.
type createPaymentRequest struct {
	TransactionAmount float64           `json:"transaction_amount"`
	Description       string            `json:"description"`
	PaymentMethodID   string            `json:"payment_method_id"`
	Payer             payerRequest      `json:"payer"`
	NotificationURL   string            `json:"notification_url,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

type payerRequest struct {
	Email string `json:"email"`
}

// createPaymentResponse covers the slice of the gateway response we read.
// Pointers distinguish "absent" from "empty" so a malformed answer is
// detected instead of silently returning empty strings.
type createPaymentResponse struct {
	ID                 json.Number `json:"id"`
	PointOfInteraction *struct {
		TransactionData *struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

// CreatePayment creates a PIX payment and returns its QR payload.
// Every call sends a freshly generated X-Idempotency-Key so a
// transport-level retry cannot double-charge the buyer.
func (c *Client) CreatePayment(ctx context.Context, order domain.PaymentOrder) (*domain.PixCharge, error) {
	amount, _ := order.Amount.Float64()

	payload := createPaymentRequest{
		TransactionAmount: amount,
		Description:       order.Product,
		PaymentMethodID:   "pix",
		Payer:             payerRequest{Email: payerEmail},
		NotificationURL:   c.notificationURL,
	}
	if c.collectCustomer {
		payload.Metadata = customerMetadata(order)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrGateway, "failed to encode payment request", "GATEWAY_ENCODE_ERROR")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, paymentsURL, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrGateway, "failed to create request", "GATEWAY_REQUEST_ERROR")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrGateway, "payment creation request failed", "GATEWAY_UNREACHABLE")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(resp.Body)
		return nil, domain.NewPaymentError(domain.ErrGateway,
			fmt.Sprintf("gateway returned status %d", resp.StatusCode),
			"GATEWAY_ERROR").WithDetail(string(detail))
	}

	var created createPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, domain.NewPaymentError(domain.ErrMalformedGatewayResponse, "failed to decode gateway response", "GATEWAY_DECODE_ERROR")
	}

	if created.PointOfInteraction == nil ||
		created.PointOfInteraction.TransactionData == nil ||
		created.PointOfInteraction.TransactionData.QRCode == "" {
		return nil, domain.NewPaymentError(domain.ErrMalformedGatewayResponse,
			"gateway response is missing the PIX QR payload",
			"GATEWAY_MALFORMED_RESPONSE")
	}

	return &domain.PixCharge{
		QRCode:       created.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64: created.PointOfInteraction.TransactionData.QRCodeBase64,
	}, nil
}

// GetPayment retrieves the authoritative payment state via the SDK.
// Used when processing webhooks to get the current payment status.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	// SDK uses int payment IDs
	idInt, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrGateway,
			fmt.Sprintf("invalid payment ID %q", paymentID),
			"GATEWAY_INVALID_ID")
	}

	result, err := c.payments.Get(ctx, idInt)
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrGateway, "failed to get payment info", "GATEWAY_FETCH_ERROR")
	}

	record := &domain.PaymentRecord{
		ID:           paymentID,
		Status:       result.Status,
		StatusDetail: result.StatusDetail,
		Description:  result.Description,
		Amount:       result.TransactionAmount,
	}
	record.ShippingMethod = metaString(result.Metadata, "tipo_envio")
	record.Customer = domain.Customer{
		Name:         metaString(result.Metadata, "cliente_nome"),
		Phone:        metaString(result.Metadata, "cliente_celular"),
		PostalCode:   metaString(result.Metadata, "cliente_cep"),
		Street:       metaString(result.Metadata, "cliente_rua"),
		Number:       metaString(result.Metadata, "cliente_numero"),
		Complement:   metaString(result.Metadata, "cliente_complemento"),
		Neighborhood: metaString(result.Metadata, "cliente_bairro"),
		City:         metaString(result.Metadata, "cliente_cidade"),
		State:        metaString(result.Metadata, "cliente_estado"),
	}

	return record, nil
}

// customerMetadata flattens the customer fields into the metadata map stored
// with the payment, defaulting absent values to the sentinel. The complement
// is genuinely optional and defaults to empty instead.
func customerMetadata(order domain.PaymentOrder) map[string]string {
	cust := order.Customer
	return map[string]string{
		"cliente_nome":        orSentinel(cust.Name),
		"cliente_celular":     orSentinel(cust.Phone),
		"cliente_cep":         orSentinel(cust.PostalCode),
		"cliente_rua":         orSentinel(cust.Street),
		"cliente_numero":      orSentinel(cust.Number),
		"cliente_complemento": cust.Complement,
		"cliente_bairro":      orSentinel(cust.Neighborhood),
		"cliente_cidade":      orSentinel(cust.City),
		"cliente_estado":      orSentinel(cust.State),
		"tipo_envio":          orSentinel(order.ShippingMethod),
	}
}

func orSentinel(value string) string {
	if value == "" {
		return notInformed
	}
	return value
}

// metaString reads a string value out of the gateway metadata map.
func metaString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	if value, ok := metadata[key].(string); ok {
		return value
	}
	return ""
}
