// Package payment implements the core business logic for payment processing.
// This is the service/use-case layer in Clean Architecture.
package payment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lojapix/lojapix-payments/internal/domain"
	"github.com/lojapix/lojapix-payments/internal/metrics"
)

// Service implements the payment business logic. It orchestrates the payment
// gateway, the approval notifier and the shipping rater behind the HTTP
// routes. No state is kept between calls; the gateway owns the payment
// records.
type Service struct {
	gateway         domain.PaymentGateway
	notifier        domain.ApprovalNotifier
	rater           domain.ShippingRater
	collectCustomer bool
}

// NewService creates a new payment service with the required dependencies.
func NewService(
	gateway domain.PaymentGateway,
	notifier domain.ApprovalNotifier,
	rater domain.ShippingRater,
	collectCustomer bool,
) *Service {
	return &Service{
		gateway:         gateway,
		notifier:        notifier,
		rater:           rater,
		collectCustomer: collectCustomer,
	}
}

// CreatePayment handles the checkout flow:
// 1. Validates the order data
// 2. Creates a PIX payment in Mercado Pago
// 3. Returns the QR payload for the storefront to render
func (s *Service) CreatePayment(ctx context.Context, order domain.PaymentOrder) (*domain.PixCharge, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	charge, err := s.gateway.CreatePayment(ctx, order)
	if err != nil {
		metrics.PaymentsFailed.Inc()
		slog.ErrorContext(ctx, "failed to create payment", "product", order.Product, "error", err)
		return nil, asPaymentError(err, domain.ErrGateway, "failed to create payment", "GATEWAY_ERROR")
	}

	metrics.PaymentsCreated.Inc()
	slog.InfoContext(ctx, "payment created", "product", order.Product, "amount", order.Amount.String())

	return charge, nil
}

// ProcessWebhook handles one webhook delivery from Mercado Pago:
// 1. Deliveries without a payment id are benign pings and are acknowledged as-is
// 2. The authoritative status is re-fetched from the gateway; the payload's
//    own status is never trusted
// 3. An approved payment triggers exactly one approval notice
//
// A failed fetch or a failed notice propagates, so the HTTP layer answers 500
// and Mercado Pago redelivers. Redelivery is the only retry mechanism; the
// service performs no deduplication across deliveries.
func (s *Service) ProcessWebhook(ctx context.Context, notification domain.WebhookNotification) error {
	metrics.WebhooksReceived.Inc()

	if notification.DataID == "" {
		metrics.WebhooksIgnored.Inc()
		slog.InfoContext(ctx, "webhook without payment id, ignoring", "type", notification.Type)
		return nil
	}

	record, err := s.gateway.GetPayment(ctx, notification.DataID)
	if err != nil {
		metrics.WebhooksFailed.Inc()
		slog.ErrorContext(ctx, "failed to fetch payment for webhook", "payment_id", notification.DataID, "error", err)
		return asPaymentError(err, domain.ErrGateway, "failed to get payment info", "WEBHOOK_GATEWAY_ERROR")
	}

	slog.InfoContext(ctx, "webhook payment status", "payment_id", record.ID, "status", record.Status)

	if record.Status != domain.StatusApproved {
		return nil
	}

	if err := s.notifier.SendApprovalNotice(ctx, buildNotice(record, s.collectCustomer)); err != nil {
		metrics.NotificationsFailed.Inc()
		slog.ErrorContext(ctx, "failed to send approval notice", "payment_id", record.ID, "error", err)
		return asPaymentError(err, domain.ErrNotificationFailed, "failed to send approval notice", "WEBHOOK_NOTIFY_ERROR")
	}

	metrics.NotificationsSent.Inc()
	slog.InfoContext(ctx, "approval notice sent", "payment_id", record.ID)

	return nil
}

// QuoteShipping returns the filtered delivery options for a destination CEP.
func (s *Service) QuoteShipping(ctx context.Context, destinationCEP string) ([]domain.ShippingQuote, error) {
	quotes, err := s.rater.QuoteShipping(ctx, destinationCEP)
	if err != nil {
		metrics.ShippingQuotesFailed.Inc()
		slog.ErrorContext(ctx, "failed to quote shipping", "cep", destinationCEP, "error", err)
		return nil, asPaymentError(err, domain.ErrRateQuoteFailed, "failed to quote shipping", "RATE_ERROR")
	}

	metrics.ShippingQuotes.Inc()
	return quotes, nil
}

// buildNotice derives the approval notice from the fetched payment record.
func buildNotice(record *domain.PaymentRecord, collectCustomer bool) domain.ApprovalNotice {
	notice := domain.ApprovalNotice{
		Description:    record.Description,
		Amount:         record.Amount,
		ShippingMethod: record.ShippingMethod,
	}
	// Records created before customer collection was enabled carry no
	// metadata; an empty address block is worse than none.
	if collectCustomer && !record.Customer.IsEmpty() {
		cust := record.Customer
		notice.Customer = &cust
	}
	return notice
}

// validateOrder performs basic validation on the payment order.
func validateOrder(order domain.PaymentOrder) error {
	if order.Product == "" {
		return domain.NewPaymentError(domain.ErrInvalidPaymentOrder,
			"produto is required",
			"VALIDATION_ERROR")
	}
	if !order.Amount.IsPositive() {
		return domain.NewPaymentError(domain.ErrInvalidPaymentOrder,
			"valor must be greater than 0",
			"VALIDATION_ERROR")
	}
	return nil
}

// asPaymentError passes through errors the platform layer already classified
// and wraps everything else with the given sentinel.
func asPaymentError(err error, sentinel error, message, code string) error {
	var paymentErr *domain.PaymentError
	if errors.As(err, &paymentErr) {
		return err
	}
	return domain.NewPaymentError(sentinel, message, code)
}
