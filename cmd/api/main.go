// LojaPix Payments Backend
//
// This is the main entry point for the storefront payment service.
// It wires up all dependencies and starts the HTTP server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lojapix/lojapix-payments/config"
	"github.com/lojapix/lojapix-payments/internal/api"
	"github.com/lojapix/lojapix-payments/internal/domain"
	"github.com/lojapix/lojapix-payments/internal/logging"
	"github.com/lojapix/lojapix-payments/internal/metrics"
	"github.com/lojapix/lojapix-payments/internal/payment"
	"github.com/lojapix/lojapix-payments/internal/platform/mailer"
	"github.com/lojapix/lojapix-payments/internal/platform/melhorenvio"
	"github.com/lojapix/lojapix-payments/internal/platform/mercadopago"
)

func main() {
	// .env is optional; deployments set real environment variables.
	_ = godotenv.Load()

	cfg := config.Load()

	slog.SetDefault(logging.GetLogger(cfg.Observability))
	metrics.Setup(cfg.Observability)

	slog.Info("starting lojapix-payments", "port", cfg.Server.Port, "mail_driver", cfg.Mail.Driver)

	if err := validateConfig(cfg); err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// Wire up dependencies (manual dependency injection)
	gateway, err := mercadopago.NewClient(cfg.MercadoPago.AccessToken, cfg.MercadoPago.NotificationURL, cfg.CollectCustomerData)
	if err != nil {
		slog.Error("failed to create gateway client", "error", err)
		os.Exit(1)
	}

	notifier := buildNotifier(cfg.Mail)
	rater := melhorenvio.NewClient(cfg.Shipping.Token)

	paymentService := payment.NewService(gateway, notifier, rater, cfg.CollectCustomerData)

	validator := mercadopago.NewWebhookValidator(cfg.MercadoPago.WebhookSecret)
	handler := api.NewHandler(paymentService)
	router := api.SetupRouter(handler, validator, cfg.Server.GinMode)

	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	go func() {
		slog.Info("server listening", "addr", serverAddr)
		if err := router.Run(serverAddr); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
}

// buildNotifier selects the approval-notice delivery strategy from
// configuration. This is a deployment decision, not a runtime one.
func buildNotifier(cfg config.MailConfig) domain.ApprovalNotifier {
	switch cfg.Driver {
	case config.MailDriverSMTP:
		return mailer.NewSMTPNotifier(cfg.SMTP)
	default:
		return mailer.NewResendNotifier(cfg.ResendAPIKey)
	}
}

// validateConfig checks that required configuration values are set.
func validateConfig(cfg *config.Config) error {
	if cfg.MercadoPago.AccessToken == "" {
		return fmt.Errorf("MP_TOKEN is required")
	}
	if cfg.MercadoPago.NotificationURL == "" {
		return fmt.Errorf("MP_NOTIFICATION_URL is required")
	}
	switch cfg.Mail.Driver {
	case config.MailDriverResend:
		if cfg.Mail.ResendAPIKey == "" {
			slog.Warn("RESEND_API_KEY not set, approval notices will fail")
		}
	case config.MailDriverSMTP:
		if cfg.Mail.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST (or SMTP_SERVICE) is required for the smtp mail driver")
		}
	default:
		return fmt.Errorf("unknown MAIL_DRIVER %q", cfg.Mail.Driver)
	}
	if cfg.Shipping.Token == "" {
		slog.Warn("MELHOR_ENVIO_TOKEN not set, shipping quotes will fail")
	}
	return nil
}
