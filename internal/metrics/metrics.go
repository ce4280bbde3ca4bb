// Package metrics defines the service counters and the optional push setup.
package metrics

import (
	"io"
	"log/slog"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/lojapix/lojapix-payments/config"
)

var (
	PaymentsCreated = metrics.NewCounter(`payments_created_total`)
	PaymentsFailed  = metrics.NewCounter(`payments_failed_total`)

	WebhooksReceived = metrics.NewCounter(`webhooks_received_total`)
	WebhooksIgnored  = metrics.NewCounter(`webhooks_ignored_total`)
	WebhooksFailed   = metrics.NewCounter(`webhooks_failed_total`)

	NotificationsSent   = metrics.NewCounter(`notifications_sent_total`)
	NotificationsFailed = metrics.NewCounter(`notifications_failed_total`)

	ShippingQuotes       = metrics.NewCounter(`shipping_quotes_total`)
	ShippingQuotesFailed = metrics.NewCounter(`shipping_quotes_failed_total`)
)

// Setup starts pushing metrics to the configured endpoint. A missing URL
// leaves the service scrape-only via the /metrics endpoint.
func Setup(cfg config.ObservabilityConfig) {
	if cfg.MetricsURL == "" {
		return
	}

	interval := time.Duration(cfg.MetricsIntervalMs) * time.Millisecond
	if err := metrics.InitPush(cfg.MetricsURL, interval, cfg.CommonLabels, true); err != nil {
		slog.Error("failed to initialize metrics push", "error", err)
	}
}

// WritePrometheus renders all registered metrics in Prometheus text format.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
}
