// Package config handles loading and managing application configuration.
package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Mercado Pago gateway configuration
	MercadoPago MercadoPagoConfig

	// Approval e-mail configuration
	Mail MailConfig

	// Melhor Envio shipping-rate configuration
	Shipping ShippingConfig

	// Logging and metrics
	Observability ObservabilityConfig

	// CollectCustomerData toggles whether customer/address fields are
	// forwarded to the gateway as payment metadata and echoed back in
	// approval notices.
	CollectCustomerData bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port    string
	GinMode string // "debug", "release", or "test"
}

// MercadoPagoConfig holds the gateway credentials and callback settings.
type MercadoPagoConfig struct {
	AccessToken     string
	NotificationURL string // URL Mercado Pago will call back on status changes
	WebhookSecret   string // empty disables signature validation
}

// MailDriver selects the approval-notice delivery mechanism.
const (
	MailDriverResend = "resend"
	MailDriverSMTP   = "smtp"
)

// MailConfig holds the notification dispatcher configuration.
type MailConfig struct {
	Driver       string // "resend" or "smtp"
	ResendAPIKey string
	SMTP         SMTPConfig
}

// SMTPConfig holds mail-relay settings for the SMTP strategy.
// Service is a provider shortcut ("gmail") that overrides Host/Port/SSL.
type SMTPConfig struct {
	Service  string
	Host     string
	Port     int
	SSL      bool
	Username string
	Password string
}

// ShippingConfig holds the Melhor Envio API credentials.
type ShippingConfig struct {
	Token string
}

// ObservabilityConfig holds logging and metrics-push settings.
type ObservabilityConfig struct {
	LokiURL           string
	MetricsURL        string
	MetricsIntervalMs int
	CommonLabels      string
}

// Load reads configuration from environment variables.
// Returns a Config struct with all settings populated.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "3000"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		MercadoPago: MercadoPagoConfig{
			AccessToken:     getEnv("MP_TOKEN", ""),
			NotificationURL: getEnv("MP_NOTIFICATION_URL", ""),
			WebhookSecret:   getEnv("MP_WEBHOOK_SECRET", ""),
		},
		Mail: MailConfig{
			Driver:       getEnv("MAIL_DRIVER", MailDriverResend),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			SMTP: smtpConfig(SMTPConfig{
				Service:  getEnv("SMTP_SERVICE", ""),
				Host:     getEnv("SMTP_HOST", ""),
				Port:     getEnvInt("SMTP_PORT", 587),
				SSL:      getEnvBool("SMTP_SSL", false),
				Username: getEnv("SMTP_USER", ""),
				Password: getEnv("SMTP_PASS", ""),
			}),
		},
		Shipping: ShippingConfig{
			Token: getEnv("MELHOR_ENVIO_TOKEN", ""),
		},
		Observability: ObservabilityConfig{
			LokiURL:           getEnv("LOKI_URL", ""),
			MetricsURL:        getEnv("METRICS_URL", ""),
			MetricsIntervalMs: getEnvInt("METRICS_INTERVAL_MS", 10000),
			CommonLabels:      getEnv("METRICS_COMMON_LABELS", ""),
		},
		CollectCustomerData: getEnvBool("COLLECT_CUSTOMER_DATA", true),
	}
}

// smtpConfig resolves provider shortcuts into concrete relay settings.
func smtpConfig(cfg SMTPConfig) SMTPConfig {
	switch cfg.Service {
	case "gmail":
		cfg.Host = "smtp.gmail.com"
		cfg.Port = 465
		cfg.SSL = true
	}
	return cfg
}

// getEnv retrieves an environment variable with a fallback default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer with a fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as a boolean with a fallback.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
