package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, MailDriverResend, cfg.Mail.Driver)
	assert.Equal(t, 587, cfg.Mail.SMTP.Port)
	assert.True(t, cfg.CollectCustomerData)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("MP_TOKEN", "tok-123")
	t.Setenv("MAIL_DRIVER", "smtp")
	t.Setenv("COLLECT_CUSTOMER_DATA", "false")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "tok-123", cfg.MercadoPago.AccessToken)
	assert.Equal(t, MailDriverSMTP, cfg.Mail.Driver)
	assert.False(t, cfg.CollectCustomerData)
}

func TestSMTPServiceShortcut(t *testing.T) {
	t.Setenv("SMTP_SERVICE", "gmail")
	t.Setenv("SMTP_HOST", "ignored.example.com")

	cfg := Load()

	assert.Equal(t, "smtp.gmail.com", cfg.Mail.SMTP.Host)
	assert.Equal(t, 465, cfg.Mail.SMTP.Port)
	assert.True(t, cfg.Mail.SMTP.SSL)
}

func TestInvalidNumericEnvFallsBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("COLLECT_CUSTOMER_DATA", "maybe")

	cfg := Load()

	assert.Equal(t, 587, cfg.Mail.SMTP.Port)
	assert.True(t, cfg.CollectCustomerData)
}
