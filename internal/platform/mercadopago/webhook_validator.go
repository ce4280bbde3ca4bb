// Package mercadopago provides Mercado Pago webhook signature validation.
package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// WebhookValidator validates Mercado Pago webhook signatures.
//
// Mercado Pago signs each delivery with HMAC-SHA256 over the manifest
// "id:<data.id>;request-id:<x-request-id>;ts:<timestamp>;" and sends the
// result in the x-signature header as "ts=<timestamp>,v1=<signature>".
type WebhookValidator struct {
	secret string
}

// NewWebhookValidator creates a validator for the given webhook secret.
func NewWebhookValidator(secret string) *WebhookValidator {
	return &WebhookValidator{secret: secret}
}

// Enabled reports whether a secret is configured. Without one, signature
// validation is skipped entirely (development mode).
func (v *WebhookValidator) Enabled() bool {
	return v.secret != ""
}

// ValidateSignature checks the x-signature header of a webhook delivery.
func (v *WebhookValidator) ValidateSignature(xSignature, xRequestID, dataID string) bool {
	if xSignature == "" || v.secret == "" {
		return false
	}

	ts, hash := parseSignatureHeader(xSignature)
	if ts == "" || hash == "" {
		return false
	}

	manifest := buildManifest(dataID, xRequestID, ts)

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(hash), []byte(expected))
}

// parseSignatureHeader extracts ts and v1 values from the x-signature header.
func parseSignatureHeader(header string) (ts, hash string) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			hash = value
		}
	}
	return ts, hash
}

// buildManifest constructs the string Mercado Pago signed. Empty components
// are omitted from the manifest.
func buildManifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		b.WriteString("id:" + dataID + ";")
	}
	if requestID != "" {
		b.WriteString("request-id:" + requestID + ";")
	}
	if ts != "" {
		b.WriteString("ts:" + ts + ";")
	}
	return b.String()
}
