// Package api contains the HTTP handlers and routing for the payment service.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lojapix/lojapix-payments/internal/logging"
	"github.com/lojapix/lojapix-payments/internal/platform/mercadopago"
)

// CORSMiddleware handles Cross-Origin Resource Sharing. The storefront is a
// static site served from another origin, so all origins are allowed.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware adds a unique request ID to each request and attaches
// it to the request context so every log line carries it.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		ctx := logging.WithAttrs(c.Request.Context(), slog.String("request_id", requestID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// WebhookSignatureMiddleware validates Mercado Pago webhook signatures.
// Validation only runs when a webhook secret is configured; without one the
// delivery is accepted as-is (development mode).
//
// Mercado Pago sends x-signature (ts=...,v1=...), x-request-id, and the
// payment id as the data.id query parameter.
func WebhookSignatureMiddleware(validator *mercadopago.WebhookValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !validator.Enabled() {
			c.Next()
			return
		}

		xSignature := c.GetHeader("x-signature")
		xRequestID := c.GetHeader("x-request-id")
		dataID := c.Query("data.id")

		if !validator.ValidateSignature(xSignature, xRequestID, dataID) {
			slog.WarnContext(c.Request.Context(), "rejected webhook with invalid signature")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
