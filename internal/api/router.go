// Package api contains the HTTP handlers and routing for the payment service.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lojapix/lojapix-payments/internal/platform/mercadopago"
)

// SetupRouter configures the Gin router with all routes and middleware.
// Route names match what the storefront already calls.
func SetupRouter(handler *Handler, validator *mercadopago.WebhookValidator, ginMode string) *gin.Engine {
	gin.SetMode(ginMode)

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(RequestIDMiddleware())

	router.GET("/health", handler.Health)
	router.GET("/metrics", handler.Metrics)

	router.POST("/criar-pagamento", handler.CreatePayment)
	router.POST("/calcular-frete", handler.QuoteShipping)

	// Called by Mercado Pago; protected by signature validation when a
	// webhook secret is configured.
	router.POST("/webhook", WebhookSignatureMiddleware(validator), handler.HandleWebhook)

	return router
}
