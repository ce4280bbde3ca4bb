// Package api contains the HTTP handlers and routing for the payment service.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/lojapix/lojapix-payments/internal/domain"
	"github.com/lojapix/lojapix-payments/internal/metrics"
	"github.com/lojapix/lojapix-payments/internal/payment"
)

// Handler contains the HTTP handlers for the payment API.
type Handler struct {
	paymentService *payment.Service
}

// NewHandler creates a new API handler with the payment service.
func NewHandler(paymentService *payment.Service) *Handler {
	return &Handler{
		paymentService: paymentService,
	}
}

// CreatePaymentRequest represents the JSON body sent by the storefront.
// Valor arrives either as a JSON number or as a numeric string.
type CreatePaymentRequest struct {
	Produto     string          `json:"produto" binding:"required"`
	Valor       decimal.Decimal `json:"valor"`
	Envio       string          `json:"envio"`
	Nome        string          `json:"nome"`
	Celular     string          `json:"celular"`
	Cep         string          `json:"cep"`
	Rua         string          `json:"rua"`
	Numero      string          `json:"numero"`
	Complemento string          `json:"complemento"`
	Bairro      string          `json:"bairro"`
	Cidade      string          `json:"cidade"`
	Estado      string          `json:"estado"`
}

// ErrorResponse is the JSON error body returned to the storefront.
type ErrorResponse struct {
	Erro    string `json:"erro"`
	Detalhe string `json:"detalhe,omitempty"`
}

// CreatePayment handles POST /criar-pagamento
// Creates a PIX payment and returns the QR payload.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Erro:    "Dados do pedido inválidos",
			Detalhe: err.Error(),
		})
		return
	}

	order := domain.PaymentOrder{
		Product:        req.Produto,
		Amount:         req.Valor,
		ShippingMethod: req.Envio,
		Customer: domain.Customer{
			Name:         req.Nome,
			Phone:        req.Celular,
			PostalCode:   req.Cep,
			Street:       req.Rua,
			Number:       req.Numero,
			Complement:   req.Complemento,
			Neighborhood: req.Bairro,
			City:         req.Cidade,
			State:        req.Estado,
		},
	}

	charge, err := h.paymentService.CreatePayment(c.Request.Context(), order)
	if err != nil {
		handleServiceError(c, err, "Erro ao criar pagamento")
		return
	}

	c.JSON(http.StatusOK, charge)
}

// WebhookRequest represents the JSON body of Mercado Pago webhooks.
// Mercado Pago types data.id as a string in some deliveries and as a
// number in others; both shapes must be accepted.
type WebhookRequest struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID any `json:"id"`
	} `json:"data"`
	LiveMode    bool   `json:"live_mode"`
	DateCreated string `json:"date_created"`
}

// webhookDataID normalizes the data.id field to a string, whichever way
// the delivery typed it.
func webhookDataID(raw any) string {
	switch id := raw.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

// HandleWebhook handles POST /webhook
// Receives status notifications from Mercado Pago. Mercado Pago only reads
// the status code: 200 acknowledges the delivery, 500 asks for redelivery.
func (h *Handler) HandleWebhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Mercado Pago sends non-payment pings in varying shapes; those
		// must be acknowledged, not treated as errors.
		c.Status(http.StatusOK)
		return
	}

	notification := domain.WebhookNotification{
		ID:          req.ID,
		Type:        req.Type,
		Action:      req.Action,
		DataID:      webhookDataID(req.Data.ID),
		LiveMode:    req.LiveMode,
		DateCreated: req.DateCreated,
	}

	if err := h.paymentService.ProcessWebhook(c.Request.Context(), notification); err != nil {
		// Redelivery is the retry mechanism for a failed notification.
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}

// QuoteShippingRequest represents the JSON body for the shipping quote endpoint.
type QuoteShippingRequest struct {
	CepDestino string `json:"cepDestino" binding:"required"`
}

// QuoteShipping handles POST /calcular-frete
// Returns the rate entries for PAC and SEDEX, verbatim from the rate API.
func (h *Handler) QuoteShipping(c *gin.Context) {
	var req QuoteShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Erro: "cepDestino é obrigatório"})
		return
	}

	quotes, err := h.paymentService.QuoteShipping(c.Request.Context(), req.CepDestino)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Erro: "Erro ao calcular frete"})
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "lojapix-payments",
	})
}

// Metrics handles GET /metrics
func (h *Handler) Metrics(c *gin.Context) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	metrics.WritePrometheus(c.Writer)
}

// handleServiceError maps domain errors to HTTP responses at a single
// boundary. The gateway's own error body, when captured, is surfaced as the
// detalhe field so the storefront can display it.
func handleServiceError(c *gin.Context, err error, publicMessage string) {
	statusCode := http.StatusInternalServerError
	detail := err.Error()

	var paymentErr *domain.PaymentError
	if errors.As(err, &paymentErr) {
		if errors.Is(paymentErr.Err, domain.ErrInvalidPaymentOrder) {
			statusCode = http.StatusBadRequest
		}
		if paymentErr.Detail != "" {
			detail = paymentErr.Detail
		}
	}

	c.JSON(statusCode, ErrorResponse{
		Erro:    publicMessage,
		Detalhe: detail,
	})
}
