package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojapix/lojapix-payments/internal/api"
	"github.com/lojapix/lojapix-payments/internal/domain"
	"github.com/lojapix/lojapix-payments/internal/payment"
	"github.com/lojapix/lojapix-payments/internal/platform/mercadopago"
)

type fakeGateway struct {
	getCalls  int
	lastID    string
	createErr error
	getErr    error
	charge    *domain.PixCharge
	record    *domain.PaymentRecord
}

func (f *fakeGateway) CreatePayment(_ context.Context, _ domain.PaymentOrder) (*domain.PixCharge, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.charge, nil
}

func (f *fakeGateway) GetPayment(_ context.Context, paymentID string) (*domain.PaymentRecord, error) {
	f.getCalls++
	f.lastID = paymentID
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.record, nil
}

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) SendApprovalNotice(_ context.Context, _ domain.ApprovalNotice) error {
	f.calls++
	return f.err
}

type fakeRater struct {
	quotes []domain.ShippingQuote
	err    error
}

func (f *fakeRater) QuoteShipping(_ context.Context, _ string) ([]domain.ShippingQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func newTestRouter(gateway *fakeGateway, notifier *fakeNotifier, rater *fakeRater, webhookSecret string) *gin.Engine {
	svc := payment.NewService(gateway, notifier, rater, true)
	handler := api.NewHandler(svc)
	validator := mercadopago.NewWebhookValidator(webhookSecret)
	return api.SetupRouter(handler, validator, gin.TestMode)
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreatePaymentEndpoint(t *testing.T) {
	t.Run("returns the QR payload", func(t *testing.T) {
		gateway := &fakeGateway{charge: &domain.PixCharge{QRCode: "pix-payload", QRCodeBase64: "cGl4"}}
		router := newTestRouter(gateway, &fakeNotifier{}, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/criar-pagamento", `{"produto":"Kit Vitamina C","valor":49.9}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"qr_code":"pix-payload","qr_code_base64":"cGl4"}`, rec.Body.String())
	})

	t.Run("accepts the amount as a numeric string", func(t *testing.T) {
		gateway := &fakeGateway{charge: &domain.PixCharge{QRCode: "pix-payload"}}
		router := newTestRouter(gateway, &fakeNotifier{}, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/criar-pagamento", `{"produto":"Kit","valor":"49.90"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing product is a 400", func(t *testing.T) {
		router := newTestRouter(&fakeGateway{}, &fakeNotifier{}, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/criar-pagamento", `{"valor":49.9}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "erro")
	})

	t.Run("gateway failure is a 500 with the gateway detail", func(t *testing.T) {
		gateway := &fakeGateway{createErr: domain.NewPaymentError(domain.ErrGateway,
			"gateway returned status 400", "GATEWAY_ERROR").WithDetail(`{"message":"invalid token"}`)}
		router := newTestRouter(gateway, &fakeNotifier{}, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/criar-pagamento", `{"produto":"Kit","valor":49.9}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Erro ao criar pagamento")
		assert.Contains(t, rec.Body.String(), "invalid token")
	})
}

func TestWebhookEndpoint(t *testing.T) {
	approved := &domain.PaymentRecord{ID: "123", Status: "approved", Description: "Kit", Amount: 49.9}

	t.Run("payload without data.id is acknowledged without a fetch", func(t *testing.T) {
		gateway := &fakeGateway{}
		notifier := &fakeNotifier{}
		router := newTestRouter(gateway, notifier, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/webhook", `{}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, gateway.getCalls)
		assert.Zero(t, notifier.calls)
	})

	t.Run("approved payment triggers one notification", func(t *testing.T) {
		gateway := &fakeGateway{record: approved}
		notifier := &fakeNotifier{}
		router := newTestRouter(gateway, notifier, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/webhook", `{"type":"payment","data":{"id":"123"}}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, gateway.getCalls)
		assert.Equal(t, 1, notifier.calls)
	})

	t.Run("numeric data.id is fetched and notified like a string id", func(t *testing.T) {
		gateway := &fakeGateway{record: approved}
		notifier := &fakeNotifier{}
		router := newTestRouter(gateway, notifier, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/webhook", `{"type":"payment","data":{"id":123}}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, gateway.getCalls)
		assert.Equal(t, "123", gateway.lastID)
		assert.Equal(t, 1, notifier.calls)
	})

	t.Run("pending payment is acknowledged without a notification", func(t *testing.T) {
		gateway := &fakeGateway{record: &domain.PaymentRecord{ID: "123", Status: "pending"}}
		notifier := &fakeNotifier{}
		router := newTestRouter(gateway, notifier, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/webhook", `{"data":{"id":"123"}}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, notifier.calls)
	})

	t.Run("failed notification is a 500 so the gateway redelivers", func(t *testing.T) {
		gateway := &fakeGateway{record: approved}
		notifier := &fakeNotifier{err: domain.NewPaymentError(domain.ErrNotificationFailed, "relay down", "NOTIFY_SMTP_ERROR")}
		router := newTestRouter(gateway, notifier, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/webhook", `{"data":{"id":"123"}}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, 1, notifier.calls)
	})

	t.Run("failed status fetch is a 500", func(t *testing.T) {
		gateway := &fakeGateway{getErr: domain.NewPaymentError(domain.ErrGateway, "fetch failed", "GATEWAY_FETCH_ERROR")}
		router := newTestRouter(gateway, &fakeNotifier{}, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/webhook", `{"data":{"id":"123"}}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("unsigned delivery is rejected when a secret is configured", func(t *testing.T) {
		gateway := &fakeGateway{record: approved}
		notifier := &fakeNotifier{}
		router := newTestRouter(gateway, notifier, &fakeRater{}, "super-secret")

		rec := doJSON(router, http.MethodPost, "/webhook", `{"data":{"id":"123"}}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, gateway.getCalls)
	})
}

func TestQuoteShippingEndpoint(t *testing.T) {
	t.Run("returns the filtered quotes verbatim", func(t *testing.T) {
		rater := &fakeRater{quotes: []domain.ShippingQuote{
			domain.ShippingQuote(`{"id":1,"name":"PAC","price":"22.50"}`),
			domain.ShippingQuote(`{"id":"2","name":"SEDEX","price":"36.00"}`),
		}}
		router := newTestRouter(&fakeGateway{}, &fakeNotifier{}, rater, "")

		rec := doJSON(router, http.MethodPost, "/calcular-frete", `{"cepDestino":"01001000"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"id":1,"name":"PAC","price":"22.50"},{"id":"2","name":"SEDEX","price":"36.00"}]`, rec.Body.String())
	})

	t.Run("missing destination is a 400", func(t *testing.T) {
		router := newTestRouter(&fakeGateway{}, &fakeNotifier{}, &fakeRater{}, "")

		rec := doJSON(router, http.MethodPost, "/calcular-frete", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rate API failure is a 500", func(t *testing.T) {
		rater := &fakeRater{err: domain.NewPaymentError(domain.ErrRateQuoteFailed, "rate API returned status 401", "RATE_API_ERROR")}
		router := newTestRouter(&fakeGateway{}, &fakeNotifier{}, rater, "")

		rec := doJSON(router, http.MethodPost, "/calcular-frete", `{"cepDestino":"01001000"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"erro":"Erro ao calcular frete"}`, rec.Body.String())
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeGateway{}, &fakeNotifier{}, &fakeRater{}, "")

	rec := doJSON(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lojapix-payments")
}
