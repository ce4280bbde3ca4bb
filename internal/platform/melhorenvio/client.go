// Package melhorenvio implements the domain.ShippingRater port against the
// Melhor Envio rate API.
package melhorenvio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lojapix/lojapix-payments/internal/domain"
)

const (
	calculateURL = "https://melhorenvio.com.br/api/v2/me/shipment/calculate"

	// Origin CEP of the store's dispatch point.
	originCEP = "76913430"
)

// Client implements domain.ShippingRater.
type Client struct {
	token      string
	httpClient *http.Client
}

// NewClient creates a Melhor Envio client with the given API token.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// calculateRequest mirrors the shipment/calculate body. The package is a
// fixed box matching the store's single product format.
type calculateRequest struct {
	From     postalCode `json:"from"`
	To       postalCode `json:"to"`
	Products []product  `json:"products"`
}

type postalCode struct {
	PostalCode string `json:"postal_code"`
}

type product struct {
	ID             string  `json:"id"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Length         int     `json:"length"`
	Weight         float64 `json:"weight"`
	InsuranceValue float64 `json:"insurance_value"`
	Quantity       int     `json:"quantity"`
}

// QuoteShipping quotes delivery options to the destination CEP and filters
// the result to PAC (service 1) and SEDEX (service 2). The API sometimes
// types the service id as a number and sometimes as a string; both are
// accepted. Entries are returned verbatim, preserving the API's ordering.
func (c *Client) QuoteShipping(ctx context.Context, destinationCEP string) ([]domain.ShippingQuote, error) {
	payload := calculateRequest{
		From: postalCode{PostalCode: originCEP},
		To:   postalCode{PostalCode: destinationCEP},
		Products: []product{
			{ID: "produto", Width: 15, Height: 15, Length: 15, Weight: 0.5, InsuranceValue: 50, Quantity: 1},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrRateQuoteFailed, "failed to encode quote request", "RATE_ENCODE_ERROR")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, calculateURL, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrRateQuoteFailed, "failed to create quote request", "RATE_REQUEST_ERROR")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrRateQuoteFailed, "quote request failed", "RATE_UNREACHABLE")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(resp.Body)
		return nil, domain.NewPaymentError(domain.ErrRateQuoteFailed,
			fmt.Sprintf("rate API returned status %d", resp.StatusCode),
			"RATE_API_ERROR").WithDetail(string(detail))
	}

	var entries []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, domain.NewPaymentError(domain.ErrRateQuoteFailed, "failed to decode rate response", "RATE_DECODE_ERROR")
	}

	quotes := make([]domain.ShippingQuote, 0, len(entries))
	for _, entry := range entries {
		if isWantedService(entry) {
			quotes = append(quotes, domain.ShippingQuote(entry))
		}
	}

	return quotes, nil
}

// isWantedService reports whether the rate entry belongs to carrier service
// 1 (PAC) or 2 (SEDEX), whichever way the API typed the id.
func isWantedService(entry json.RawMessage) bool {
	var head struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(entry, &head); err != nil {
		return false
	}

	switch id := head.ID.(type) {
	case float64:
		return id == 1 || id == 2
	case string:
		return id == "1" || id == "2"
	}
	return false
}
