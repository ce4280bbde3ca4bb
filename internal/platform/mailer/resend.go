package mailer

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
	resendURL = "https://api.resend.com/emails"

	// Resend requires a verified sender; the onboarding identity is used
	// until the store's own domain is verified there.
	resendSender = "Notificação Loja <onboarding@resend.dev>"
)

// ResendNotifier sends approval notices through the Resend transactional
// e-mail API. It implements domain.ApprovalNotifier.
type ResendNotifier struct {
	apiKey     string
	httpClient *http.Client
}

// NewResendNotifier creates a Resend-backed notifier.
func NewResendNotifier(apiKey string) *ResendNotifier {
	return &ResendNotifier{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// sendEmailRequest mirrors the POST /emails body.
type sendEmailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// SendApprovalNotice delivers one approval e-mail to the fixed recipient.
func (n *ResendNotifier) SendApprovalNotice(ctx context.Context, notice domain.ApprovalNotice) error {
	payload := sendEmailRequest{
		From:    resendSender,
		To:      Recipient,
		Subject: Subject(notice),
		Text:    Body(notice),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.NewPaymentError(domain.ErrNotificationFailed, "failed to encode e-mail request", "NOTIFY_ENCODE_ERROR")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendURL, bytes.NewReader(body))
	if err != nil {
		return domain.NewPaymentError(domain.ErrNotificationFailed, "failed to create e-mail request", "NOTIFY_REQUEST_ERROR")
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return domain.NewPaymentError(domain.ErrNotificationFailed, "e-mail request failed", "NOTIFY_UNREACHABLE")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(resp.Body)
		return domain.NewPaymentError(domain.ErrNotificationFailed,
			fmt.Sprintf("e-mail API returned status %d", resp.StatusCode),
			"NOTIFY_API_ERROR").WithDetail(string(detail))
	}

	return nil
}
