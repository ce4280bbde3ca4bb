package mailer

import (
	"context"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojapix/lojapix-payments/internal/domain"
)

func TestResendSendApprovalNotice(t *testing.T) {
	t.Run("posts the notice to the fixed recipient", func(t *testing.T) {
		defer gock.Off()
		gock.New("https://api.resend.com").
			Post("/emails").
			MatchHeader("Authorization", "Bearer test-key").
			JSON(map[string]string{
				"from":    "Notificação Loja <onboarding@resend.dev>",
				"to":      Recipient,
				"subject": Subject(sampleNotice(true)),
				"text":    Body(sampleNotice(true)),
			}).
			Reply(200).
			JSON(map[string]string{"id": "e-123"})

		err := NewResendNotifier("test-key").SendApprovalNotice(context.Background(), sampleNotice(true))

		require.NoError(t, err)
		assert.True(t, gock.IsDone())
	})

	t.Run("non-2xx fails with the notification error", func(t *testing.T) {
		defer gock.Off()
		gock.New("https://api.resend.com").
			Post("/emails").
			Reply(422).
			BodyString(`{"message":"Invalid from address"}`)

		err := NewResendNotifier("test-key").SendApprovalNotice(context.Background(), sampleNotice(false))

		assert.ErrorIs(t, err, domain.ErrNotificationFailed)
		var paymentErr *domain.PaymentError
		require.ErrorAs(t, err, &paymentErr)
		assert.Contains(t, paymentErr.Detail, "Invalid from address")
	})
}
