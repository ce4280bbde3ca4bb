package mailer

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/lojapix/lojapix-payments/config"
	"github.com/lojapix/lojapix-payments/internal/domain"
)

// SMTPNotifier sends approval notices through an authenticated mail relay.
// It implements domain.ApprovalNotifier.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPNotifier creates a relay-backed notifier. The message is sent from
// and to the relay account's own address, matching how the store operates a
// single mailbox for order notifications.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.SSL

	return &SMTPNotifier{
		dialer: dialer,
		from:   cfg.Username,
	}
}

// SendApprovalNotice delivers one approval e-mail to the fixed recipient.
// The relay dial has no context hook; cancellation is checked up front so an
// already-abandoned webhook delivery does not open a connection.
func (n *SMTPNotifier) SendApprovalNotice(ctx context.Context, notice domain.ApprovalNotice) error {
	if err := ctx.Err(); err != nil {
		return domain.NewPaymentError(domain.ErrNotificationFailed, "request cancelled before send", "NOTIFY_CANCELLED")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", Recipient)
	msg.SetHeader("Subject", Subject(notice))
	msg.SetBody("text/plain", Body(notice))

	if err := n.dialer.DialAndSend(msg); err != nil {
		return domain.NewPaymentError(domain.ErrNotificationFailed,
			"failed to send e-mail via SMTP relay",
			"NOTIFY_SMTP_ERROR").WithDetail(err.Error())
	}

	return nil
}
