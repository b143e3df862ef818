// Package notify delivers availability alerts. Implementations satisfy
// watch.Notifier.
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Config holds SMTP delivery settings.
type Config struct {
	Host      string
	Port      int
	Sender    string
	Password  string
	Recipient string
}

// MailNotifier sends alerts as plain-text email over SMTPS.
type MailNotifier struct {
	client *mail.Client
	cfg    Config
}

// NewMailNotifier builds an SMTPS notifier. Gmail requires an app password
// when the account has two-factor auth enabled.
func NewMailNotifier(cfg Config) (*MailNotifier, error) {
	if cfg.Sender == "" || cfg.Password == "" || cfg.Recipient == "" {
		return nil, fmt.Errorf("mail notifier requires sender, password, and recipient")
	}
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Sender),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &MailNotifier{client: client, cfg: cfg}, nil
}

// Notify sends one email covering the whole delta. Delivery is a single
// attempt; the caller decides what a failure means.
func (n *MailNotifier) Notify(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.Sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(n.cfg.Recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
