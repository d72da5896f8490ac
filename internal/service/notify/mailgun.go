package notify

import (
	"context"
	"fmt"

	mg "github.com/mailgun/mailgun-go/v4"
)

// MailgunSender delivers emails through Mailgun HTTP API
type MailgunSender struct {
	client *mg.MailgunImpl
	from   string
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{client: mg.NewMailgun(domain, apiKey), from: from}
}

// Override API base, e.g. https://api.eu.mailgun.net/v3 for EU domains
func (s *MailgunSender) SetAPIBase(url string) {
	s.client.SetAPIBase(url)
}

func (s *MailgunSender) Send(ctx context.Context, email Email) error {
	msg := s.client.NewMessage(s.from, email.Subject, email.Text, email.To)
	if email.HTML != "" {
		msg.SetHtml(email.HTML)
	}

	_, _, err := s.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("mailgun send failed. Err: %w", err)
	}
	return nil
}
