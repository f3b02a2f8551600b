package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
)

// Email sends alerts through the Resend API.
type Email struct {
	client *resend.Client
	from   string
	to     []string
}

// NewEmail returns nil unless apiKey, from and at least one recipient are set.
func NewEmail(apiKey, from string, to []string) *Email {
	if apiKey == "" || from == "" || len(to) == 0 {
		return nil
	}
	return &Email{client: resend.NewClient(apiKey), from: from, to: to}
}

func (e *Email) Send(ctx context.Context, title, text string) error {
	params := &resend.SendEmailRequest{
		From:    e.from,
		To:      e.to,
		Subject: title,
		Html:    "<pre>" + html.EscapeString(strings.TrimSpace(text)) + "</pre>",
		Text:    text,
	}
	if _, err := e.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
