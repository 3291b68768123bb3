package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	client mg.Mailgun
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), Sender: sender}
}

// Send sends an email via Mailgun. html is optional.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}

// Deliver renders job and hands it to s. Jobs that cannot be rendered fail
// with ErrUndeliverable; anything else is a transport error.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	subject, text, html, err := job.Compose()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUndeliverable, err)
	}
	return s.Send(ctx, job.To, subject, text, html)
}
