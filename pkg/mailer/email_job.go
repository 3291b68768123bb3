package mailer

import (
	"errors"
	"fmt"

	"github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

var (
	ErrNoRecipient   = errors.New("mailer: job has no recipient")
	ErrUndeliverable = errors.New("mailer: undeliverable job")
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // welcome, login_notification, password_changed
	Data     map[string]any `json:"data,omitempty"`
}

// EnsureRecipient fills Data["Email"] from To when absent.
func (j *EmailJob) EnsureRecipient() {
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	if v, ok := j.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		j.Data["Email"] = j.To
	}
}

// Compose returns the message to send, rendering Template when set.
func (j EmailJob) Compose() (subject, text, html string, err error) {
	if j.To == "" {
		return "", "", "", ErrNoRecipient
	}
	if j.Template == "" {
		return j.Subject, j.Text, j.HTML, nil
	}
	j.EnsureRecipient()
	return templates.Render(j.Template, j.Data)
}
