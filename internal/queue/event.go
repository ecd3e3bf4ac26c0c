// Package queue moves outbound mail through a durable RabbitMQ queue so
// that request handlers only pay for a publish, not for the mail API.
package queue

import (
	"time"

	"github.com/iliyamo/auth-service/internal/mail"
)

// DefaultMailQueue is the durable queue carrying MailRequestedEvents.
const DefaultMailQueue = "auth.mail"

// MailRequestedEvent is published whenever a service asks for an email.
// It carries the fully rendered message so the consumer needs no access
// to the user store.
type MailRequestedEvent struct {
	ID          string    `json:"id"`
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Tag         string    `json:"tag,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

func (e MailRequestedEvent) Message() mail.Message {
	return mail.Message{To: e.To, Subject: e.Subject, Body: e.Body, Tag: e.Tag}
}
