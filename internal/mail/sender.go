// Package mail renders verification and recovery messages and hands them
// to a Sender: Postmark in production, files on disk in development, or
// the RabbitMQ publisher when delivery is queued.
package mail

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
)

var (
	ErrFailedToSend   = errors.New("mail: failed to send")
	ErrInvalidConfig  = errors.New("mail: invalid config")
	ErrInvalidMessage = errors.New("mail: invalid message")
)

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a rendered email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Tag     string `json:"tag,omitempty"`
}

// Validate checks the fields every sender needs.
func (m Message) Validate() error {
	if m.To == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if _, err := netmail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: recipient %q is not an email address", ErrInvalidMessage, m.To)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	return nil
}
