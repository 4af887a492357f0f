package email

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecipients is returned when a request has no To address.
var ErrNoRecipients = errors.New("email requires at least one recipient")

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string
	From    string // overrides the sender default, e.g. "Grow Fitness <noreply@growfitness.lk>"
	Subject string
	HTML    string
	Text    string // plain-text alternative
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // provider message ID
	SentAt    time.Time // when the provider accepted the send
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

func (r SendRequest) validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	return nil
}

func (r SendRequest) fromOr(def string) string {
	if r.From != "" {
		return r.From
	}
	return def
}
