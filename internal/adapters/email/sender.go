package email

import (
	"context"
	"time"
)

// SendRequest is one outbound message.
type SendRequest struct {
	To      []string // Recipient addresses
	From    string   // Overrides the sender's default from address when set
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult is the provider's acceptance of a message.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender delivers email through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
