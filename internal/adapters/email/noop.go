package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoopSender logs sends without delivering them. Used when no Resend key is
// configured, and by tests that need to inspect what would have gone out.
type NoopSender struct {
	mu   sync.Mutex
	sent []SendRequest
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send records the email but does not deliver it.
// PRE: req is a valid SendRequest
// POST: Returns a noop result; req is appended to Sent()
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}
	s.mu.Lock()
	s.sent = append(s.sent, req)
	n := len(s.sent)
	s.mu.Unlock()

	slog.Info("noop_email_send", "recipients", len(req.To), "subject", req.Subject)
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d-%d", time.Now().UnixNano(), n),
		SentAt:    time.Now(),
	}, nil
}

// Sent returns a copy of every request accepted so far.
func (s *NoopSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SendRequest, len(s.sent))
	copy(out, s.sent)
	return out
}
