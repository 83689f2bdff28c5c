package contact

import (
	"strings"
	"time"

	"elearning/internal/domain/apperr"
)

var messages = apperr.Messages{
	"required": "All fields are required.",
	"email":    "Invalid email format.",
	"max":      "Your message is too long.",
}

// Message is a note sent through the public contact form.
type Message struct {
	ID          int64
	SenderName  string `form:"sender_name" validate:"required,max=255"`
	SenderEmail string `form:"sender_email" validate:"required,email,max=254"`
	Subject     string `form:"subject" validate:"required,max=255"`
	Body        string `form:"message" validate:"required,max=5000"`
	CreatedAt   time.Time
}

// Normalize trims surrounding whitespace.
func (m *Message) Normalize() {
	m.SenderName = strings.TrimSpace(m.SenderName)
	m.SenderEmail = strings.TrimSpace(m.SenderEmail)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Body = strings.TrimSpace(m.Body)
}

// Validate checks that every field is present and the email is well formed.
// PRE: Normalize has been called
// POST: Returns nil if valid, *apperr.ValidationError otherwise
func (m *Message) Validate() error {
	return apperr.CheckStruct(m, messages)
}
