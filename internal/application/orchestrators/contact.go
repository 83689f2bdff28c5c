package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"elearning/internal/domain/contact"
)

// ContactSuccessMessage is shown after a message is accepted.
const ContactSuccessMessage = "Thank you! Your message has been sent successfully. We will get back to you soon."

// ContactStoreForSubmit stores contact messages.
type ContactStoreForSubmit interface {
	Create(ctx context.Context, m contact.Message) (int64, error)
}

// SubmitContactInput is the contact form.
type SubmitContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// SubmitContactDeps holds dependencies for SubmitContact.
type SubmitContactDeps struct {
	Contacts     ContactStoreForSubmit
	Outbox       OutboxQueue // optional
	SupportEmail string      // notification recipient; no notification when empty
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteSubmitContact stores a contact message and queues a notification to support.
// PRE: none; input is untrusted form data
// POST: the message is stored; the notification is best effort
func ExecuteSubmitContact(ctx context.Context, input SubmitContactInput, deps SubmitContactDeps) (int64, error) {
	m := contact.Message{
		SenderName:  input.Name,
		SenderEmail: input.Email,
		Subject:     input.Subject,
		Body:        input.Message,
		CreatedAt:   deps.Now(),
	}
	m.Normalize()
	if err := m.Validate(); err != nil {
		return 0, err
	}

	id, err := deps.Contacts.Create(ctx, m)
	if err != nil {
		return 0, classifyStoreError("store contact message", err)
	}
	slog.Info("contact_event", "event", "message_received", "message_id", id)

	if deps.Outbox != nil && deps.SupportEmail != "" {
		p := EmailPayload{
			To:      deps.SupportEmail,
			Subject: "Contact form: " + m.Subject,
			HTML:    contactNotificationHTML(m),
			ReplyTo: m.SenderEmail,
		}
		if _, err := QueueEmail(ctx, deps.Outbox, p, m.CreatedAt, deps.GenerateID); err != nil {
			slog.Error("contact_event", "event", "notification_not_queued", "message_id", id, "error", err.Error())
		}
	}
	return id, nil
}

func contactNotificationHTML(m contact.Message) string {
	body := strings.ReplaceAll(html.EscapeString(m.Body), "\n", "<br>")
	return fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt; wrote:</p><p>%s</p>",
		html.EscapeString(m.SenderName), html.EscapeString(m.SenderEmail), body)
}
