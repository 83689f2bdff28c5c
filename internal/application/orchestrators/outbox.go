package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"elearning/internal/adapters/email"
	outboxStore "elearning/internal/adapters/storage/outbox"
	domain "elearning/internal/domain/outbox"
)

// OutboxQueue is the store surface needed to enqueue an action.
type OutboxQueue interface {
	Save(ctx context.Context, e domain.Entry) error
}

// EmailPayload is the JSON body of an email outbox entry.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	ReplyTo string `json:"reply_to,omitempty"`
}

// QueueEmail stores an email for background delivery.
// PRE: p.To and p.Subject are non-empty
// POST: a pending email entry exists with id from genID
func QueueEmail(ctx context.Context, queue OutboxQueue, p EmailPayload, now time.Time, genID func() string) (string, error) {
	if p.To == "" || p.Subject == "" {
		return "", errors.New("email needs a recipient and a subject")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal email payload: %w", err)
	}
	entry := domain.Entry{
		ID:         genID(),
		ActionType: domain.ActionTypeEmail,
		Payload:    string(body),
		CreatedAt:  now,
	}
	if err := entry.Validate(); err != nil {
		return "", err
	}
	if err := queue.Save(ctx, entry); err != nil {
		return "", fmt.Errorf("queue email: %w", err)
	}
	return entry.ID, nil
}

// OutboxProcessor replays pending outbox entries with exponential backoff.
type OutboxProcessor struct {
	store     outboxStore.Store
	executors map[string]ActionExecutor
	now       func() time.Time
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// ActionExecutor performs one kind of external action.
type ActionExecutor interface {
	// Execute runs the action described by payload and returns the provider's id for it.
	Execute(ctx context.Context, payload string) (string, error)
}

// NewOutboxProcessor creates a processor. A nil now uses time.Now.
func NewOutboxProcessor(store outboxStore.Store, executors map[string]ActionExecutor, now func() time.Time) *OutboxProcessor {
	if now == nil {
		now = time.Now
	}
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		now:       now,
		baseDelay: 30 * time.Second,
		maxDelay:  1 * time.Hour,
		batchSize: 10,
	}
}

// ProcessPending attempts every due entry in one batch.
// PRE: Context is valid
// POST: Attempted entries are saved as done, retrying or failed
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("list pending outbox entries: %w", err)
	}

	for _, entry := range entries {
		if err := p.processEntry(ctx, entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err.Error())
		}
	}
	return nil
}

func (p *OutboxProcessor) processEntry(ctx context.Context, entry domain.Entry) error {
	now := p.now()
	if !entry.DueAt(now, p.baseDelay, p.maxDelay) {
		return nil
	}

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkAbandoned()
		entry.ErrorMessage = "no executor registered for action type: " + entry.ActionType
		slog.Warn("outbox_action_abandoned", "entry_id", entry.ID, "action_type", entry.ActionType)
		return p.store.Save(ctx, entry)
	}

	entry.MarkAttempt(now)
	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "status", entry.Status, "error", err.Error())
	} else {
		entry.MarkSuccess(externalID)
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, entry)
}

// EmailExecutor delivers email entries through a Sender.
type EmailExecutor struct {
	Sender email.Sender
}

// Execute sends the email described by payload.
// PRE: payload is valid JSON matching EmailPayload
// POST: email accepted by the provider; returns its message id
// INVARIANT: outbox entry status managed by caller
func (e *EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p EmailPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	res, err := e.Sender.Send(ctx, email.SendRequest{
		To:      []string{p.To},
		Subject: p.Subject,
		HTML:    p.HTML,
		ReplyTo: p.ReplyTo,
	})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}

// StartBackgroundWorker processes the outbox every interval until stopCh is closed.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed; done is closed when it has returned
func StartBackgroundWorker(processor *OutboxProcessor, interval time.Duration, stopCh <-chan struct{}) (done <-chan struct{}) {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if err := processor.ProcessPending(ctx); err != nil {
					slog.Error("outbox_background_process_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("outbox_background_worker_stopped")
				return
			}
		}
	}()
	return finished
}
