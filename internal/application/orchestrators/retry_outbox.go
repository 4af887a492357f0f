package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"growfitness/internal/adapters/email"
	"growfitness/internal/adapters/whatsapp"
	domain "growfitness/internal/domain/outbox"
)

// OutboxStoreForProcessor is the store interface the processor needs.
type OutboxStoreForProcessor interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	ListPending(ctx context.Context, now time.Time, limit int) ([]domain.Entry, error)
}

// OutboxProcessor retries queued notification deliveries.
type OutboxProcessor struct {
	store     OutboxStoreForProcessor
	executors map[string]ActionExecutor
	now       func() time.Time
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the external action with the given payload.
	// Returns the provider message ID and any error.
	Execute(ctx context.Context, payload string) (string, error)
}

// NewOutboxProcessor creates a new outbox processor.
func NewOutboxProcessor(store OutboxStoreForProcessor, executors map[string]ActionExecutor, now func() time.Time) *OutboxProcessor {
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

// ProcessPending processes pending outbox entries with retries.
// PRE: Context is valid
// POST: Up to batchSize due entries are attempted once; entries still in backoff are skipped
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListPending(ctx, p.now(), p.batchSize)
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
	if !entry.CanRetry() || !entry.IsDue(p.now()) {
		return nil
	}
	return p.attempt(ctx, entry)
}

func (p *OutboxProcessor) attempt(ctx context.Context, entry domain.Entry) error {
	now := p.now()
	entry.MarkAttempt(now)

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.Attempts = entry.MaxAttempts
		entry.MarkFailed(fmt.Errorf("no executor registered for action type: %s", entry.ActionType))
		return p.store.Save(ctx, entry)
	}

	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		entry.ScheduleRetry(now, p.baseDelay, p.maxDelay)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "error", err.Error())
	} else {
		entry.MarkSuccess(externalID)
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, entry)
}

// ProcessSingle re-arms and immediately attempts one entry (admin retry).
// PRE: entryID is non-empty
// POST: Entry attempted once, status updated
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, lookup(err, domain.ErrNotFound, "outbox entry")
	}
	if err := entry.Reset(); err != nil {
		return domain.Entry{}, err
	}
	if err := p.attempt(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	return p.store.GetByID(ctx, entryID)
}

// AbandonEntry marks an entry as abandoned by admin.
// PRE: entryID is non-empty
// POST: Entry status set to abandoned; delivered or abandoned entries return ErrTerminal
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, lookup(err, domain.ErrNotFound, "outbox entry")
	}
	if entry.IsTerminal() {
		return domain.Entry{}, domain.ErrTerminal
	}
	entry.MarkAbandoned()
	if err := p.store.Save(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	return entry, nil
}

// --- Email Executor ---

// EmailExecutor replays queued emails.
type EmailExecutor struct {
	Sender email.Sender
	From   string
}

// Execute sends an email from the payload.
// PRE: payload is valid JSON matching EmailPayload
// POST: email sent via configured sender, returns message ID
// INVARIANT: outbox entry status managed by caller
func (e *EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p EmailPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	return SendEmailPayload(ctx, e.Sender, e.From, p)
}

// --- WhatsApp Executor ---

// WhatsAppExecutor replays queued WhatsApp messages.
type WhatsAppExecutor struct {
	Sender whatsapp.Sender
}

// Execute sends a WhatsApp message from the payload.
// PRE: payload is valid JSON matching WhatsAppPayload
// INVARIANT: outbox entry status managed by caller
func (e *WhatsAppExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p WhatsAppPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	return e.Sender.Send(ctx, whatsapp.Message{To: p.To, Body: p.Body})
}

// --- Background Worker ---

// StartBackgroundWorker starts a background goroutine that periodically processes pending outbox entries.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed; done is closed when it exits
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
