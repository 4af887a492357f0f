package outbox

import (
	"errors"
	"time"
)

// Status constants for the entry lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Action types dispatched by the processor.
const (
	ActionTypeEmail    = "email"
	ActionTypeWhatsApp = "whatsapp"
)

// DefaultMaxAttempts applies when an entry is saved without a limit.
const DefaultMaxAttempts = 5

// Domain errors
var (
	ErrNotFound        = errors.New("Outbox entry not found")
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrMissingCreated  = errors.New("created_at must be set")
	ErrTerminal        = errors.New("outbox entry is already terminal")
)

// Entry is a deferred notification delivery.
type Entry struct {
	ID              string    `json:"id"`
	ActionType      string    `json:"actionType"`
	Payload         string    `json:"payload"`
	Status          string    `json:"status"`
	Attempts        int       `json:"attempts"`
	MaxAttempts     int       `json:"maxAttempts"`
	LastAttemptedAt time.Time `json:"lastAttemptedAt"`
	NextAttemptAt   time.Time `json:"nextAttemptAt"`
	CreatedAt       time.Time `json:"createdAt"`
	ExternalID      string    `json:"externalId,omitempty"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
}

// Validate checks that the Entry has valid data and fills MaxAttempts.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return ErrMissingCreated
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// CanRetry reports whether the processor may attempt the entry again.
// Failed entries need a Reset first.
func (e *Entry) CanRetry() bool {
	return (e.Status == StatusPending || e.Status == StatusRetrying) && e.Attempts < e.MaxAttempts
}

// IsTerminal reports whether the entry is delivered or abandoned.
// Terminal entries cannot be reset or abandoned.
func (e *Entry) IsTerminal() bool {
	return e.Status == StatusDone || e.Status == StatusAbandoned
}

// MarkAttempt records a delivery attempt at now.
// POST: Attempts incremented, status retrying
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess marks the entry delivered.
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed records err; the entry only becomes failed once attempts run out.
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// MarkAbandoned stops all further attempts.
func (e *Entry) MarkAbandoned() {
	e.Status = StatusAbandoned
}

// Reset re-arms a failed entry for a manual retry.
// PRE: entry is not done or abandoned
// POST: Status pending, Attempts zero
func (e *Entry) Reset() error {
	if e.IsTerminal() {
		return ErrTerminal
	}
	e.Status = StatusPending
	e.Attempts = 0
	e.ErrorMessage = ""
	e.NextAttemptAt = time.Time{}
	return nil
}

// NextRetryDelay is baseDelay * 2^attempts, capped at maxDelay.
func (e *Entry) NextRetryDelay(baseDelay, maxDelay time.Duration) time.Duration {
	if e.Attempts >= 30 {
		return maxDelay
	}
	delay := baseDelay * (1 << e.Attempts)
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// ScheduleRetry sets NextAttemptAt to now plus the backoff for the current attempt count.
// Entries that cannot retry keep their schedule.
func (e *Entry) ScheduleRetry(now time.Time, baseDelay, maxDelay time.Duration) {
	if !e.CanRetry() {
		return
	}
	e.NextAttemptAt = now.Add(e.NextRetryDelay(baseDelay, maxDelay))
}

// IsDue reports whether the backoff window has passed. Unscheduled entries are always due.
func (e *Entry) IsDue(now time.Time) bool {
	return !e.NextAttemptAt.After(now)
}
