package outbox

import (
	"context"
	"time"

	domain "growfitness/internal/domain/outbox"
)

// Store defines the interface for outbox entry persistence.
type Store interface {
	// GetByID retrieves an outbox entry by its ID.
	// POST: Returns the entry or sql.ErrNoRows
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// Save persists an outbox entry (insert or update).
	// PRE: entry has been validated
	Save(ctx context.Context, e domain.Entry) error

	// ListPending returns entries awaiting delivery (pending or retrying) that are due at now.
	// PRE: limit > 0
	ListPending(ctx context.Context, now time.Time, limit int) ([]domain.Entry, error)

	// ListFailed returns entries that exhausted their attempts, most recent attempt first.
	// PRE: limit > 0
	ListFailed(ctx context.Context, limit int) ([]domain.Entry, error)
}
