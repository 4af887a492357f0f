package audit

import (
	"context"
	"time"

	domain "growfitness/internal/domain/audit"
)

// Store defines the interface for audit entry persistence. Entries are append-only.
type Store interface {
	// Save appends an audit entry.
	// PRE: entry is valid
	// POST: Entry is persisted
	Save(ctx context.Context, e domain.Entry) error

	// List returns entries newest first plus the unpaged total.
	// POST: From and Until bounds are inclusive
	List(ctx context.Context, filter Filter) ([]domain.Entry, int, error)
}

// Filter defines query parameters for listing audit entries.
type Filter struct {
	Limit      int
	Offset     int
	ActorID    string
	EntityType string
	From       time.Time
	Until      time.Time
}

var _ Store = (*SQLiteStore)(nil)
