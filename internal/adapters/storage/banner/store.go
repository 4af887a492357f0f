package banner

import (
	"context"
	"time"

	domain "growfitness/internal/domain/banner"
)

// Store persists Banner state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Banner, error)
	Save(ctx context.Context, b domain.Banner) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Banner, error)

	// Reorder applies every position in one transaction.
	// PRE: positions maps banner id to its new order
	// POST: All orders updated, or none when any id is unknown (sql.ErrNoRows)
	Reorder(ctx context.Context, positions map[string]int, now time.Time) error
}
