package projections

import (
	"context"
	"fmt"

	"growfitness/internal/domain/outbox"
)

// FailedOutboxLimit caps the admin failed-delivery listing.
const FailedOutboxLimit = 100

// FailedOutboxLister lists terminally failed outbox entries.
type FailedOutboxLister interface {
	ListFailed(ctx context.Context, limit int) ([]outbox.Entry, error)
}

// QueryFailedOutbox returns failed deliveries awaiting an admin decision.
func QueryFailedOutbox(ctx context.Context, store FailedOutboxLister) ([]outbox.Entry, error) {
	list, err := store.ListFailed(ctx, FailedOutboxLimit)
	if err != nil {
		return nil, fmt.Errorf("list failed outbox entries: %w", err)
	}
	if list == nil {
		list = []outbox.Entry{}
	}
	return list, nil
}
