package kid

import (
	"context"

	domain "growfitness/internal/domain/kid"
)

// Store persists Kid state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Kid, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Kid, error)
	Save(ctx context.Context, k domain.Kid) error
	List(ctx context.Context, filter ListFilter) ([]domain.Kid, int, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit       int
	Offset      int
	ParentID    string
	SessionType string
}
