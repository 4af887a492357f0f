package quiz

import (
	"context"

	domain "growfitness/internal/domain/quiz"
)

// Store persists Quiz state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Quiz, error)
	Save(ctx context.Context, q domain.Quiz) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Quiz, int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit          int
	Offset         int
	TargetAudience string
}
