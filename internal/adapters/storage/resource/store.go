package resource

import (
	"context"

	domain "growfitness/internal/domain/resource"
)

// Store persists learning resources.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Resource, error)
	Save(ctx context.Context, r domain.Resource) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Resource, int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit          int
	Offset         int
	TargetAudience string
	Type           string
}
