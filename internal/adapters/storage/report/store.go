package report

import (
	"context"

	domain "growfitness/internal/domain/report"
)

// Store persists Report state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Report, error)
	Save(ctx context.Context, r domain.Report) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Report, int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Type   string
	Status string
}
