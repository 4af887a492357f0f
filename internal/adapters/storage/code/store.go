package code

import (
	"context"

	domain "growfitness/internal/domain/code"
)

// Store persists promo and discount codes.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Code, error)
	GetByCode(ctx context.Context, code string) (domain.Code, error)
	Save(ctx context.Context, c domain.Code) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Code, int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Status string
}
