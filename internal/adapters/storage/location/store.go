package location

import (
	"context"

	domain "growfitness/internal/domain/location"
)

// Store persists Location state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Location, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.Location, error)
	Save(ctx context.Context, l domain.Location) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Location, error)
}
