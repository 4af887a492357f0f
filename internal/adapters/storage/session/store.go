package session

import (
	"context"
	"time"

	domain "growfitness/internal/domain/session"
)

// Store persists Session state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Session, int, error)
}

// ListFilter carries filtering parameters for List operations.
// From is inclusive. Until is inclusive and Before is exclusive; zero values are ignored.
type ListFilter struct {
	Limit      int
	Offset     int
	CoachID    string
	LocationID string
	Status     string
	Type       string
	From       time.Time
	Until      time.Time
	Before     time.Time
}
