package invoice

import (
	"context"
	"time"

	domain "growfitness/internal/domain/invoice"
)

// Store persists Invoice state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Invoice, error)
	Save(ctx context.Context, inv domain.Invoice) error
	List(ctx context.Context, filter ListFilter) ([]domain.Invoice, int, error)
}

// ListFilter carries filtering parameters for List operations.
// DueFrom and DueUntil are inclusive bounds on due_date.
type ListFilter struct {
	Limit    int
	Offset   int
	Type     string
	ParentID string
	CoachID  string
	Status   string
	DueFrom  time.Time
	DueUntil time.Time
}
