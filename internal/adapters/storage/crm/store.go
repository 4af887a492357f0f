package crm

import (
	"context"

	domain "growfitness/internal/domain/crm"
)

// Store persists CRM contacts. Notes are stored with their contact.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Contact, error)
	Save(ctx context.Context, c domain.Contact) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Contact, int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit    int
	Offset   int
	Status   string
	ParentID string
}
