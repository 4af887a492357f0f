package request

import (
	"context"

	domain "growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
)

// Store persists the three request kinds.
type Store interface {
	GetFreeSession(ctx context.Context, id string) (domain.FreeSessionRequest, error)
	SaveFreeSession(ctx context.Context, r domain.FreeSessionRequest) error
	ListFreeSessions(ctx context.Context, filter ListFilter) ([]domain.FreeSessionRequest, int, error)

	GetReschedule(ctx context.Context, id string) (domain.RescheduleRequest, error)
	SaveReschedule(ctx context.Context, r domain.RescheduleRequest) error
	SaveRescheduleWithSession(ctx context.Context, r domain.RescheduleRequest, sess session.Session) error
	ListReschedules(ctx context.Context, filter ListFilter) ([]domain.RescheduleRequest, int, error)

	GetExtraSession(ctx context.Context, id string) (domain.ExtraSessionRequest, error)
	SaveExtraSession(ctx context.Context, r domain.ExtraSessionRequest) error
	ListExtraSessions(ctx context.Context, filter ListFilter) ([]domain.ExtraSessionRequest, int, error)
}

// ListFilter carries filtering parameters for every list.
type ListFilter struct {
	Limit  int
	Offset int
	Status string
}

func (f ListFilter) where() (string, []any) {
	if f.Status == "" {
		return "", nil
	}
	return " WHERE status = ?", []any{f.Status}
}
