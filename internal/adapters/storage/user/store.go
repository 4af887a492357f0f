package user

import (
	"context"
	"time"

	"growfitness/internal/domain/kid"
	domain "growfitness/internal/domain/user"
)

// Store persists users together with their refresh sessions and reset tokens.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)
	Save(ctx context.Context, u domain.User) error
	SaveWithKids(ctx context.Context, u domain.User, kids []kid.Kid) error
	List(ctx context.Context, filter ListFilter) ([]domain.User, int, error)
	Count(ctx context.Context, filter ListFilter) (int, error)

	SaveRefreshSession(ctx context.Context, s domain.RefreshSession) error
	GetRefreshSessionByHash(ctx context.Context, tokenHash string) (domain.RefreshSession, error)
	RevokeRefreshSessions(ctx context.Context, userID string, at time.Time) error

	SaveResetToken(ctx context.Context, t domain.PasswordResetToken) error
	GetResetTokenByHash(ctx context.Context, tokenHash string) (domain.PasswordResetToken, error)
}

// ListFilter carries filtering parameters for List and Count.
type ListFilter struct {
	Limit          int
	Offset         int
	Role           string
	Status         string
	ExcludeDeleted bool
	Search         string
	Location       string
}
