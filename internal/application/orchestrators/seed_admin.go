package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"growfitness/internal/domain/user"
)

// SeedAdminDeps holds stores needed for admin seeding.
type SeedAdminDeps struct {
	UserStore  seedAdminUserStore
	GenerateID func() string
	Now        func() time.Time
}

type seedAdminUserStore interface {
	Save(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// SeedAdminInput carries the bootstrap admin credentials.
type SeedAdminInput struct {
	Email    string
	Password string
}

// ExecuteSeedAdmin creates the bootstrap ADMIN user unless the email already exists.
// PRE: Email and Password are non-empty
// POST: Returns true when a user was created
// INVARIANT: Idempotent; existing accounts are never modified
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) (bool, error) {
	email := user.NormalizeEmail(input.Email)
	_, err := deps.UserStore.GetByEmail(ctx, email)
	if err == nil {
		slog.Info("seed_admin_skipped", "email", email, "reason", "exists")
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("check admin email: %w", err)
	}

	now := deps.Now()
	u := user.User{
		ID:        deps.GenerateID(),
		Email:     email,
		Role:      user.RoleAdmin,
		Status:    user.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return false, err
	}
	if err := u.SetPassword(input.Password); err != nil {
		return false, err
	}
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return false, fmt.Errorf("save admin: %w", err)
	}
	slog.Info("seed_admin_created", "email", email, "id", u.ID)
	return true, nil
}
