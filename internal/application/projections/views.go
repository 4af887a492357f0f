package projections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"growfitness/internal/domain/user"
)

// UserRef is the populated form of a user reference.
type UserRef struct {
	ID            string              `json:"id"`
	Email         string              `json:"email"`
	Role          string              `json:"role,omitempty"`
	ParentProfile *user.ParentProfile `json:"parentProfile,omitempty"`
	CoachProfile  *user.CoachProfile  `json:"coachProfile,omitempty"`
}

// NewUserRef projects u down to its public reference fields.
func NewUserRef(u user.User) *UserRef {
	return &UserRef{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		ParentProfile: u.ParentProfile,
		CoachProfile:  u.CoachProfile,
	}
}

// usersByID resolves ids in one query; blank ids are skipped.
func usersByID(ctx context.Context, users UserReader, ids []string) (map[string]user.User, error) {
	ids = compact(ids)
	if len(ids) == 0 {
		return map[string]user.User{}, nil
	}
	found, err := users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	return found, nil
}

func refOf(users map[string]user.User, id string) *UserRef {
	u, ok := users[id]
	if !ok {
		return nil
	}
	return NewUserRef(u)
}

// compact drops blanks and duplicates, keeping first-seen order.
func compact(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// notFound maps sql.ErrNoRows to sentinel.
func notFound(err, sentinel error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return fmt.Errorf("get %s: %w", what, err)
}
