package projections

import (
	"context"
	"errors"
	"testing"

	"growfitness/internal/application/listutil"
	"growfitness/internal/domain/user"
)

func TestQueryGetParentAndCoach_RoleMismatch(t *testing.T) {
	users := &mockUserStore{users: []user.User{
		parent("p1", "ann@test.com", "Ann"),
		coach("c1", "cal@test.com", "Cal"),
	}}
	ctx := context.Background()

	if _, err := QueryGetParent(ctx, "p1", users); err != nil {
		t.Errorf("parent: %v", err)
	}
	if _, err := QueryGetParent(ctx, "c1", users); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("coach as parent err = %v", err)
	}
	if _, err := QueryGetCoach(ctx, "p1", users); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("parent as coach err = %v", err)
	}
	if _, err := QueryGetMe(ctx, "missing", users); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("me err = %v", err)
	}
}

func TestQueryListParents_ExcludesDeletedUnlessAsked(t *testing.T) {
	deleted := parent("p2", "old@test.com", "Old")
	deleted.Status = user.StatusDeleted
	users := &mockUserStore{users: []user.User{parent("p1", "ann@test.com", "Ann"), deleted, coach("c1", "cal@test.com", "Cal")}}

	tests := []struct {
		name      string
		filters   map[string]string
		wantTotal int
	}{
		{"default", map[string]string{}, 1},
		{"explicit deleted", map[string]string{"status": user.StatusDeleted}, 1},
		{"active", map[string]string{"status": user.StatusActive}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ListUsersQuery{ListParams: listutil.ListParams{
				PageParams:   listutil.NewPageParams(1, 10),
				FilterParams: listutil.FilterParams{Filters: tt.filters},
			}}
			page, err := QueryListParents(context.Background(), q, users)
			if err != nil {
				t.Fatal(err)
			}
			if page.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", page.Total, tt.wantTotal)
			}
			for _, u := range page.Data {
				if u.Role != user.RoleParent {
					t.Errorf("got role %s", u.Role)
				}
			}
		})
	}
}
