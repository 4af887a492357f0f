package projections

import (
	"context"
	"fmt"

	userStore "growfitness/internal/adapters/storage/user"
	"growfitness/internal/application/listutil"
	"growfitness/internal/domain/user"
)

// ListUsersQuery carries list parameters for parents or coaches.
type ListUsersQuery struct {
	listutil.ListParams
}

// QueryListParents lists PARENT users.
// PRE: Page params are clamped
// POST: Without a status filter DELETED parents are excluded; newest first
func QueryListParents(ctx context.Context, query ListUsersQuery, users UserReader) (listutil.Page[user.User], error) {
	return listUsers(ctx, user.RoleParent, query, users)
}

// QueryListCoaches lists COACH users.
func QueryListCoaches(ctx context.Context, query ListUsersQuery, users UserReader) (listutil.Page[user.User], error) {
	return listUsers(ctx, user.RoleCoach, query, users)
}

func listUsers(ctx context.Context, role string, query ListUsersQuery, users UserReader) (listutil.Page[user.User], error) {
	filter := userStore.ListFilter{
		Limit:    query.Limit,
		Offset:   query.Offset(),
		Role:     role,
		Status:   query.Get("status"),
		Search:   query.Search,
		Location: query.Get("location"),
	}
	filter.ExcludeDeleted = filter.Status == ""
	list, total, err := users.List(ctx, filter)
	if err != nil {
		return listutil.Page[user.User]{}, fmt.Errorf("list users: %w", err)
	}
	return listutil.NewPage(list, total, query.PageParams), nil
}

// QueryGetParent returns a PARENT by id.
// POST: user.ErrNotFound when absent or not a parent
func QueryGetParent(ctx context.Context, id string, users UserReader) (user.User, error) {
	return getWithRole(ctx, id, user.RoleParent, users)
}

// QueryGetCoach returns a COACH by id.
func QueryGetCoach(ctx context.Context, id string, users UserReader) (user.User, error) {
	return getWithRole(ctx, id, user.RoleCoach, users)
}

// QueryGetMe returns the authenticated user regardless of role.
func QueryGetMe(ctx context.Context, id string, users UserReader) (user.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, notFound(err, user.ErrNotFound, "user")
	}
	return u, nil
}

func getWithRole(ctx context.Context, id, role string, users UserReader) (user.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, notFound(err, user.ErrNotFound, "user")
	}
	if u.Role != role {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}
