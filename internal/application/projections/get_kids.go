package projections

import (
	"context"
	"fmt"

	kidStore "growfitness/internal/adapters/storage/kid"
	"growfitness/internal/application/listutil"
	"growfitness/internal/domain/kid"
)

// KidView is a kid with its parent populated.
type KidView struct {
	kid.Kid
	Parent *UserRef `json:"parent"`
}

// KidQueryDeps holds dependencies for kid queries.
type KidQueryDeps struct {
	KidStore  KidReader
	UserStore UserReader
}

// ListKidsQuery carries kid list parameters; filters parentId and sessionType.
type ListKidsQuery struct {
	listutil.ListParams
}

// QueryListKids lists kids newest first with parents populated.
func QueryListKids(ctx context.Context, query ListKidsQuery, deps KidQueryDeps) (listutil.Page[KidView], error) {
	kids, total, err := deps.KidStore.List(ctx, kidStore.ListFilter{
		Limit:       query.Limit,
		Offset:      query.Offset(),
		ParentID:    query.Get("parentId"),
		SessionType: query.Get("sessionType"),
	})
	if err != nil {
		return listutil.Page[KidView]{}, fmt.Errorf("list kids: %w", err)
	}
	parentIDs := make([]string, len(kids))
	for i, k := range kids {
		parentIDs[i] = k.ParentID
	}
	parents, err := usersByID(ctx, deps.UserStore, parentIDs)
	if err != nil {
		return listutil.Page[KidView]{}, err
	}
	page := listutil.NewPage(kids, total, query.PageParams)
	return listutil.MapPage(page, func(k kid.Kid) KidView {
		return KidView{Kid: k, Parent: refOf(parents, k.ParentID)}
	}), nil
}

// QueryGetKid returns one kid with its parent populated.
// POST: kid.ErrNotFound when absent
func QueryGetKid(ctx context.Context, id string, deps KidQueryDeps) (KidView, error) {
	k, err := deps.KidStore.GetByID(ctx, id)
	if err != nil {
		return KidView{}, notFound(err, kid.ErrNotFound, "kid")
	}
	parents, err := usersByID(ctx, deps.UserStore, []string{k.ParentID})
	if err != nil {
		return KidView{}, err
	}
	return KidView{Kid: k, Parent: refOf(parents, k.ParentID)}, nil
}
