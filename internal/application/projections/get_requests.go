package projections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	requestStore "growfitness/internal/adapters/storage/request"
	"growfitness/internal/application/listutil"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/location"
	"growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
)

// RequestQueryDeps holds dependencies for request queries.
type RequestQueryDeps struct {
	RequestStore  RequestReader
	SessionStore  SessionReader
	UserStore     UserReader
	KidStore      KidReader
	LocationStore LocationReader
}

// ListRequestsQuery carries request list parameters; the only filter is status.
type ListRequestsQuery struct {
	listutil.PageParams
	Status string
}

func (q ListRequestsQuery) store() requestStore.ListFilter {
	return requestStore.ListFilter{Limit: q.Limit, Offset: q.Offset(), Status: q.Status}
}

// FreeSessionRequestView populates the selected session.
type FreeSessionRequestView struct {
	request.FreeSessionRequest
	SelectedSession *session.Session `json:"selectedSession,omitempty"`
}

// RescheduleRequestView populates the session and requester.
type RescheduleRequestView struct {
	request.RescheduleRequest
	Session   *session.Session `json:"session,omitempty"`
	Requester *UserRef         `json:"requester,omitempty"`
}

// ExtraSessionRequestView populates parent, kid, coach and location.
type ExtraSessionRequestView struct {
	request.ExtraSessionRequest
	Parent   *UserRef           `json:"parent,omitempty"`
	Kid      *kid.Kid           `json:"kid,omitempty"`
	Coach    *UserRef           `json:"coach,omitempty"`
	Location *location.Location `json:"location,omitempty"`
}

// QueryListFreeSessionRequests lists free-session requests newest first.
func QueryListFreeSessionRequests(ctx context.Context, query ListRequestsQuery, deps RequestQueryDeps) (listutil.Page[FreeSessionRequestView], error) {
	list, total, err := deps.RequestStore.ListFreeSessions(ctx, query.store())
	if err != nil {
		return listutil.Page[FreeSessionRequestView]{}, fmt.Errorf("list free session requests: %w", err)
	}
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = r.SelectedSessionID
	}
	sessions, err := sessionsByID(ctx, deps.SessionStore, ids)
	if err != nil {
		return listutil.Page[FreeSessionRequestView]{}, err
	}
	views := make([]FreeSessionRequestView, len(list))
	for i, r := range list {
		views[i] = FreeSessionRequestView{FreeSessionRequest: r, SelectedSession: sessions[r.SelectedSessionID]}
	}
	return listutil.NewPage(views, total, query.PageParams), nil
}

// QueryListRescheduleRequests lists reschedule requests newest first.
func QueryListRescheduleRequests(ctx context.Context, query ListRequestsQuery, deps RequestQueryDeps) (listutil.Page[RescheduleRequestView], error) {
	list, total, err := deps.RequestStore.ListReschedules(ctx, query.store())
	if err != nil {
		return listutil.Page[RescheduleRequestView]{}, fmt.Errorf("list reschedule requests: %w", err)
	}
	sessionIDs := make([]string, len(list))
	userIDs := make([]string, len(list))
	for i, r := range list {
		sessionIDs[i] = r.SessionID
		userIDs[i] = r.RequestedBy
	}
	sessions, err := sessionsByID(ctx, deps.SessionStore, sessionIDs)
	if err != nil {
		return listutil.Page[RescheduleRequestView]{}, err
	}
	users, err := usersByID(ctx, deps.UserStore, userIDs)
	if err != nil {
		return listutil.Page[RescheduleRequestView]{}, err
	}
	views := make([]RescheduleRequestView, len(list))
	for i, r := range list {
		v := RescheduleRequestView{RescheduleRequest: r, Session: sessions[r.SessionID]}
		if u, ok := users[r.RequestedBy]; ok {
			v.Requester = &UserRef{ID: u.ID, Email: u.Email}
		}
		views[i] = v
	}
	return listutil.NewPage(views, total, query.PageParams), nil
}

// QueryListExtraSessionRequests lists extra-session requests newest first.
func QueryListExtraSessionRequests(ctx context.Context, query ListRequestsQuery, deps RequestQueryDeps) (listutil.Page[ExtraSessionRequestView], error) {
	list, total, err := deps.RequestStore.ListExtraSessions(ctx, query.store())
	if err != nil {
		return listutil.Page[ExtraSessionRequestView]{}, fmt.Errorf("list extra session requests: %w", err)
	}
	var userIDs, kidIDs, locationIDs []string
	for _, r := range list {
		userIDs = append(userIDs, r.ParentID, r.CoachID)
		kidIDs = append(kidIDs, r.KidID)
		locationIDs = append(locationIDs, r.LocationID)
	}
	users, err := usersByID(ctx, deps.UserStore, userIDs)
	if err != nil {
		return listutil.Page[ExtraSessionRequestView]{}, err
	}
	kids := map[string]kid.Kid{}
	if ids := compact(kidIDs); len(ids) > 0 {
		if kids, err = deps.KidStore.GetByIDs(ctx, ids); err != nil {
			return listutil.Page[ExtraSessionRequestView]{}, fmt.Errorf("get kids: %w", err)
		}
	}
	locations := map[string]location.Location{}
	if ids := compact(locationIDs); len(ids) > 0 {
		if locations, err = deps.LocationStore.GetByIDs(ctx, ids); err != nil {
			return listutil.Page[ExtraSessionRequestView]{}, fmt.Errorf("get locations: %w", err)
		}
	}

	views := make([]ExtraSessionRequestView, len(list))
	for i, r := range list {
		v := ExtraSessionRequestView{ExtraSessionRequest: r, Parent: refOf(users, r.ParentID), Coach: refOf(users, r.CoachID)}
		if k, ok := kids[r.KidID]; ok {
			v.Kid = &k
		}
		if l, ok := locations[r.LocationID]; ok {
			v.Location = &l
		}
		views[i] = v
	}
	return listutil.NewPage(views, total, query.PageParams), nil
}

// sessionsByID loads each referenced session; missing sessions are left out.
func sessionsByID(ctx context.Context, sessions SessionReader, ids []string) (map[string]*session.Session, error) {
	out := make(map[string]*session.Session)
	for _, id := range compact(ids) {
		s, err := sessions.GetByID(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get session: %w", err)
		}
		out[id] = &s
	}
	return out, nil
}
