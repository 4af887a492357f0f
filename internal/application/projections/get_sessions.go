package projections

import (
	"context"
	"fmt"
	"time"

	sessionStore "growfitness/internal/adapters/storage/session"
	"growfitness/internal/application/listutil"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/location"
	"growfitness/internal/domain/session"
)

// SessionView is a session with coach, location and kids populated.
type SessionView struct {
	session.Session
	Coach      *UserRef           `json:"coach"`
	Location   *location.Location `json:"location"`
	KidsDetail []kid.Kid          `json:"kidsDetail"`
	Kid        *kid.Kid           `json:"kid,omitempty"`
}

// SessionQueryDeps holds dependencies for session queries.
type SessionQueryDeps struct {
	SessionStore  SessionReader
	UserStore     UserReader
	KidStore      KidReader
	LocationStore LocationReader
}

// ListSessionsQuery carries session list parameters.
type ListSessionsQuery struct {
	listutil.PageParams
	CoachID    string
	LocationID string
	Status     string
	StartDate  time.Time
	EndDate    time.Time
}

// QueryListSessions lists sessions by dateTime ascending.
// POST: StartDate and EndDate bound dateTime inclusively
func QueryListSessions(ctx context.Context, query ListSessionsQuery, deps SessionQueryDeps) (listutil.Page[SessionView], error) {
	list, total, err := deps.SessionStore.List(ctx, sessionStore.ListFilter{
		Limit:      query.Limit,
		Offset:     query.Offset(),
		CoachID:    query.CoachID,
		LocationID: query.LocationID,
		Status:     query.Status,
		From:       query.StartDate,
		Until:      query.EndDate,
	})
	if err != nil {
		return listutil.Page[SessionView]{}, fmt.Errorf("list sessions: %w", err)
	}
	views, err := populateSessions(ctx, list, deps)
	if err != nil {
		return listutil.Page[SessionView]{}, err
	}
	return listutil.NewPage(views, total, query.PageParams), nil
}

// QueryGetSession returns one populated session.
func QueryGetSession(ctx context.Context, id string, deps SessionQueryDeps) (SessionView, error) {
	s, err := deps.SessionStore.GetByID(ctx, id)
	if err != nil {
		return SessionView{}, notFound(err, session.ErrNotFound, "session")
	}
	views, err := populateSessions(ctx, []session.Session{s}, deps)
	if err != nil {
		return SessionView{}, err
	}
	return views[0], nil
}

// QueryWeeklySummary summarizes sessions in [start, end).
func QueryWeeklySummary(ctx context.Context, start, end time.Time, sessions SessionReader) (session.Summary, error) {
	list, _, err := sessions.List(ctx, sessionStore.ListFilter{From: start.UTC(), Before: end.UTC()})
	if err != nil {
		return session.Summary{}, fmt.Errorf("list sessions: %w", err)
	}
	return session.Summarize(list), nil
}

// WeekBounds returns Monday 00:00 UTC of now's ISO week and the following Monday.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	offset := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

func populateSessions(ctx context.Context, list []session.Session, deps SessionQueryDeps) ([]SessionView, error) {
	var coachIDs, locationIDs, kidIDs []string
	for _, s := range list {
		coachIDs = append(coachIDs, s.CoachID)
		locationIDs = append(locationIDs, s.LocationID)
		kidIDs = append(kidIDs, s.KidIDs()...)
	}
	coaches, err := usersByID(ctx, deps.UserStore, coachIDs)
	if err != nil {
		return nil, err
	}
	locations := map[string]location.Location{}
	if ids := compact(locationIDs); len(ids) > 0 {
		if locations, err = deps.LocationStore.GetByIDs(ctx, ids); err != nil {
			return nil, fmt.Errorf("get locations: %w", err)
		}
	}
	kids := map[string]kid.Kid{}
	if ids := compact(kidIDs); len(ids) > 0 {
		if kids, err = deps.KidStore.GetByIDs(ctx, ids); err != nil {
			return nil, fmt.Errorf("get kids: %w", err)
		}
	}

	views := make([]SessionView, len(list))
	for i, s := range list {
		v := SessionView{Session: s, Coach: refOf(coaches, s.CoachID), KidsDetail: []kid.Kid{}}
		if l, ok := locations[s.LocationID]; ok {
			v.Location = &l
		}
		for _, id := range s.Kids {
			if k, ok := kids[id]; ok {
				v.KidsDetail = append(v.KidsDetail, k)
			}
		}
		if k, ok := kids[s.KidID]; ok && s.KidID != "" {
			v.Kid = &k
		}
		views[i] = v
	}
	return views, nil
}
