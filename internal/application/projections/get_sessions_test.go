package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"growfitness/internal/application/listutil"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/location"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

func newSessionDeps() SessionQueryDeps {
	base := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	return SessionQueryDeps{
		SessionStore: &mockSessionStore{sessions: []session.Session{
			{ID: "s2", Type: session.TypeIndividual, CoachID: "c1", LocationID: "l1", KidID: "k2", Status: session.StatusScheduled, DateTime: base.Add(2 * time.Hour)},
			{ID: "s1", Type: session.TypeGroup, CoachID: "c1", LocationID: "l1", Kids: []string{"k1", "missing"}, Status: session.StatusScheduled, DateTime: base},
			{ID: "s3", Type: session.TypeGroup, CoachID: "c2", LocationID: "l2", Status: session.StatusCancelled, DateTime: base.AddDate(0, 0, 5)},
		}},
		UserStore:     &mockUserStore{users: []user.User{coach("c1", "cal@test.com", "Cal")}},
		KidStore:      &mockKidStore{kids: []kid.Kid{{ID: "k1", Name: "Kai"}, {ID: "k2", Name: "Lia"}}},
		LocationStore: &mockLocationStore{locations: []location.Location{{ID: "l1", Name: "Colombo"}}},
	}
}

func TestQueryListSessions(t *testing.T) {
	tests := []struct {
		name    string
		query   ListSessionsQuery
		wantIDs []string
	}{
		{"all ordered by dateTime", ListSessionsQuery{}, []string{"s1", "s2", "s3"}},
		{"by coach", ListSessionsQuery{CoachID: "c2"}, []string{"s3"}},
		{"by status", ListSessionsQuery{Status: session.StatusScheduled}, []string{"s1", "s2"}},
		{"end date inclusive", ListSessionsQuery{EndDate: time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC)}, []string{"s1", "s2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.PageParams = listutil.NewPageParams(1, 10)
			page, err := QueryListSessions(context.Background(), tt.query, newSessionDeps())
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, v := range page.Data {
				ids = append(ids, v.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
				}
			}
		})
	}
}

func TestQueryGetSession_PopulatesReferences(t *testing.T) {
	deps := newSessionDeps()
	group, err := QueryGetSession(context.Background(), "s1", deps)
	if err != nil {
		t.Fatal(err)
	}
	if group.Coach == nil || group.Coach.Email != "cal@test.com" {
		t.Errorf("coach = %+v", group.Coach)
	}
	if group.Location == nil || group.Location.Name != "Colombo" {
		t.Errorf("location = %+v", group.Location)
	}
	if len(group.KidsDetail) != 1 || group.KidsDetail[0].Name != "Kai" {
		t.Errorf("kidsDetail = %+v", group.KidsDetail)
	}
	if len(group.Kids) != 2 {
		t.Errorf("Kids ids = %v, want both ids kept", group.Kids)
	}

	individual, err := QueryGetSession(context.Background(), "s2", deps)
	if err != nil {
		t.Fatal(err)
	}
	if individual.Kid == nil || individual.Kid.Name != "Lia" {
		t.Errorf("kid = %+v", individual.Kid)
	}

	orphan, err := QueryGetSession(context.Background(), "s3", deps)
	if err != nil {
		t.Fatal(err)
	}
	if orphan.Coach != nil || orphan.Location != nil {
		t.Errorf("unresolved refs should be nil: %+v", orphan)
	}
}

func TestQueryGetSession_NotFound(t *testing.T) {
	_, err := QueryGetSession(context.Background(), "nope", newSessionDeps())
	if !errors.Is(err, session.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}
