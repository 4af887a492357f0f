package request

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"growfitness/internal/adapters/storage"
	sessionstore "growfitness/internal/adapters/storage/session"
	domain "growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
)

var fixedTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return db
}

func TestSQLiteStore_FreeSessionRoundTrip(t *testing.T) {
	s := NewSQLiteStore(newTestDB(t))
	ctx := context.Background()
	preferred := fixedTime.Add(48 * time.Hour)
	in := domain.FreeSessionRequest{
		ID: "f1", ParentName: "Nimali", Phone: "0771234567", Email: "nimali@x.lk", KidName: "Kamal",
		SessionType: domain.SessionTypeGroup, LocationID: "loc-1", PreferredDateTime: &preferred,
		Status: domain.StatusPending, CreatedAt: fixedTime, UpdatedAt: fixedTime,
	}
	if err := s.SaveFreeSession(ctx, in); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetFreeSession(ctx, "f1")
	if err != nil {
		t.Fatal(err)
	}
	if got.PreferredDateTime == nil || !got.PreferredDateTime.Equal(preferred) || got.KidName != "Kamal" {
		t.Errorf("got %+v", got)
	}

	got.Status = domain.StatusSelected
	got.SelectedSessionID = "s1"
	if err := s.SaveFreeSession(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, _ := s.GetFreeSession(ctx, "f1")
	if again.Status != domain.StatusSelected || again.SelectedSessionID != "s1" {
		t.Errorf("after select = %+v", again)
	}
	if _, err := s.GetFreeSession(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing = %v", err)
	}
}

func TestSQLiteStore_ListByStatus(t *testing.T) {
	s := NewSQLiteStore(newTestDB(t))
	ctx := context.Background()
	for i, st := range []string{domain.StatusPending, domain.StatusApproved, domain.StatusPending} {
		at := fixedTime.Add(time.Duration(i) * time.Hour)
		ids := []string{"1", "2", "3"}
		if err := s.SaveReschedule(ctx, domain.RescheduleRequest{
			ID: "r" + ids[i], SessionID: "s1", RequestedBy: "p1", NewDateTime: at.Add(24 * time.Hour),
			Reason: "travel", Status: st, CreatedAt: at, UpdatedAt: at,
		}); err != nil {
			t.Fatal(err)
		}
		if err := s.SaveExtraSession(ctx, domain.ExtraSessionRequest{
			ID: "e" + ids[i], ParentID: "p1", KidID: "k1", CoachID: "c1", SessionType: domain.SessionTypeIndividual,
			LocationID: "loc-1", PreferredDateTime: at.Add(24 * time.Hour), Status: st, CreatedAt: at, UpdatedAt: at,
		}); err != nil {
			t.Fatal(err)
		}
	}

	reschedules, total, err := s.ListReschedules(ctx, ListFilter{Status: domain.StatusPending})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || reschedules[0].ID != "r3" || reschedules[1].ID != "r1" {
		t.Errorf("reschedules = %+v (total %d)", reschedules, total)
	}
	extras, total, err := s.ListExtraSessions(ctx, ListFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(extras) != 1 || extras[0].ID != "e3" {
		t.Errorf("extras = %+v (total %d)", extras, total)
	}
}

// TestSQLiteStore_SaveRescheduleWithSession
// PRE: a scheduled session and a pending reschedule request for it
// POST: approval moves the session and stores the decision together;
// a failed request write leaves the session where it was
func TestSQLiteStore_SaveRescheduleWithSession(t *testing.T) {
	ctx := context.Background()
	newDate := fixedTime.Add(72 * time.Hour)

	setup := func(t *testing.T) (*sql.DB, *SQLiteStore, *sessionstore.SQLiteStore, domain.RescheduleRequest, session.Session) {
		db := newTestDB(t)
		requests := NewSQLiteStore(db)
		sessions := sessionstore.NewSQLiteStore(db)
		sess := session.Session{
			ID: "s1", Type: session.TypeIndividual, CoachID: "c1", LocationID: "loc-1", DateTime: fixedTime,
			Duration: 60, Capacity: 1, Kids: []string{}, KidID: "k1", Status: session.StatusScheduled,
			CreatedAt: fixedTime, UpdatedAt: fixedTime,
		}
		if err := sessions.Save(ctx, sess); err != nil {
			t.Fatal(err)
		}
		r := domain.RescheduleRequest{
			ID: "r1", SessionID: "s1", RequestedBy: "p1", NewDateTime: newDate, Reason: "travel",
			Status: domain.StatusPending, CreatedAt: fixedTime, UpdatedAt: fixedTime,
		}
		if err := requests.SaveReschedule(ctx, r); err != nil {
			t.Fatal(err)
		}
		return db, requests, sessions, r, sess
	}

	t.Run("commit", func(t *testing.T) {
		_, requests, sessions, r, sess := setup(t)
		processed := fixedTime.Add(time.Hour)
		r.Status, r.ProcessedAt, r.UpdatedAt = domain.StatusApproved, &processed, processed
		sess.DateTime, sess.UpdatedAt = newDate, processed

		if err := requests.SaveRescheduleWithSession(ctx, r, sess); err != nil {
			t.Fatal(err)
		}
		gotReq, _ := requests.GetReschedule(ctx, "r1")
		gotSess, _ := sessions.GetByID(ctx, "s1")
		if gotReq.Status != domain.StatusApproved || gotReq.ProcessedAt == nil {
			t.Errorf("request = %+v", gotReq)
		}
		if !gotSess.DateTime.Equal(newDate) {
			t.Errorf("session DateTime = %v, want %v", gotSess.DateTime, newDate)
		}
	})

	t.Run("rollback", func(t *testing.T) {
		db, requests, sessions, r, sess := setup(t)
		if _, err := db.Exec(`CREATE TRIGGER reject_decision BEFORE UPDATE ON reschedule_request
			WHEN NEW.status = 'APPROVED' BEGIN SELECT RAISE(ABORT, 'decision rejected'); END`); err != nil {
			t.Fatal(err)
		}
		r.Status = domain.StatusApproved
		sess.DateTime = newDate

		if err := requests.SaveRescheduleWithSession(ctx, r, sess); err == nil {
			t.Fatal("expected error from rejected decision")
		}
		gotReq, _ := requests.GetReschedule(ctx, "r1")
		gotSess, _ := sessions.GetByID(ctx, "s1")
		if gotReq.Status != domain.StatusPending {
			t.Errorf("request Status = %q, want PENDING", gotReq.Status)
		}
		if !gotSess.DateTime.Equal(fixedTime) {
			t.Errorf("session moved to %v despite rollback", gotSess.DateTime)
		}
	})
}
