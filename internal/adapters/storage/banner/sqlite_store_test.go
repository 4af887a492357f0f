package banner

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/banner"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
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
	return NewSQLiteStore(db)
}

func seed(t *testing.T, s *SQLiteStore, ids ...string) {
	t.Helper()
	for i, id := range ids {
		b := domain.Banner{ID: id, ImageURL: "https://cdn/" + id, Active: true, Order: i,
			TargetAudience: domain.AudienceAll, CreatedAt: fixedTime, UpdatedAt: fixedTime}
		if err := s.Save(context.Background(), b); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}
}

func order(t *testing.T, s *SQLiteStore) []string {
	t.Helper()
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(list))
	for i, b := range list {
		ids[i] = b.ID
		if b.Order != i {
			t.Errorf("banner %s order = %d, want %d", b.ID, b.Order, i)
		}
	}
	return ids
}

func TestSQLiteStore_Reorder(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "a", "b", "c")

	pos, _ := domain.ReorderPositions([]string{"c", "a", "b"})
	if err := s.Reorder(context.Background(), pos, fixedTime); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	got := order(t, s)
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSQLiteStore_ReorderUnknownIDIsAtomic(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "a", "b")

	pos, _ := domain.ReorderPositions([]string{"b", "a", "ghost"})
	err := s.Reorder(context.Background(), pos, fixedTime)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("Reorder error = %v, want sql.ErrNoRows", err)
	}
	got := order(t, s)
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("order changed after failed reorder: %v", got)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "a")
	if err := s.Delete(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetByID(context.Background(), "a"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID after delete = %v", err)
	}
}
