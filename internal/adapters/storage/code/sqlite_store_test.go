package code

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/code"
)

var fixedTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

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

func TestSQLiteStore_RoundTripAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	pct := 15.0
	expiry := fixedTime.Add(30 * 24 * time.Hour)
	in := domain.Code{
		ID: "d1", Code: " spring15 ", Type: domain.TypeDiscount, DiscountPercentage: &pct, ExpiryDate: &expiry,
		UsageLimit: 100, Status: domain.StatusActive, CreatedAt: fixedTime, UpdatedAt: fixedTime,
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetByCode(ctx, "Spring15")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.Code != "SPRING15" || got.DiscountPercentage == nil || *got.DiscountPercentage != 15 {
		t.Errorf("got %+v", got)
	}
	if got.DiscountAmount != nil || got.ExpiryDate == nil || !got.ExpiryDate.Equal(expiry) {
		t.Errorf("optional fields = %v %v", got.DiscountAmount, got.ExpiryDate)
	}

	if err := s.Save(ctx, domain.Code{ID: "d2", Code: "SPRING15", Type: domain.TypePromotion,
		Status: domain.StatusActive, CreatedAt: fixedTime, UpdatedAt: fixedTime}); err == nil {
		t.Error("expected unique violation on code")
	}

	if err := s.Delete(ctx, "d1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetByID(ctx, "d1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("after Delete = %v", err)
	}
}

func TestSQLiteStore_ListByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i, st := range []string{domain.StatusActive, domain.StatusExpired, domain.StatusActive} {
		c := domain.Code{
			ID: []string{"d1", "d2", "d3"}[i], Code: []string{"A", "B", "C"}[i], Type: domain.TypePromotion, Status: st,
			CreatedAt: fixedTime.Add(time.Duration(i) * time.Hour), UpdatedAt: fixedTime,
		}
		if err := s.Save(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	got, total, err := s.List(ctx, ListFilter{Status: domain.StatusActive})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || got[0].ID != "d3" || got[1].ID != "d1" {
		t.Errorf("active = %+v (total %d)", got, total)
	}
}
