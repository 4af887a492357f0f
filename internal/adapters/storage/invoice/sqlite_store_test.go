package invoice

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/invoice"
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

func TestSQLiteStore_ItemsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	paid := fixedTime.Add(48 * time.Hour)
	in := domain.Invoice{
		ID: "i1", Type: domain.TypeParentInvoice, ParentID: "p1",
		Items: []domain.Item{
			{Description: "March group sessions", Amount: 12000},
			{Description: "Kit", Amount: 2500.5},
		},
		TotalAmount: 14500.5, Status: domain.StatusPaid, DueDate: fixedTime, PaidAt: &paid,
		ExportFields: map[string]any{"reference": "INV-0001"},
		CreatedAt:    fixedTime, UpdatedAt: fixedTime,
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetByID(ctx, "i1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 2 || got.Items[1].Description != "Kit" || got.Items[1].Amount != 2500.5 {
		t.Errorf("Items = %+v", got.Items)
	}
	if got.TotalAmount != 14500.5 || got.PaidAt == nil || !got.PaidAt.Equal(paid) {
		t.Errorf("got %+v", got)
	}
	if got.ExportFields["reference"] != "INV-0001" {
		t.Errorf("ExportFields = %v", got.ExportFields)
	}
	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing = %v", err)
	}
}

func TestSQLiteStore_ListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rows := []domain.Invoice{
		{ID: "i1", Type: domain.TypeParentInvoice, ParentID: "p1", Status: domain.StatusPending, DueDate: fixedTime},
		{ID: "i2", Type: domain.TypeParentInvoice, ParentID: "p2", Status: domain.StatusPaid, DueDate: fixedTime.Add(24 * time.Hour)},
		{ID: "i3", Type: domain.TypeCoachPayout, CoachID: "c1", Status: domain.StatusPending, DueDate: fixedTime.Add(72 * time.Hour)},
	}
	for _, inv := range rows {
		inv.Items = []domain.Item{{Description: "x", Amount: 1}}
		inv.CreatedAt, inv.UpdatedAt = fixedTime, fixedTime
		if err := s.Save(ctx, inv); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		filter  ListFilter
		wantIDs []string
	}{
		{"due date ascending", ListFilter{}, []string{"i1", "i2", "i3"}},
		{"by type", ListFilter{Type: domain.TypeCoachPayout}, []string{"i3"}},
		{"by parent", ListFilter{ParentID: "p2"}, []string{"i2"}},
		{"by status", ListFilter{Status: domain.StatusPending}, []string{"i1", "i3"}},
		{"inclusive due range", ListFilter{DueFrom: fixedTime, DueUntil: fixedTime.Add(24 * time.Hour)}, []string{"i1", "i2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.List(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if total != len(tt.wantIDs) || len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d rows (total %d), want %d", len(got), total, len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}
