package projections

import (
	"context"
	"testing"
	"time"

	"growfitness/internal/adapters/cache"
	"growfitness/internal/domain/invoice"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

func newDashboardDeps() (DashboardDeps, *mockUserStore, *mockInvoiceStore) {
	deleted := parent("p3", "gone@test.com", "Gone")
	deleted.Status = user.StatusDeleted
	users := &mockUserStore{users: []user.User{
		parent("p1", "a@test.com", "Ann"),
		parent("p2", "b@test.com", "Ben"),
		deleted,
		coach("c1", "coach@test.com", "Cal"),
	}}
	today := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	sessions := &mockSessionStore{sessions: []session.Session{
		{ID: "s1", Type: session.TypeGroup, Status: session.StatusScheduled, DateTime: today},
		{ID: "s2", Type: session.TypeIndividual, Status: session.StatusConfirmed, DateTime: today.Add(14 * time.Hour)},
		{ID: "s3", Type: session.TypeGroup, Status: session.StatusScheduled, DateTime: today.AddDate(0, 0, 1)},
		{ID: "s4", Type: session.TypeGroup, Status: session.StatusCompleted, DateTime: today.AddDate(0, 0, -2)},
	}}
	invoices := &mockInvoiceStore{invoices: []invoice.Invoice{
		{ID: "i1", Status: invoice.StatusPaid, TotalAmount: 100, DueDate: fixedTime},
		{ID: "i2", Status: invoice.StatusPaid, TotalAmount: 50.5, DueDate: fixedTime},
		{ID: "i3", Status: invoice.StatusPending, TotalAmount: 40, DueDate: fixedTime.AddDate(0, 0, 7)},
		{ID: "i4", Status: invoice.StatusPending, TotalAmount: 30, DueDate: fixedTime.AddDate(0, 0, -1)},
		{ID: "i5", Status: invoice.StatusOverdue, TotalAmount: 20, DueDate: fixedTime.AddDate(0, -1, 0)},
	}}
	requests := &mockRequestStore{
		free: []request.FreeSessionRequest{
			{ID: "f1", Status: request.StatusPending},
			{ID: "f2", Status: request.StatusSelected},
		},
		reschedules: []request.RescheduleRequest{{ID: "r1", Status: request.StatusPending}},
	}
	deps := DashboardDeps{
		UserStore:    users,
		KidStore:     &mockKidStore{kids: []kid.Kid{{ID: "k1"}, {ID: "k2"}, {ID: "k3"}}},
		SessionStore: sessions,
		RequestStore: requests,
		InvoiceStore: invoices,
		Now:          fixedNow,
	}
	return deps, users, invoices
}

func TestQueryDashboardStats(t *testing.T) {
	deps, _, _ := newDashboardDeps()
	got, err := QueryDashboardStats(context.Background(), deps)
	if err != nil {
		t.Fatalf("QueryDashboardStats: %v", err)
	}
	want := DashboardStats{
		TotalParents:        2,
		TotalCoaches:        1,
		TotalKids:           3,
		TodaysSessions:      2,
		FreeSessionRequests: 1,
		RescheduleRequests:  1,
	}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestQueryDashboardFinance(t *testing.T) {
	deps, _, _ := newDashboardDeps()
	got, err := QueryDashboardFinance(context.Background(), deps)
	if err != nil {
		t.Fatalf("QueryDashboardFinance: %v", err)
	}
	want := DashboardFinance{TotalRevenue: 150.5, PendingInvoices: 2, PaidInvoices: 2, OverdueInvoices: 2}
	if got != want {
		t.Errorf("finance = %+v, want %+v", got, want)
	}
}

func TestDashboard_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	deps, users, invoices := newDashboardDeps()
	deps.Cache = cache.NewMemory(fixedNow)
	deps.CacheTTL = time.Minute

	for i := 0; i < 3; i++ {
		if _, err := QueryDashboardStats(ctx, deps); err != nil {
			t.Fatal(err)
		}
		if _, err := QueryDashboardFinance(ctx, deps); err != nil {
			t.Fatal(err)
		}
	}
	if users.calls != 2 {
		t.Errorf("user counts = %d, want 2 (one computation)", users.calls)
	}
	if invoices.calls != 1 {
		t.Errorf("invoice lists = %d, want 1", invoices.calls)
	}

	InvalidateDashboard(ctx, deps.Cache)
	users.users = append(users.users, parent("p9", "new@test.com", "New"))
	got, err := QueryDashboardStats(ctx, deps)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalParents != 3 {
		t.Errorf("after invalidate TotalParents = %d, want 3", got.TotalParents)
	}
}

func TestDashboard_ZeroTTLSkipsCache(t *testing.T) {
	deps, users, _ := newDashboardDeps()
	deps.Cache = cache.NewMemory(fixedNow)
	for i := 0; i < 2; i++ {
		if _, err := QueryDashboardStats(context.Background(), deps); err != nil {
			t.Fatal(err)
		}
	}
	if users.calls != 4 {
		t.Errorf("user counts = %d, want 4", users.calls)
	}
}

func TestQueryWeeklySessions(t *testing.T) {
	deps, _, _ := newDashboardDeps()
	got, err := QueryWeeklySessions(context.Background(), deps)
	if err != nil {
		t.Fatalf("QueryWeeklySessions: %v", err)
	}
	if got.Total != 4 {
		t.Errorf("Total = %d, want 4", got.Total)
	}
	if got.ByType[session.TypeGroup] != 3 || got.ByType[session.TypeIndividual] != 1 {
		t.Errorf("ByType = %v", got.ByType)
	}
	if got.ByStatus[session.StatusCancelled] != 0 || got.ByStatus[session.StatusScheduled] != 2 {
		t.Errorf("ByStatus = %v", got.ByStatus)
	}
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"wednesday", fixedTime, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"monday midnight", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"sunday night", time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"across month", time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC), time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(tt.now)
			if !start.Equal(tt.want) {
				t.Errorf("start = %v, want %v", start, tt.want)
			}
			if !end.Equal(tt.want.AddDate(0, 0, 7)) {
				t.Errorf("end = %v", end)
			}
		})
	}
}
