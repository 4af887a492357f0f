package projections

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"growfitness/internal/adapters/cache"
	invoiceStore "growfitness/internal/adapters/storage/invoice"
	requestStore "growfitness/internal/adapters/storage/request"
	sessionStore "growfitness/internal/adapters/storage/session"
	userStore "growfitness/internal/adapters/storage/user"
	"growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

// Cache keys for dashboard aggregates.
const (
	CacheKeyDashboardStats   = "dashboard:stats"
	CacheKeyDashboardFinance = "dashboard:finance"
)

// DashboardDeps holds dependencies for the dashboard projections.
type DashboardDeps struct {
	UserStore    UserReader
	KidStore     KidReader
	SessionStore SessionReader
	RequestStore RequestReader
	InvoiceStore InvoiceReader
	Cache        cache.Cache
	CacheTTL     time.Duration
	Now          func() time.Time
}

// DashboardStats are the headline counters.
type DashboardStats struct {
	TotalParents        int `json:"totalParents"`
	TotalCoaches        int `json:"totalCoaches"`
	TotalKids           int `json:"totalKids"`
	TodaysSessions      int `json:"todaysSessions"`
	FreeSessionRequests int `json:"freeSessionRequests"`
	RescheduleRequests  int `json:"rescheduleRequests"`
}

// DashboardFinance is revenue plus invoice counts.
type DashboardFinance struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	PendingInvoices int     `json:"pendingInvoices"`
	PaidInvoices    int     `json:"paidInvoices"`
	OverdueInvoices int     `json:"overdueInvoices"`
}

// QueryDashboardStats counts users, kids, today's sessions and pending requests.
// PRE: deps.Now is set
// POST: Parent and coach counts exclude DELETED; today is the current UTC day
func QueryDashboardStats(ctx context.Context, deps DashboardDeps) (DashboardStats, error) {
	return cached(ctx, deps, CacheKeyDashboardStats, func() (DashboardStats, error) {
		var st DashboardStats
		var err error
		if st.TotalParents, err = deps.UserStore.Count(ctx, userStore.ListFilter{Role: user.RoleParent, ExcludeDeleted: true}); err != nil {
			return st, fmt.Errorf("count parents: %w", err)
		}
		if st.TotalCoaches, err = deps.UserStore.Count(ctx, userStore.ListFilter{Role: user.RoleCoach, ExcludeDeleted: true}); err != nil {
			return st, fmt.Errorf("count coaches: %w", err)
		}
		if st.TotalKids, err = deps.KidStore.Count(ctx); err != nil {
			return st, fmt.Errorf("count kids: %w", err)
		}

		now := deps.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if _, st.TodaysSessions, err = deps.SessionStore.List(ctx, sessionStore.ListFilter{Limit: 1, From: today, Before: today.AddDate(0, 0, 1)}); err != nil {
			return st, fmt.Errorf("count today's sessions: %w", err)
		}

		pending := requestStore.ListFilter{Limit: 1, Status: request.StatusPending}
		if _, st.FreeSessionRequests, err = deps.RequestStore.ListFreeSessions(ctx, pending); err != nil {
			return st, fmt.Errorf("count free session requests: %w", err)
		}
		if _, st.RescheduleRequests, err = deps.RequestStore.ListReschedules(ctx, pending); err != nil {
			return st, fmt.Errorf("count reschedule requests: %w", err)
		}
		return st, nil
	})
}

// QueryDashboardFinance totals paid revenue and counts invoices by state.
// POST: overdue counts OVERDUE invoices and PENDING ones past due
func QueryDashboardFinance(ctx context.Context, deps DashboardDeps) (DashboardFinance, error) {
	return cached(ctx, deps, CacheKeyDashboardFinance, func() (DashboardFinance, error) {
		list, _, err := deps.InvoiceStore.List(ctx, invoiceStore.ListFilter{})
		if err != nil {
			return DashboardFinance{}, fmt.Errorf("list invoices: %w", err)
		}
		sum := summarizeInvoices(list, deps.Now())
		return DashboardFinance{
			TotalRevenue:    sum.TotalRevenue,
			PendingInvoices: sum.PendingCount,
			PaidInvoices:    sum.PaidCount,
			OverdueInvoices: sum.OverdueCount,
		}, nil
	})
}

// QueryWeeklySessions summarizes the current ISO week.
func QueryWeeklySessions(ctx context.Context, deps DashboardDeps) (session.Summary, error) {
	start, end := WeekBounds(deps.Now())
	return QueryWeeklySummary(ctx, start, end, deps.SessionStore)
}

// InvalidateDashboard drops cached aggregates after a write that changes them.
func InvalidateDashboard(ctx context.Context, c cache.Cache) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, CacheKeyDashboardStats, CacheKeyDashboardFinance); err != nil {
		slog.Warn("cache_invalidate_failed", "error", err)
	}
}

// cached serves key from deps.Cache, computing and storing it on a miss.
// Cache errors are logged and fall through to compute.
func cached[T any](ctx context.Context, deps DashboardDeps, key string, compute func() (T, error)) (T, error) {
	if deps.Cache == nil || deps.CacheTTL <= 0 {
		return compute()
	}
	var hit T
	err := deps.Cache.Get(ctx, key, &hit)
	if err == nil {
		return hit, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("cache_get_failed", "key", key, "error", err)
	}

	v, err := compute()
	if err != nil {
		return v, err
	}
	if err := deps.Cache.Set(ctx, key, v, deps.CacheTTL); err != nil {
		slog.Warn("cache_set_failed", "key", key, "error", err)
	}
	return v, nil
}

