package projections

import (
	"context"
	"fmt"
	"time"

	auditStore "growfitness/internal/adapters/storage/audit"
	"growfitness/internal/application/listutil"
	"growfitness/internal/domain/audit"
)

// ActivityLogLimit is how many entries the dashboard feed shows.
const ActivityLogLimit = 10

// AuditEntryView is an audit entry with its actor populated.
type AuditEntryView struct {
	audit.Entry
	Actor *UserRef `json:"actor,omitempty"`
}

// AuditQueryDeps holds dependencies for audit queries.
type AuditQueryDeps struct {
	AuditStore AuditReader
	UserStore  UserReader
}

// ListAuditQuery carries audit list parameters. Dates are inclusive.
type ListAuditQuery struct {
	listutil.PageParams
	ActorID    string
	EntityType string
	StartDate  time.Time
	EndDate    time.Time
}

// QueryListAudit lists audit entries newest first.
func QueryListAudit(ctx context.Context, query ListAuditQuery, deps AuditQueryDeps) (listutil.Page[AuditEntryView], error) {
	entries, total, err := deps.AuditStore.List(ctx, auditStore.Filter{
		Limit:      query.Limit,
		Offset:     query.Offset(),
		ActorID:    query.ActorID,
		EntityType: query.EntityType,
		From:       query.StartDate,
		Until:      query.EndDate,
	})
	if err != nil {
		return listutil.Page[AuditEntryView]{}, fmt.Errorf("list audit entries: %w", err)
	}
	views, err := populateAudit(ctx, entries, deps.UserStore)
	if err != nil {
		return listutil.Page[AuditEntryView]{}, err
	}
	return listutil.NewPage(views, total, query.PageParams), nil
}

// QueryActivityLogs returns the most recent audit entries.
func QueryActivityLogs(ctx context.Context, deps AuditQueryDeps) ([]AuditEntryView, error) {
	entries, _, err := deps.AuditStore.List(ctx, auditStore.Filter{Limit: ActivityLogLimit})
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return populateAudit(ctx, entries, deps.UserStore)
}

func populateAudit(ctx context.Context, entries []audit.Entry, users UserReader) ([]AuditEntryView, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.ActorID != audit.ActorPublic {
			ids = append(ids, e.ActorID)
		}
	}
	actors, err := usersByID(ctx, users, ids)
	if err != nil {
		return nil, err
	}
	views := make([]AuditEntryView, len(entries))
	for i, e := range entries {
		v := AuditEntryView{Entry: e}
		if u, ok := actors[e.ActorID]; ok {
			v.Actor = &UserRef{ID: u.ID, Email: u.Email, Role: u.Role}
		}
		views[i] = v
	}
	return views, nil
}
