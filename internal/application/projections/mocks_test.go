package projections

import (
	"context"
	"database/sql"
	"sort"
	"time"

	auditStore "growfitness/internal/adapters/storage/audit"
	invoiceStore "growfitness/internal/adapters/storage/invoice"
	kidStore "growfitness/internal/adapters/storage/kid"
	requestStore "growfitness/internal/adapters/storage/request"
	sessionStore "growfitness/internal/adapters/storage/session"
	userStore "growfitness/internal/adapters/storage/user"
	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/invoice"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/location"
	"growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

var fixedTime = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) // a Wednesday

func fixedNow() time.Time { return fixedTime }

// page applies limit and offset the way the sqlite stores do.
func page[T any](all []T, limit, offset int) ([]T, int) {
	total := len(all)
	if limit <= 0 {
		return all, total
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total
}

type mockUserStore struct {
	users []user.User
	calls int
}

// GetByID returns a seeded user.
// PRE: id is non-empty
// POST: Returns sql.ErrNoRows when absent
func (m *mockUserStore) GetByID(_ context.Context, id string) (user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, sql.ErrNoRows
}

// GetByIDs returns the seeded users present in ids.
func (m *mockUserStore) GetByIDs(_ context.Context, ids []string) (map[string]user.User, error) {
	out := map[string]user.User{}
	for _, id := range ids {
		for _, u := range m.users {
			if u.ID == id {
				out[id] = u
			}
		}
	}
	return out, nil
}

// List filters by role and status.
// PRE: filter is valid
// POST: Returns one page and the unpaged total
func (m *mockUserStore) List(_ context.Context, f userStore.ListFilter) ([]user.User, int, error) {
	var out []user.User
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.ExcludeDeleted && u.Status == user.StatusDeleted {
			continue
		}
		out = append(out, u)
	}
	rows, total := page(out, f.Limit, f.Offset)
	return rows, total, nil
}

// Count counts matching users.
func (m *mockUserStore) Count(ctx context.Context, f userStore.ListFilter) (int, error) {
	m.calls++
	f.Limit = 0
	_, total, err := m.List(ctx, f)
	return total, err
}

type mockKidStore struct {
	kids []kid.Kid
}

// GetByID returns a seeded kid.
func (m *mockKidStore) GetByID(_ context.Context, id string) (kid.Kid, error) {
	for _, k := range m.kids {
		if k.ID == id {
			return k, nil
		}
	}
	return kid.Kid{}, sql.ErrNoRows
}

// GetByIDs returns the seeded kids present in ids.
func (m *mockKidStore) GetByIDs(_ context.Context, ids []string) (map[string]kid.Kid, error) {
	out := map[string]kid.Kid{}
	for _, id := range ids {
		for _, k := range m.kids {
			if k.ID == id {
				out[id] = k
			}
		}
	}
	return out, nil
}

// List filters by parent and session type.
func (m *mockKidStore) List(_ context.Context, f kidStore.ListFilter) ([]kid.Kid, int, error) {
	var out []kid.Kid
	for _, k := range m.kids {
		if f.ParentID != "" && k.ParentID != f.ParentID {
			continue
		}
		if f.SessionType != "" && k.SessionType != f.SessionType {
			continue
		}
		out = append(out, k)
	}
	rows, total := page(out, f.Limit, f.Offset)
	return rows, total, nil
}

// Count returns the number of seeded kids.
func (m *mockKidStore) Count(context.Context) (int, error) {
	return len(m.kids), nil
}

type mockLocationStore struct {
	locations []location.Location
}

// GetByID returns a seeded location.
func (m *mockLocationStore) GetByID(_ context.Context, id string) (location.Location, error) {
	for _, l := range m.locations {
		if l.ID == id {
			return l, nil
		}
	}
	return location.Location{}, sql.ErrNoRows
}

// GetByIDs returns the seeded locations present in ids.
func (m *mockLocationStore) GetByIDs(_ context.Context, ids []string) (map[string]location.Location, error) {
	out := map[string]location.Location{}
	for _, id := range ids {
		for _, l := range m.locations {
			if l.ID == id {
				out[id] = l
			}
		}
	}
	return out, nil
}

type mockSessionStore struct {
	sessions []session.Session
}

// GetByID returns a seeded session.
func (m *mockSessionStore) GetByID(_ context.Context, id string) (session.Session, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return session.Session{}, sql.ErrNoRows
}

// List applies the store's filter semantics and orders by dateTime.
// PRE: filter is valid
// POST: From and Until are inclusive, Before is exclusive
func (m *mockSessionStore) List(_ context.Context, f sessionStore.ListFilter) ([]session.Session, int, error) {
	var out []session.Session
	for _, s := range m.sessions {
		switch {
		case f.CoachID != "" && s.CoachID != f.CoachID,
			f.LocationID != "" && s.LocationID != f.LocationID,
			f.Status != "" && s.Status != f.Status,
			f.Type != "" && s.Type != f.Type,
			!f.From.IsZero() && s.DateTime.Before(f.From),
			!f.Until.IsZero() && s.DateTime.After(f.Until),
			!f.Before.IsZero() && !s.DateTime.Before(f.Before):
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	rows, total := page(out, f.Limit, f.Offset)
	return rows, total, nil
}

type mockInvoiceStore struct {
	invoices []invoice.Invoice
	calls    int
}

// GetByID returns a seeded invoice.
func (m *mockInvoiceStore) GetByID(_ context.Context, id string) (invoice.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return invoice.Invoice{}, sql.ErrNoRows
}

// List filters by type, status and due range.
func (m *mockInvoiceStore) List(_ context.Context, f invoiceStore.ListFilter) ([]invoice.Invoice, int, error) {
	m.calls++
	var out []invoice.Invoice
	for _, inv := range m.invoices {
		switch {
		case f.Type != "" && inv.Type != f.Type,
			f.Status != "" && inv.Status != f.Status,
			f.ParentID != "" && inv.ParentID != f.ParentID,
			f.CoachID != "" && inv.CoachID != f.CoachID,
			!f.DueFrom.IsZero() && inv.DueDate.Before(f.DueFrom),
			!f.DueUntil.IsZero() && inv.DueDate.After(f.DueUntil):
			continue
		}
		out = append(out, inv)
	}
	rows, total := page(out, f.Limit, f.Offset)
	return rows, total, nil
}

type mockRequestStore struct {
	free        []request.FreeSessionRequest
	reschedules []request.RescheduleRequest
	extra       []request.ExtraSessionRequest
}

// ListFreeSessions filters by status.
func (m *mockRequestStore) ListFreeSessions(_ context.Context, f requestStore.ListFilter) ([]request.FreeSessionRequest, int, error) {
	var out []request.FreeSessionRequest
	for _, r := range m.free {
		if f.Status == "" || r.Status == f.Status {
			out = append(out, r)
		}
	}
	rows, total := page(out, f.Limit, f.Offset)
	return rows, total, nil
}

// ListReschedules filters by status.
func (m *mockRequestStore) ListReschedules(_ context.Context, f requestStore.ListFilter) ([]request.RescheduleRequest, int, error) {
	var out []request.RescheduleRequest
	for _, r := range m.reschedules {
		if f.Status == "" || r.Status == f.Status {
			out = append(out, r)
		}
	}
	rows, total := page(out, f.Limit, f.Offset)
	return rows, total, nil
}

// ListExtraSessions filters by status.
func (m *mockRequestStore) ListExtraSessions(_ context.Context, f requestStore.ListFilter) ([]request.ExtraSessionRequest, int, error) {
	var out []request.ExtraSessionRequest
	for _, r := range m.extra {
		if f.Status == "" || r.Status == f.Status {
			out = append(out, r)
		}
	}
	rows, total := page(out, f.Limit, f.Offset)
	return rows, total, nil
}

type mockAuditStore struct {
	entries []audit.Entry
	last    auditStore.Filter
}

// List records the filter and returns the seeded entries.
func (m *mockAuditStore) List(_ context.Context, f auditStore.Filter) ([]audit.Entry, int, error) {
	m.last = f
	rows, total := page(m.entries, f.Limit, f.Offset)
	return rows, total, nil
}

func parent(id, email, name string) user.User {
	return user.User{ID: id, Email: email, Role: user.RoleParent, Status: user.StatusActive, ParentProfile: &user.ParentProfile{Name: name}}
}

func coach(id, email, name string) user.User {
	return user.User{ID: id, Email: email, Role: user.RoleCoach, Status: user.StatusActive, CoachProfile: &user.CoachProfile{Name: name}}
}
