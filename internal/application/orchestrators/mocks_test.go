package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"growfitness/internal/adapters/email"
	"growfitness/internal/adapters/whatsapp"
	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/banner"
	"growfitness/internal/domain/code"
	"growfitness/internal/domain/invoice"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/outbox"
	"growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// seqID returns ids id-1, id-2, ... for tests that create several rows.
func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// --- audit ---

type mockAuditStore struct {
	entries []audit.Entry
	err     error
}

func (m *mockAuditStore) Save(_ context.Context, e audit.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockAuditStore) actions() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

func newRuntime(a *mockAuditStore) Runtime {
	return Runtime{AuditStore: a, GenerateID: seqID(), Now: fixedNow}
}

// --- users ---

type mockUserStore struct {
	users    map[string]user.User
	kids     map[string]kid.Kid
	sessions map[string]user.RefreshSession
	resets   map[string]user.PasswordResetToken
	saveErr  error
}

func newMockUserStore(users ...user.User) *mockUserStore {
	m := &mockUserStore{
		users:    make(map[string]user.User),
		kids:     make(map[string]kid.Kid),
		sessions: make(map[string]user.RefreshSession),
		resets:   make(map[string]user.PasswordResetToken),
	}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserStore) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, sql.ErrNoRows
}

func (m *mockUserStore) GetByIDs(_ context.Context, ids []string) (map[string]user.User, error) {
	out := make(map[string]user.User)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (m *mockUserStore) Save(_ context.Context, u user.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.users[u.ID] = u
	return nil
}

// SaveWithKids writes the parent and every kid, or nothing when saveErr is set.
func (m *mockUserStore) SaveWithKids(_ context.Context, u user.User, kids []kid.Kid) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.users[u.ID] = u
	for _, k := range kids {
		m.kids[k.ID] = k
	}
	return nil
}

func (m *mockUserStore) SaveRefreshSession(_ context.Context, s user.RefreshSession) error {
	m.sessions[s.TokenHash] = s
	return nil
}

func (m *mockUserStore) GetRefreshSessionByHash(_ context.Context, h string) (user.RefreshSession, error) {
	s, ok := m.sessions[h]
	if !ok {
		return user.RefreshSession{}, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockUserStore) RevokeRefreshSessions(_ context.Context, userID string, at time.Time) error {
	for h, s := range m.sessions {
		if s.UserID == userID && s.RevokedAt.IsZero() {
			s.RevokedAt = at
			m.sessions[h] = s
		}
	}
	return nil
}

func (m *mockUserStore) SaveResetToken(_ context.Context, t user.PasswordResetToken) error {
	m.resets[t.TokenHash] = t
	return nil
}

func (m *mockUserStore) GetResetTokenByHash(_ context.Context, h string) (user.PasswordResetToken, error) {
	t, ok := m.resets[h]
	if !ok {
		return user.PasswordResetToken{}, sql.ErrNoRows
	}
	return t, nil
}

// --- kids ---

type mockKidStore struct {
	kids map[string]kid.Kid
}

func newMockKidStore(kids ...kid.Kid) *mockKidStore {
	m := &mockKidStore{kids: make(map[string]kid.Kid)}
	for _, k := range kids {
		m.kids[k.ID] = k
	}
	return m
}

func (m *mockKidStore) GetByID(_ context.Context, id string) (kid.Kid, error) {
	k, ok := m.kids[id]
	if !ok {
		return kid.Kid{}, sql.ErrNoRows
	}
	return k, nil
}

func (m *mockKidStore) GetByIDs(_ context.Context, ids []string) (map[string]kid.Kid, error) {
	out := make(map[string]kid.Kid)
	for _, id := range ids {
		if k, ok := m.kids[id]; ok {
			out[id] = k
		}
	}
	return out, nil
}

func (m *mockKidStore) Save(_ context.Context, k kid.Kid) error {
	m.kids[k.ID] = k
	return nil
}

// --- sessions ---

type mockSessionStore struct {
	sessions map[string]session.Session
}

func newMockSessionStore(ss ...session.Session) *mockSessionStore {
	m := &mockSessionStore{sessions: make(map[string]session.Session)}
	for _, s := range ss {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *mockSessionStore) GetByID(_ context.Context, id string) (session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return session.Session{}, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockSessionStore) Save(_ context.Context, s session.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

// --- invoices ---

type mockInvoiceStore struct {
	invoices map[string]invoice.Invoice
}

func (m *mockInvoiceStore) GetByID(_ context.Context, id string) (invoice.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return invoice.Invoice{}, sql.ErrNoRows
	}
	return inv, nil
}

func (m *mockInvoiceStore) Save(_ context.Context, inv invoice.Invoice) error {
	m.invoices[inv.ID] = inv
	return nil
}

// --- banners ---

type mockBannerStore struct {
	banners map[string]banner.Banner
}

func (m *mockBannerStore) GetByID(_ context.Context, id string) (banner.Banner, error) {
	b, ok := m.banners[id]
	if !ok {
		return banner.Banner{}, sql.ErrNoRows
	}
	return b, nil
}

func (m *mockBannerStore) Save(_ context.Context, b banner.Banner) error {
	m.banners[b.ID] = b
	return nil
}

func (m *mockBannerStore) Delete(_ context.Context, id string) error {
	delete(m.banners, id)
	return nil
}

func (m *mockBannerStore) Reorder(_ context.Context, positions map[string]int, now time.Time) error {
	for id := range positions {
		if _, ok := m.banners[id]; !ok {
			return fmt.Errorf("banner %s: %w", id, sql.ErrNoRows)
		}
	}
	for id, pos := range positions {
		b := m.banners[id]
		b.Order = pos
		b.UpdatedAt = now
		m.banners[id] = b
	}
	return nil
}

// --- requests ---

type mockRequestStore struct {
	free        map[string]request.FreeSessionRequest
	reschedules map[string]request.RescheduleRequest
	extras      map[string]request.ExtraSessionRequest
	moved       map[string]session.Session
	txErr       error
}

func newMockRequestStore() *mockRequestStore {
	return &mockRequestStore{
		free:        make(map[string]request.FreeSessionRequest),
		reschedules: make(map[string]request.RescheduleRequest),
		extras:      make(map[string]request.ExtraSessionRequest),
		moved:       make(map[string]session.Session),
	}
}

func (m *mockRequestStore) GetFreeSession(_ context.Context, id string) (request.FreeSessionRequest, error) {
	r, ok := m.free[id]
	if !ok {
		return r, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockRequestStore) SaveFreeSession(_ context.Context, r request.FreeSessionRequest) error {
	m.free[r.ID] = r
	return nil
}

func (m *mockRequestStore) GetReschedule(_ context.Context, id string) (request.RescheduleRequest, error) {
	r, ok := m.reschedules[id]
	if !ok {
		return r, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockRequestStore) SaveReschedule(_ context.Context, r request.RescheduleRequest) error {
	m.reschedules[r.ID] = r
	return nil
}

// SaveRescheduleWithSession writes both rows or neither.
func (m *mockRequestStore) SaveRescheduleWithSession(_ context.Context, r request.RescheduleRequest, s session.Session) error {
	if m.txErr != nil {
		return m.txErr
	}
	m.reschedules[r.ID] = r
	m.moved[s.ID] = s
	return nil
}

func (m *mockRequestStore) GetExtraSession(_ context.Context, id string) (request.ExtraSessionRequest, error) {
	r, ok := m.extras[id]
	if !ok {
		return r, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockRequestStore) SaveExtraSession(_ context.Context, r request.ExtraSessionRequest) error {
	m.extras[r.ID] = r
	return nil
}

// --- codes ---

type mockCodeStore struct {
	codes map[string]code.Code
}

func (m *mockCodeStore) GetByID(_ context.Context, id string) (code.Code, error) {
	c, ok := m.codes[id]
	if !ok {
		return code.Code{}, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockCodeStore) GetByCode(_ context.Context, s string) (code.Code, error) {
	for _, c := range m.codes {
		if c.Code == s {
			return c, nil
		}
	}
	return code.Code{}, sql.ErrNoRows
}

func (m *mockCodeStore) Save(_ context.Context, c code.Code) error {
	m.codes[c.ID] = c
	return nil
}

func (m *mockCodeStore) Delete(_ context.Context, id string) error {
	delete(m.codes, id)
	return nil
}

// --- outbox ---

type mockOutboxStore struct {
	mu      sync.Mutex
	entries map[string]outbox.Entry
}

func newMockOutboxStore() *mockOutboxStore {
	return &mockOutboxStore{entries: make(map[string]outbox.Entry)}
}

func (m *mockOutboxStore) GetByID(_ context.Context, id string) (outbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return outbox.Entry{}, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockOutboxStore) Save(_ context.Context, e outbox.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

// ListPending mirrors the SQL store: due entries only, earliest schedule first.
func (m *mockOutboxStore) ListPending(_ context.Context, now time.Time, limit int) ([]outbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []outbox.Entry
	for _, e := range m.entries {
		if (e.Status == outbox.StatusPending || e.Status == outbox.StatusRetrying) && e.IsDue(now) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextAttemptAt.Equal(out[j].NextAttemptAt) {
			return out[i].NextAttemptAt.Before(out[j].NextAttemptAt)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockOutboxStore) byType(actionType string) []outbox.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []outbox.Entry
	for _, e := range m.entries {
		if e.ActionType == actionType {
			out = append(out, e)
		}
	}
	return out
}

// --- senders ---

type mockEmailSender struct {
	sent []email.SendRequest
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "msg-1", SentAt: fixedTime}, nil
}

type mockWhatsAppSender struct {
	sent []whatsapp.Message
	err  error
}

func (m *mockWhatsAppSender) Send(_ context.Context, msg whatsapp.Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return "wamid-1", nil
}

var errProvider = errors.New("provider unavailable")

// --- notifications ---

type recordingNotifier struct {
	freeSession []request.FreeSessionRequest
	changes     []string
	decisions   []request.RescheduleRequest
	invoices    []invoice.Invoice
	resetLinks  []string
}

func (r *recordingNotifier) SendFreeSessionConfirmation(_ context.Context, req request.FreeSessionRequest) {
	r.freeSession = append(r.freeSession, req)
}

func (r *recordingNotifier) SendSessionChange(_ context.Context, _ session.Session, changes string) {
	r.changes = append(r.changes, changes)
}

func (r *recordingNotifier) SendRescheduleDecision(_ context.Context, req request.RescheduleRequest) {
	r.decisions = append(r.decisions, req)
}

func (r *recordingNotifier) SendInvoiceUpdate(_ context.Context, inv invoice.Invoice) {
	r.invoices = append(r.invoices, inv)
}

func (r *recordingNotifier) SendPasswordReset(_ context.Context, _ user.User, link string, _ time.Duration) {
	r.resetLinks = append(r.resetLinks, link)
}

type stubTokens struct{}

func (stubTokens) NewAccessToken(userID, _, role string) (string, error) {
	return "access-" + userID + "-" + role, nil
}
