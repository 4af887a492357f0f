package user

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"growfitness/internal/adapters/storage"
	kidstore "growfitness/internal/adapters/storage/kid"
	"growfitness/internal/domain/kid"
	domain "growfitness/internal/domain/user"
)

const userColumns = `id, email, phone, password_hash, role, status, parent_name, parent_location,
	coach_name, failed_logins, locked_until, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new user store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a User by its ID.
// PRE: id is non-empty
// POST: Returns the user or sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM user WHERE id = ?", id)
	return scanUser(row.Scan)
}

// GetByEmail retrieves a User by normalized email.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM user WHERE email = ?", domain.NormalizeEmail(email))
	return scanUser(row.Scan)
}

// GetByIDs loads every user in ids. Missing ids are absent from the map.
func (s *SQLiteStore) GetByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM user WHERE id IN ("+storage.Placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

// Save persists a User (insert or update).
// PRE: user has been validated
// POST: A duplicate email returns user.ErrEmailTaken
func (s *SQLiteStore) Save(ctx context.Context, u domain.User) error {
	return emailConflict(upsertUser(ctx, s.db, u))
}

// SaveWithKids inserts a parent and its kids in one transaction.
// POST: Nothing is written unless every row is
func (s *SQLiteStore) SaveWithKids(ctx context.Context, u domain.User, kids []kid.Kid) error {
	return emailConflict(storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := upsertUser(ctx, tx, u); err != nil {
			return err
		}
		for _, k := range kids {
			if err := kidstore.Upsert(ctx, tx, k); err != nil {
				return err
			}
		}
		return nil
	}))
}

// emailConflict maps the unique index on user.email to ErrEmailTaken.
func emailConflict(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") && strings.Contains(err.Error(), "user.email") {
		return domain.ErrEmailTaken
	}
	return err
}

func upsertUser(ctx context.Context, db storage.Execer, u domain.User) error {
	var parentName, parentLocation, coachName any
	if u.ParentProfile != nil {
		parentName, parentLocation = u.ParentProfile.Name, u.ParentProfile.Location
	}
	if u.CoachProfile != nil {
		coachName = u.CoachProfile.Name
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO user (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email=excluded.email, phone=excluded.phone, password_hash=excluded.password_hash,
		   role=excluded.role, status=excluded.status, parent_name=excluded.parent_name,
		   parent_location=excluded.parent_location, coach_name=excluded.coach_name,
		   failed_logins=excluded.failed_logins, locked_until=excluded.locked_until,
		   updated_at=excluded.updated_at`,
		u.ID, domain.NormalizeEmail(u.Email), u.Phone, u.PasswordHash, u.Role, u.Status,
		parentName, parentLocation, coachName, u.FailedLogins, storage.ZeroableTime(u.LockedUntil),
		storage.FormatTime(u.CreatedAt), storage.FormatTime(u.UpdatedAt))
	return err
}

func (f ListFilter) where() storage.Where {
	var w storage.Where
	w.Add(f.Role != "", "role = ?", f.Role)
	w.Add(f.Status != "", "status = ?", f.Status)
	w.Add(f.Status == "" && f.ExcludeDeleted, "status != ?", domain.StatusDeleted)
	w.Add(f.Location != "", "parent_location = ?", f.Location)
	if f.Search != "" {
		q := storage.Like(f.Search)
		w.Add(true, `(LOWER(email) LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\'
			OR LOWER(COALESCE(parent_name, '')) LIKE ? ESCAPE '\'
			OR LOWER(COALESCE(coach_name, '')) LIKE ? ESCAPE '\')`, q, q, q, q)
	}
	return w
}

// List returns one page of users, newest first, plus the unpaged total.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.User, int, error) {
	w := filter.where()
	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM user"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM user"+w.SQL()+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, u)
	}
	return results, total, rows.Err()
}

// Count returns the number of users matching filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	w := filter.where()
	return storage.Count(ctx, s.db, "SELECT COUNT(*) FROM user"+w.SQL(), w.Args()...)
}

// SaveRefreshSession persists a refresh session.
func (s *SQLiteStore) SaveRefreshSession(ctx context.Context, rs domain.RefreshSession) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_session (id, user_id, token_hash, expires_at, revoked_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET revoked_at=excluded.revoked_at`,
		rs.ID, rs.UserID, rs.TokenHash, storage.FormatTime(rs.ExpiresAt),
		storage.ZeroableTime(rs.RevokedAt), storage.FormatTime(rs.CreatedAt))
	return err
}

// GetRefreshSessionByHash finds the session for a hashed refresh token.
func (s *SQLiteStore) GetRefreshSessionByHash(ctx context.Context, tokenHash string) (domain.RefreshSession, error) {
	var rs domain.RefreshSession
	var expiresAt, createdAt string
	var revokedAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked_at, created_at FROM refresh_session WHERE token_hash = ?`,
		tokenHash).Scan(&rs.ID, &rs.UserID, &rs.TokenHash, &expiresAt, &revokedAt, &createdAt)
	if err != nil {
		return domain.RefreshSession{}, err
	}
	rs.ExpiresAt, _ = storage.ParseTime(expiresAt)
	rs.CreatedAt, _ = storage.ParseTime(createdAt)
	if t := storage.TimePtr(revokedAt); t != nil {
		rs.RevokedAt = *t
	}
	return rs, nil
}

// RevokeRefreshSessions revokes every live session of a user.
// POST: no session of userID is usable afterwards
func (s *SQLiteStore) RevokeRefreshSessions(ctx context.Context, userID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE refresh_session SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		storage.FormatTime(at), userID)
	return err
}

// SaveResetToken persists a password reset token.
func (s *SQLiteStore) SaveResetToken(ctx context.Context, t domain.PasswordResetToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO password_reset_token (id, user_id, token_hash, expires_at, used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET used=excluded.used`,
		t.ID, t.UserID, t.TokenHash, storage.FormatTime(t.ExpiresAt), storage.BoolInt(t.Used), storage.FormatTime(t.CreatedAt))
	return err
}

// GetResetTokenByHash finds a reset token by its hash.
func (s *SQLiteStore) GetResetTokenByHash(ctx context.Context, tokenHash string) (domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	var expiresAt, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, used, created_at FROM password_reset_token WHERE token_hash = ?`,
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &expiresAt, &t.Used, &createdAt)
	if err != nil {
		return domain.PasswordResetToken{}, err
	}
	t.ExpiresAt, _ = storage.ParseTime(expiresAt)
	t.CreatedAt, _ = storage.ParseTime(createdAt)
	return t, nil
}

// scanUser extracts a User from a row scanner function.
func scanUser(scan func(dest ...any) error) (domain.User, error) {
	var u domain.User
	var parentName, parentLocation, coachName, lockedUntil sql.NullString
	var createdAt, updatedAt string
	err := scan(&u.ID, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status,
		&parentName, &parentLocation, &coachName, &u.FailedLogins, &lockedUntil, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, err
	}
	if parentName.Valid {
		u.ParentProfile = &domain.ParentProfile{Name: parentName.String, Location: parentLocation.String}
	}
	if coachName.Valid {
		u.CoachProfile = &domain.CoachProfile{Name: coachName.String}
	}
	if t := storage.TimePtr(lockedUntil); t != nil {
		u.LockedUntil = *t
	}
	u.CreatedAt, _ = storage.ParseTime(createdAt)
	u.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return u, nil
}
