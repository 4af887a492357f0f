package session

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/session"
)

const sessionColumns = `id, type, coach_id, location_id, date_time, duration, capacity, kids,
	kid_id, status, is_free_session, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Session by its ID.
// PRE: id is non-empty
// POST: Returns the session or sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	return scanSession(s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM session WHERE id = ?", id).Scan)
}

// Save persists a Session (insert or update).
// PRE: session has been validated
func (s *SQLiteStore) Save(ctx context.Context, sess domain.Session) error {
	return Upsert(ctx, s.db, sess)
}

// Upsert writes sess through db, which may be a transaction.
func Upsert(ctx context.Context, db storage.Execer, sess domain.Session) error {
	if sess.Kids == nil {
		sess.Kids = []string{}
	}
	kids, err := storage.ToJSON(sess.Kids)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO session (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   type=excluded.type, coach_id=excluded.coach_id, location_id=excluded.location_id,
		   date_time=excluded.date_time, duration=excluded.duration, capacity=excluded.capacity,
		   kids=excluded.kids, kid_id=excluded.kid_id, status=excluded.status,
		   is_free_session=excluded.is_free_session, updated_at=excluded.updated_at`,
		sess.ID, sess.Type, sess.CoachID, sess.LocationID, storage.FormatTime(sess.DateTime),
		sess.Duration, sess.Capacity, kids, sess.KidID, sess.Status, storage.BoolInt(sess.IsFreeSession),
		storage.FormatTime(sess.CreatedAt), storage.FormatTime(sess.UpdatedAt))
	return err
}

// Delete removes a Session.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE id = ?", id)
	return err
}

// List returns sessions ordered by date_time ascending plus the unpaged total.
// Timestamps are stored in UTC with a fixed layout, so text comparison orders them.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Session, int, error) {
	var w storage.Where
	w.Add(filter.CoachID != "", "coach_id = ?", filter.CoachID)
	w.Add(filter.LocationID != "", "location_id = ?", filter.LocationID)
	w.Add(filter.Status != "", "status = ?", filter.Status)
	w.Add(filter.Type != "", "type = ?", filter.Type)
	w.Add(!filter.From.IsZero(), "date_time >= ?", storage.FormatTime(filter.From))
	w.Add(!filter.Until.IsZero(), "date_time <= ?", storage.FormatTime(filter.Until))
	w.Add(!filter.Before.IsZero(), "date_time < ?", storage.FormatTime(filter.Before))

	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM session"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM session"+w.SQL()+" ORDER BY date_time ASC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := []domain.Session{}
	for rows.Next() {
		sess, err := scanSession(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, sess)
	}
	return results, total, rows.Err()
}

func scanSession(scan func(dest ...any) error) (domain.Session, error) {
	var sess domain.Session
	var kids sql.NullString
	var dateTime, createdAt, updatedAt string
	err := scan(&sess.ID, &sess.Type, &sess.CoachID, &sess.LocationID, &dateTime, &sess.Duration,
		&sess.Capacity, &kids, &sess.KidID, &sess.Status, &sess.IsFreeSession, &createdAt, &updatedAt)
	if err != nil {
		return domain.Session{}, err
	}
	if err := storage.FromJSON(kids, &sess.Kids); err != nil {
		return domain.Session{}, err
	}
	if sess.Kids == nil {
		sess.Kids = []string{}
	}
	sess.DateTime, _ = storage.ParseTime(dateTime)
	sess.CreatedAt, _ = storage.ParseTime(createdAt)
	sess.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return sess, nil
}
