package request

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	sessionstore "growfitness/internal/adapters/storage/session"
	domain "growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
)

const (
	freeSessionColumns = `id, parent_name, phone, email, kid_name, session_type, location_id,
		preferred_date_time, selected_session_id, status, created_at, updated_at`
	rescheduleColumns   = "id, session_id, requested_by, new_date_time, reason, status, processed_at, created_at, updated_at"
	extraSessionColumns = `id, parent_id, kid_id, coach_id, session_type, location_id, preferred_date_time,
		status, created_at, updated_at`
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new request store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetFreeSession retrieves a free session request.
func (s *SQLiteStore) GetFreeSession(ctx context.Context, id string) (domain.FreeSessionRequest, error) {
	return scanFreeSession(s.db.QueryRowContext(ctx,
		"SELECT "+freeSessionColumns+" FROM free_session_request WHERE id = ?", id).Scan)
}

// SaveFreeSession persists a free session request.
func (s *SQLiteStore) SaveFreeSession(ctx context.Context, r domain.FreeSessionRequest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO free_session_request (`+freeSessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   selected_session_id=excluded.selected_session_id, status=excluded.status,
		   updated_at=excluded.updated_at`,
		r.ID, r.ParentName, r.Phone, r.Email, r.KidName, r.SessionType, r.LocationID,
		storage.NullTime(r.PreferredDateTime), r.SelectedSessionID, r.Status,
		storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// ListFreeSessions returns free session requests newest first.
func (s *SQLiteStore) ListFreeSessions(ctx context.Context, filter ListFilter) ([]domain.FreeSessionRequest, int, error) {
	where, wargs := filter.where()
	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM free_session_request"+where, wargs...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(wargs, filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+freeSessionColumns+" FROM free_session_request"+where+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	results := []domain.FreeSessionRequest{}
	for rows.Next() {
		r, err := scanFreeSession(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, r)
	}
	return results, total, rows.Err()
}

// GetReschedule retrieves a reschedule request.
func (s *SQLiteStore) GetReschedule(ctx context.Context, id string) (domain.RescheduleRequest, error) {
	return scanReschedule(s.db.QueryRowContext(ctx,
		"SELECT "+rescheduleColumns+" FROM reschedule_request WHERE id = ?", id).Scan)
}

// SaveReschedule persists a reschedule request.
func (s *SQLiteStore) SaveReschedule(ctx context.Context, r domain.RescheduleRequest) error {
	return upsertReschedule(ctx, s.db, r)
}

// SaveRescheduleWithSession writes the decided request and the moved session in one transaction.
func (s *SQLiteStore) SaveRescheduleWithSession(ctx context.Context, r domain.RescheduleRequest, sess session.Session) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := sessionstore.Upsert(ctx, tx, sess); err != nil {
			return err
		}
		return upsertReschedule(ctx, tx, r)
	})
}

func upsertReschedule(ctx context.Context, db storage.Execer, r domain.RescheduleRequest) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO reschedule_request (`+rescheduleColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, processed_at=excluded.processed_at, updated_at=excluded.updated_at`,
		r.ID, r.SessionID, r.RequestedBy, storage.FormatTime(r.NewDateTime), r.Reason, r.Status,
		storage.NullTime(r.ProcessedAt), storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// ListReschedules returns reschedule requests newest first.
func (s *SQLiteStore) ListReschedules(ctx context.Context, filter ListFilter) ([]domain.RescheduleRequest, int, error) {
	where, wargs := filter.where()
	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM reschedule_request"+where, wargs...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(wargs, filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+rescheduleColumns+" FROM reschedule_request"+where+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	results := []domain.RescheduleRequest{}
	for rows.Next() {
		r, err := scanReschedule(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, r)
	}
	return results, total, rows.Err()
}

// GetExtraSession retrieves an extra session request.
func (s *SQLiteStore) GetExtraSession(ctx context.Context, id string) (domain.ExtraSessionRequest, error) {
	return scanExtraSession(s.db.QueryRowContext(ctx,
		"SELECT "+extraSessionColumns+" FROM extra_session_request WHERE id = ?", id).Scan)
}

// SaveExtraSession persists an extra session request.
func (s *SQLiteStore) SaveExtraSession(ctx context.Context, r domain.ExtraSessionRequest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extra_session_request (`+extraSessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status=excluded.status, updated_at=excluded.updated_at`,
		r.ID, r.ParentID, r.KidID, r.CoachID, r.SessionType, r.LocationID,
		storage.FormatTime(r.PreferredDateTime), r.Status,
		storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// ListExtraSessions returns extra session requests newest first.
func (s *SQLiteStore) ListExtraSessions(ctx context.Context, filter ListFilter) ([]domain.ExtraSessionRequest, int, error) {
	where, wargs := filter.where()
	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM extra_session_request"+where, wargs...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(wargs, filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+extraSessionColumns+" FROM extra_session_request"+where+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	results := []domain.ExtraSessionRequest{}
	for rows.Next() {
		r, err := scanExtraSession(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, r)
	}
	return results, total, rows.Err()
}

func scanFreeSession(scan func(dest ...any) error) (domain.FreeSessionRequest, error) {
	var r domain.FreeSessionRequest
	var preferred sql.NullString
	var createdAt, updatedAt string
	err := scan(&r.ID, &r.ParentName, &r.Phone, &r.Email, &r.KidName, &r.SessionType, &r.LocationID,
		&preferred, &r.SelectedSessionID, &r.Status, &createdAt, &updatedAt)
	if err != nil {
		return domain.FreeSessionRequest{}, err
	}
	r.PreferredDateTime = storage.TimePtr(preferred)
	r.CreatedAt, _ = storage.ParseTime(createdAt)
	r.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return r, nil
}

func scanReschedule(scan func(dest ...any) error) (domain.RescheduleRequest, error) {
	var r domain.RescheduleRequest
	var processedAt sql.NullString
	var newDateTime, createdAt, updatedAt string
	err := scan(&r.ID, &r.SessionID, &r.RequestedBy, &newDateTime, &r.Reason, &r.Status,
		&processedAt, &createdAt, &updatedAt)
	if err != nil {
		return domain.RescheduleRequest{}, err
	}
	r.ProcessedAt = storage.TimePtr(processedAt)
	r.NewDateTime, _ = storage.ParseTime(newDateTime)
	r.CreatedAt, _ = storage.ParseTime(createdAt)
	r.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return r, nil
}

func scanExtraSession(scan func(dest ...any) error) (domain.ExtraSessionRequest, error) {
	var r domain.ExtraSessionRequest
	var preferred, createdAt, updatedAt string
	err := scan(&r.ID, &r.ParentID, &r.KidID, &r.CoachID, &r.SessionType, &r.LocationID,
		&preferred, &r.Status, &createdAt, &updatedAt)
	if err != nil {
		return domain.ExtraSessionRequest{}, err
	}
	r.PreferredDateTime, _ = storage.ParseTime(preferred)
	r.CreatedAt, _ = storage.ParseTime(createdAt)
	r.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return r, nil
}
