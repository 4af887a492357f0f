package report

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/report"
)

const reportColumns = `id, type, title, description, status, start_date, end_date, filters, data,
	generated_at, created_by, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new report store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Report by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Report, error) {
	return scanReport(s.db.QueryRowContext(ctx, "SELECT "+reportColumns+" FROM report WHERE id = ?", id).Scan)
}

// Save persists a Report; filters and data are stored as JSON.
func (s *SQLiteStore) Save(ctx context.Context, r domain.Report) error {
	filters, err := storage.ToJSON(r.Filters)
	if err != nil {
		return err
	}
	data, err := storage.ToJSON(r.Data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO report (`+reportColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   type=excluded.type, title=excluded.title, description=excluded.description,
		   status=excluded.status, start_date=excluded.start_date, end_date=excluded.end_date,
		   filters=excluded.filters, data=excluded.data, generated_at=excluded.generated_at,
		   updated_at=excluded.updated_at`,
		r.ID, r.Type, r.Title, r.Description, r.Status, storage.NullTime(r.StartDate), storage.NullTime(r.EndDate),
		filters, data, storage.NullTime(r.GeneratedAt), r.CreatedBy,
		storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// Delete removes a Report.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM report WHERE id = ?", id)
	return err
}

// List returns reports newest first plus the unpaged total.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Report, int, error) {
	var w storage.Where
	w.Add(filter.Type != "", "type = ?", filter.Type)
	w.Add(filter.Status != "", "status = ?", filter.Status)

	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM report"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+reportColumns+" FROM report"+w.SQL()+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	results := []domain.Report{}
	for rows.Next() {
		r, err := scanReport(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, r)
	}
	return results, total, rows.Err()
}

func scanReport(scan func(dest ...any) error) (domain.Report, error) {
	var r domain.Report
	var startDate, endDate, filters, data, generatedAt sql.NullString
	var createdAt, updatedAt string
	err := scan(&r.ID, &r.Type, &r.Title, &r.Description, &r.Status, &startDate, &endDate,
		&filters, &data, &generatedAt, &r.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return domain.Report{}, err
	}
	if err := storage.FromJSON(filters, &r.Filters); err != nil {
		return domain.Report{}, err
	}
	if err := storage.FromJSON(data, &r.Data); err != nil {
		return domain.Report{}, err
	}
	r.StartDate = storage.TimePtr(startDate)
	r.EndDate = storage.TimePtr(endDate)
	r.GeneratedAt = storage.TimePtr(generatedAt)
	r.CreatedAt, _ = storage.ParseTime(createdAt)
	r.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return r, nil
}
