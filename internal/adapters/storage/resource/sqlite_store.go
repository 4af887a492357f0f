package resource

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/resource"
)

const resourceColumns = `id, title, description, type, content, file_url, external_url, target_audience,
	tags, created_by, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new resource store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Resource by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Resource, error) {
	return scanResource(s.db.QueryRowContext(ctx, "SELECT "+resourceColumns+" FROM resource WHERE id = ?", id).Scan)
}

// Save persists a Resource (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, r domain.Resource) error {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	tags, err := storage.ToJSON(r.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resource (`+resourceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description, type=excluded.type,
		   content=excluded.content, file_url=excluded.file_url, external_url=excluded.external_url,
		   target_audience=excluded.target_audience, tags=excluded.tags, updated_at=excluded.updated_at`,
		r.ID, r.Title, r.Description, r.Type, r.Content, r.FileURL, r.ExternalURL, r.TargetAudience,
		tags, r.CreatedBy, storage.FormatTime(r.CreatedAt), storage.FormatTime(r.UpdatedAt))
	return err
}

// Delete removes a Resource.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM resource WHERE id = ?", id)
	return err
}

// List returns resources newest first plus the unpaged total.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Resource, int, error) {
	var w storage.Where
	w.Add(filter.TargetAudience != "", "target_audience = ?", filter.TargetAudience)
	w.Add(filter.Type != "", "type = ?", filter.Type)

	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM resource"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+resourceColumns+" FROM resource"+w.SQL()+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	results := []domain.Resource{}
	for rows.Next() {
		r, err := scanResource(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, r)
	}
	return results, total, rows.Err()
}

func scanResource(scan func(dest ...any) error) (domain.Resource, error) {
	var r domain.Resource
	var tags sql.NullString
	var createdAt, updatedAt string
	err := scan(&r.ID, &r.Title, &r.Description, &r.Type, &r.Content, &r.FileURL, &r.ExternalURL,
		&r.TargetAudience, &tags, &r.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return domain.Resource{}, err
	}
	if err := storage.FromJSON(tags, &r.Tags); err != nil {
		return domain.Resource{}, err
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	r.CreatedAt, _ = storage.ParseTime(createdAt)
	r.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return r, nil
}
