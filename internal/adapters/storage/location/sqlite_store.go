package location

import (
	"context"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/location"
)

const locationColumns = "id, name, address, is_active, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new location store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Location by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Location, error) {
	return scanLocation(s.db.QueryRowContext(ctx, "SELECT "+locationColumns+" FROM location WHERE id = ?", id).Scan)
}

// GetByIDs loads every location in ids.
func (s *SQLiteStore) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Location, error) {
	out := make(map[string]domain.Location, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+locationColumns+" FROM location WHERE id IN ("+storage.Placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		l, err := scanLocation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out[l.ID] = l
	}
	return out, rows.Err()
}

// Save persists a Location (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, l domain.Location) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO location (`+locationColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, address=excluded.address, is_active=excluded.is_active,
		   updated_at=excluded.updated_at`,
		l.ID, l.Name, l.Address, storage.BoolInt(l.IsActive),
		storage.FormatTime(l.CreatedAt), storage.FormatTime(l.UpdatedAt))
	return err
}

// Delete removes a Location.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM location WHERE id = ?", id)
	return err
}

// List returns every location sorted by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Location, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+locationColumns+" FROM location ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := []domain.Location{}
	for rows.Next() {
		l, err := scanLocation(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, l)
	}
	return results, rows.Err()
}

func scanLocation(scan func(dest ...any) error) (domain.Location, error) {
	var l domain.Location
	var createdAt, updatedAt string
	if err := scan(&l.ID, &l.Name, &l.Address, &l.IsActive, &createdAt, &updatedAt); err != nil {
		return domain.Location{}, err
	}
	l.CreatedAt, _ = storage.ParseTime(createdAt)
	l.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return l, nil
}
