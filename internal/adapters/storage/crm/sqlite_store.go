package crm

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/crm"
)

const contactColumns = "id, parent_id, name, email, phone, status, source, metadata, notes, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new CRM store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Contact by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Contact, error) {
	return scanContact(s.db.QueryRowContext(ctx, "SELECT "+contactColumns+" FROM crm_contact WHERE id = ?", id).Scan)
}

// Save persists a Contact including its notes.
func (s *SQLiteStore) Save(ctx context.Context, c domain.Contact) error {
	if c.Notes == nil {
		c.Notes = []domain.Note{}
	}
	notes, err := storage.ToJSON(c.Notes)
	if err != nil {
		return err
	}
	metadata, err := storage.ToJSON(c.Metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO crm_contact (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id=excluded.parent_id, name=excluded.name, email=excluded.email,
		   phone=excluded.phone, status=excluded.status, source=excluded.source,
		   metadata=excluded.metadata, notes=excluded.notes, updated_at=excluded.updated_at`,
		c.ID, c.ParentID, c.Name, c.Email, c.Phone, c.Status, c.Source, metadata, notes,
		storage.FormatTime(c.CreatedAt), storage.FormatTime(c.UpdatedAt))
	return err
}

// Delete removes a Contact.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM crm_contact WHERE id = ?", id)
	return err
}

// List returns contacts newest first plus the unpaged total.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Contact, int, error) {
	var w storage.Where
	w.Add(filter.Status != "", "status = ?", filter.Status)
	w.Add(filter.ParentID != "", "parent_id = ?", filter.ParentID)

	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM crm_contact"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM crm_contact"+w.SQL()+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	results := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, c)
	}
	return results, total, rows.Err()
}

func scanContact(scan func(dest ...any) error) (domain.Contact, error) {
	var c domain.Contact
	var metadata, notes sql.NullString
	var createdAt, updatedAt string
	err := scan(&c.ID, &c.ParentID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.Source,
		&metadata, &notes, &createdAt, &updatedAt)
	if err != nil {
		return domain.Contact{}, err
	}
	if err := storage.FromJSON(metadata, &c.Metadata); err != nil {
		return domain.Contact{}, err
	}
	if err := storage.FromJSON(notes, &c.Notes); err != nil {
		return domain.Contact{}, err
	}
	if c.Notes == nil {
		c.Notes = []domain.Note{}
	}
	c.CreatedAt, _ = storage.ParseTime(createdAt)
	c.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return c, nil
}
