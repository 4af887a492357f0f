package code

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/code"
)

const codeColumns = `id, code, type, discount_percentage, discount_amount, expiry_date, usage_limit,
	usage_count, status, description, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new code store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Code by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Code, error) {
	return scanCode(s.db.QueryRowContext(ctx, "SELECT "+codeColumns+" FROM code WHERE id = ?", id).Scan)
}

// GetByCode retrieves a Code by its normalized code string.
func (s *SQLiteStore) GetByCode(ctx context.Context, code string) (domain.Code, error) {
	return scanCode(s.db.QueryRowContext(ctx, "SELECT "+codeColumns+" FROM code WHERE code = ?", domain.Normalize(code)).Scan)
}

// Save persists a Code (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, c domain.Code) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO code (`+codeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   code=excluded.code, type=excluded.type, discount_percentage=excluded.discount_percentage,
		   discount_amount=excluded.discount_amount, expiry_date=excluded.expiry_date,
		   usage_limit=excluded.usage_limit, usage_count=excluded.usage_count, status=excluded.status,
		   description=excluded.description, updated_at=excluded.updated_at`,
		c.ID, domain.Normalize(c.Code), c.Type, nullFloat(c.DiscountPercentage), nullFloat(c.DiscountAmount),
		storage.NullTime(c.ExpiryDate), c.UsageLimit, c.UsageCount, c.Status, c.Description,
		storage.FormatTime(c.CreatedAt), storage.FormatTime(c.UpdatedAt))
	return err
}

// Delete removes a Code.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM code WHERE id = ?", id)
	return err
}

// List returns codes newest first plus the unpaged total.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Code, int, error) {
	var w storage.Where
	w.Add(filter.Status != "", "status = ?", filter.Status)

	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM code"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+codeColumns+" FROM code"+w.SQL()+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	results := []domain.Code{}
	for rows.Next() {
		c, err := scanCode(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, c)
	}
	return results, total, rows.Err()
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func scanCode(scan func(dest ...any) error) (domain.Code, error) {
	var c domain.Code
	var pct, amount sql.NullFloat64
	var expiry sql.NullString
	var createdAt, updatedAt string
	err := scan(&c.ID, &c.Code, &c.Type, &pct, &amount, &expiry, &c.UsageLimit, &c.UsageCount,
		&c.Status, &c.Description, &createdAt, &updatedAt)
	if err != nil {
		return domain.Code{}, err
	}
	if pct.Valid {
		c.DiscountPercentage = &pct.Float64
	}
	if amount.Valid {
		c.DiscountAmount = &amount.Float64
	}
	c.ExpiryDate = storage.TimePtr(expiry)
	c.CreatedAt, _ = storage.ParseTime(createdAt)
	c.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return c, nil
}
