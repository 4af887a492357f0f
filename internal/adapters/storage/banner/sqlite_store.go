package banner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/banner"
)

const bannerColumns = "id, image_url, active, sort_order, target_audience, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new banner store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Banner by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Banner, error) {
	return scanBanner(s.db.QueryRowContext(ctx, "SELECT "+bannerColumns+" FROM banner WHERE id = ?", id).Scan)
}

// Save persists a Banner (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, b domain.Banner) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO banner (`+bannerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   image_url=excluded.image_url, active=excluded.active, sort_order=excluded.sort_order,
		   target_audience=excluded.target_audience, updated_at=excluded.updated_at`,
		b.ID, b.ImageURL, storage.BoolInt(b.Active), b.Order, b.TargetAudience,
		storage.FormatTime(b.CreatedAt), storage.FormatTime(b.UpdatedAt))
	return err
}

// Delete removes a Banner.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM banner WHERE id = ?", id)
	return err
}

// List returns every banner by display order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Banner, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+bannerColumns+" FROM banner ORDER BY sort_order ASC, created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := []domain.Banner{}
	for rows.Next() {
		b, err := scanBanner(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

// Reorder updates sort_order for each id inside a single transaction.
func (s *SQLiteStore) Reorder(ctx context.Context, positions map[string]int, now time.Time) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for id, order := range positions {
			res, err := tx.ExecContext(ctx,
				"UPDATE banner SET sort_order = ?, updated_at = ? WHERE id = ?",
				order, storage.FormatTime(now), id)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("banner %s: %w", id, sql.ErrNoRows)
			}
		}
		return nil
	})
}

func scanBanner(scan func(dest ...any) error) (domain.Banner, error) {
	var b domain.Banner
	var createdAt, updatedAt string
	if err := scan(&b.ID, &b.ImageURL, &b.Active, &b.Order, &b.TargetAudience, &createdAt, &updatedAt); err != nil {
		return domain.Banner{}, err
	}
	b.CreatedAt, _ = storage.ParseTime(createdAt)
	b.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return b, nil
}
