package invoice

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/invoice"
)

const invoiceColumns = `id, type, parent_id, coach_id, items, total_amount, status, due_date,
	paid_at, export_fields, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new invoice store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Invoice by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	return scanInvoice(s.db.QueryRowContext(ctx, "SELECT "+invoiceColumns+" FROM invoice WHERE id = ?", id).Scan)
}

// Save persists an Invoice (insert or update).
// PRE: invoice has been validated and TotalAmount computed
func (s *SQLiteStore) Save(ctx context.Context, inv domain.Invoice) error {
	items, err := storage.ToJSON(inv.Items)
	if err != nil {
		return err
	}
	exportFields, err := storage.ToJSON(inv.ExportFields)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO invoice (`+invoiceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   type=excluded.type, parent_id=excluded.parent_id, coach_id=excluded.coach_id,
		   items=excluded.items, total_amount=excluded.total_amount, status=excluded.status,
		   due_date=excluded.due_date, paid_at=excluded.paid_at,
		   export_fields=excluded.export_fields, updated_at=excluded.updated_at`,
		inv.ID, inv.Type, inv.ParentID, inv.CoachID, items, inv.TotalAmount, inv.Status,
		storage.FormatTime(inv.DueDate), storage.NullTime(inv.PaidAt), exportFields,
		storage.FormatTime(inv.CreatedAt), storage.FormatTime(inv.UpdatedAt))
	return err
}

// List returns invoices ordered by due date ascending plus the unpaged total.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Invoice, int, error) {
	var w storage.Where
	w.Add(filter.Type != "", "type = ?", filter.Type)
	w.Add(filter.ParentID != "", "parent_id = ?", filter.ParentID)
	w.Add(filter.CoachID != "", "coach_id = ?", filter.CoachID)
	w.Add(filter.Status != "", "status = ?", filter.Status)
	w.Add(!filter.DueFrom.IsZero(), "due_date >= ?", storage.FormatTime(filter.DueFrom))
	w.Add(!filter.DueUntil.IsZero(), "due_date <= ?", storage.FormatTime(filter.DueUntil))

	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM invoice"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoice"+w.SQL()+" ORDER BY due_date ASC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, inv)
	}
	return results, total, rows.Err()
}

func scanInvoice(scan func(dest ...any) error) (domain.Invoice, error) {
	var inv domain.Invoice
	var items, exportFields, paidAt sql.NullString
	var dueDate, createdAt, updatedAt string
	err := scan(&inv.ID, &inv.Type, &inv.ParentID, &inv.CoachID, &items, &inv.TotalAmount, &inv.Status,
		&dueDate, &paidAt, &exportFields, &createdAt, &updatedAt)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := storage.FromJSON(items, &inv.Items); err != nil {
		return domain.Invoice{}, err
	}
	if err := storage.FromJSON(exportFields, &inv.ExportFields); err != nil {
		return domain.Invoice{}, err
	}
	inv.PaidAt = storage.TimePtr(paidAt)
	inv.DueDate, _ = storage.ParseTime(dueDate)
	inv.CreatedAt, _ = storage.ParseTime(createdAt)
	inv.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return inv, nil
}
