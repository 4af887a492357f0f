package audit

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/audit"
)

const auditColumns = "id, actor_id, action, entity_type, entity_id, metadata, timestamp"

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit entry store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save appends an audit entry.
// PRE: entry is valid
// POST: Entry is persisted; existing entries are never rewritten
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	metadata, err := storage.ToJSON(e.Metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_entry (`+auditColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.Action, e.EntityType, e.EntityID, metadata, storage.FormatTime(e.Timestamp))
	return err
}

// List returns audit entries with optional filtering.
// POST: Returns entries ordered by timestamp desc
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]domain.Entry, int, error) {
	var w storage.Where
	w.Add(filter.ActorID != "", "actor_id = ?", filter.ActorID)
	w.Add(filter.EntityType != "", "entity_type = ?", filter.EntityType)
	w.Add(!filter.From.IsZero(), "timestamp >= ?", storage.FormatTime(filter.From))
	w.Add(!filter.Until.IsZero(), "timestamp <= ?", storage.FormatTime(filter.Until))

	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM audit_entry"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+auditColumns+" FROM audit_entry"+w.SQL()+" ORDER BY timestamp DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		var metadata sql.NullString
		var ts string
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &metadata, &ts); err != nil {
			return nil, 0, err
		}
		if err := storage.FromJSON(metadata, &e.Metadata); err != nil {
			return nil, 0, err
		}
		e.Timestamp, _ = storage.ParseTime(ts)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
