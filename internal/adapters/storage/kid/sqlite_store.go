package kid

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/kid"
)

const kidColumns = `id, parent_id, name, gender, birth_date, goal, currently_in_sports,
	medical_conditions, session_type, achievements, milestones, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new kid store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Kid by its ID.
// PRE: id is non-empty
// POST: Returns the kid or sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Kid, error) {
	return scanKid(s.db.QueryRowContext(ctx, "SELECT "+kidColumns+" FROM kid WHERE id = ?", id).Scan)
}

// GetByIDs loads every kid in ids.
func (s *SQLiteStore) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Kid, error) {
	out := make(map[string]domain.Kid, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+kidColumns+" FROM kid WHERE id IN ("+storage.Placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		k, err := scanKid(rows.Scan)
		if err != nil {
			return nil, err
		}
		out[k.ID] = k
	}
	return out, rows.Err()
}

// Save persists a Kid (insert or update).
// PRE: kid has been validated
func (s *SQLiteStore) Save(ctx context.Context, k domain.Kid) error {
	return Upsert(ctx, s.db, k)
}

// Upsert writes k through db, which may be a transaction.
func Upsert(ctx context.Context, db storage.Execer, k domain.Kid) error {
	k.Normalize()
	medical, err := storage.ToJSON(k.MedicalConditions)
	if err != nil {
		return err
	}
	achievements, err := storage.ToJSON(k.Achievements)
	if err != nil {
		return err
	}
	milestones, err := storage.ToJSON(k.Milestones)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO kid (`+kidColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id=excluded.parent_id, name=excluded.name, gender=excluded.gender,
		   birth_date=excluded.birth_date, goal=excluded.goal,
		   currently_in_sports=excluded.currently_in_sports,
		   medical_conditions=excluded.medical_conditions, session_type=excluded.session_type,
		   achievements=excluded.achievements, milestones=excluded.milestones,
		   updated_at=excluded.updated_at`,
		k.ID, k.ParentID, k.Name, k.Gender, k.BirthDate, k.Goal, storage.BoolInt(k.CurrentlyInSports),
		medical, k.SessionType, achievements, milestones,
		storage.FormatTime(k.CreatedAt), storage.FormatTime(k.UpdatedAt))
	return err
}

// List returns one page of kids, newest first, plus the unpaged total.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Kid, int, error) {
	var w storage.Where
	w.Add(filter.ParentID != "", "parent_id = ?", filter.ParentID)
	w.Add(filter.SessionType != "", "session_type = ?", filter.SessionType)

	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM kid"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+kidColumns+" FROM kid"+w.SQL()+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := []domain.Kid{}
	for rows.Next() {
		k, err := scanKid(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, k)
	}
	return results, total, rows.Err()
}

// Count returns the total number of kids.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	return storage.Count(ctx, s.db, "SELECT COUNT(*) FROM kid")
}

func scanKid(scan func(dest ...any) error) (domain.Kid, error) {
	var k domain.Kid
	var medical, achievements, milestones sql.NullString
	var createdAt, updatedAt string
	err := scan(&k.ID, &k.ParentID, &k.Name, &k.Gender, &k.BirthDate, &k.Goal, &k.CurrentlyInSports,
		&medical, &k.SessionType, &achievements, &milestones, &createdAt, &updatedAt)
	if err != nil {
		return domain.Kid{}, err
	}
	if err := storage.FromJSON(medical, &k.MedicalConditions); err != nil {
		return domain.Kid{}, err
	}
	if err := storage.FromJSON(achievements, &k.Achievements); err != nil {
		return domain.Kid{}, err
	}
	if err := storage.FromJSON(milestones, &k.Milestones); err != nil {
		return domain.Kid{}, err
	}
	k.Normalize()
	k.CreatedAt, _ = storage.ParseTime(createdAt)
	k.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return k, nil
}
