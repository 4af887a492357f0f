package quiz

import (
	"context"
	"database/sql"

	"growfitness/internal/adapters/storage"
	domain "growfitness/internal/domain/quiz"
)

const quizColumns = "id, title, description, questions, target_audience, passing_score, is_active, created_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new quiz store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Quiz by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Quiz, error) {
	return scanQuiz(s.db.QueryRowContext(ctx, "SELECT "+quizColumns+" FROM quiz WHERE id = ?", id).Scan)
}

// Save persists a Quiz; questions are stored as JSON.
func (s *SQLiteStore) Save(ctx context.Context, q domain.Quiz) error {
	questions, err := storage.ToJSON(q.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz (`+quizColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description, questions=excluded.questions,
		   target_audience=excluded.target_audience, passing_score=excluded.passing_score,
		   is_active=excluded.is_active, updated_at=excluded.updated_at`,
		q.ID, q.Title, q.Description, questions, q.TargetAudience, q.PassingScore,
		storage.BoolInt(q.IsActive), storage.FormatTime(q.CreatedAt), storage.FormatTime(q.UpdatedAt))
	return err
}

// Delete removes a Quiz.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM quiz WHERE id = ?", id)
	return err
}

// List returns quizzes newest first plus the unpaged total.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Quiz, int, error) {
	var w storage.Where
	w.Add(filter.TargetAudience != "", "target_audience = ?", filter.TargetAudience)

	total, err := storage.Count(ctx, s.db, "SELECT COUNT(*) FROM quiz"+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	page, args := storage.Page(w.Args(), filter.Limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+quizColumns+" FROM quiz"+w.SQL()+" ORDER BY created_at DESC"+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	results := []domain.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, q)
	}
	return results, total, rows.Err()
}

func scanQuiz(scan func(dest ...any) error) (domain.Quiz, error) {
	var q domain.Quiz
	var questions sql.NullString
	var createdAt, updatedAt string
	err := scan(&q.ID, &q.Title, &q.Description, &questions, &q.TargetAudience, &q.PassingScore,
		&q.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := storage.FromJSON(questions, &q.Questions); err != nil {
		return domain.Quiz{}, err
	}
	q.CreatedAt, _ = storage.ParseTime(createdAt)
	q.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return q, nil
}
