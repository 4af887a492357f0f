package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the text format for every timestamp column.
const DateLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in UTC using DateLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseTime parses a timestamp column, accepting RFC 3339 variants.
func ParseTime(s string) (time.Time, error) {
	for _, f := range []string{DateLayout, time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

// NullTime converts an optional time into a nullable column value.
func NullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return FormatTime(*t)
}

// ZeroableTime stores the zero time as NULL.
func ZeroableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return FormatTime(t)
}

// TimePtr parses a nullable column into an optional time.
func TimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := ParseTime(ns.String)
	if err != nil {
		return nil
	}
	return &t
}

// ToJSON marshals a slice or map column. Nil maps are stored as NULL.
func ToJSON(v any) (any, error) {
	if m, ok := v.(map[string]any); ok && m == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// FromJSON unmarshals a nullable JSON column into dst.
func FromJSON(ns sql.NullString, dst any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), dst)
}

// BoolInt maps a bool onto SQLite's integer booleans.
func BoolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Count runs a COUNT(*) query and returns the result.
func Count(ctx context.Context, db SQLDB, query string, args ...any) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
// POST: On error the transaction is rolled back and no writes persist
func WithTx(ctx context.Context, db SQLDB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
