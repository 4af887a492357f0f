package storage

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var expectedTables = []string{
	"audit_entry",
	"banner",
	"code",
	"crm_contact",
	"extra_session_request",
	"free_session_request",
	"invoice",
	"kid",
	"location",
	"outbox",
	"password_reset_token",
	"quiz",
	"refresh_session",
	"report",
	"reschedule_request",
	"resource",
	"session",
	"user",
}

// TestInitDB_Fresh verifies the schema applies cleanly to an empty database.
func TestInitDB_Fresh(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	if got := getTableNames(t, db); !reflect.DeepEqual(got, expectedTables) {
		t.Errorf("tables = %v\nwant %v", got, expectedTables)
	}
}

// TestInitDB_Idempotent verifies InitDB can run twice without error.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
}

func TestTimeHelpers(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("IST", 19800))
	got, err := ParseTime(FormatTime(ts))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(ts) || got.Location() != time.UTC {
		t.Errorf("round trip = %v", got)
	}
	if NullTime(nil) != nil || ZeroableTime(time.Time{}) != nil {
		t.Error("empty times should be stored as NULL")
	}
	if TimePtr(sql.NullString{}) != nil {
		t.Error("NULL should parse to nil")
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("expected parse error")
	}
}

// TestFormatTime_FixedWidth checks every rendering has the same length so text order is time order.
func TestFormatTime_FixedWidth(t *testing.T) {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"whole second", base, "2026-03-02T00:00:00.000000000Z"},
		{"trailing zeros kept", base.Add(500 * time.Millisecond), "2026-03-02T00:00:00.500000000Z"},
		{"nanoseconds", base.Add(150*time.Millisecond + 7), "2026-03-02T00:00:00.150000007Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.in); got != tt.want {
				t.Errorf("FormatTime = %q, want %q", got, tt.want)
			}
		})
	}
	// rows written before the fixed-width layout still parse
	for _, old := range []string{"2026-03-02T00:00:00.5Z", "2026-03-02T00:00:00Z", "2026-03-02 00:00:00"} {
		if _, err := ParseTime(old); err != nil {
			t.Errorf("ParseTime(%q): %v", old, err)
		}
	}
}

func TestLike_EscapesWildcards(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Perera", "%perera%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`c:\x`, `%c:\\x%`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Like(tt.in); got != tt.want {
				t.Errorf("Like(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	v, err := ToJSON(map[string]any(nil))
	if err != nil || v != nil {
		t.Errorf("nil map = %v, %v", v, err)
	}
	v, _ = ToJSON([]string{"a"})
	var out []string
	if err := FromJSON(sql.NullString{String: v.(string), Valid: true}, &out); err != nil || len(out) != 1 {
		t.Errorf("FromJSON = %v, %v", out, err)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	boom := errors.New("boom")
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO location (id, name, created_at, updated_at) VALUES ('l1', 'A', '', '')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v", err)
	}
	n, err := Count(ctx, db, "SELECT COUNT(*) FROM location")
	if err != nil || n != 0 {
		t.Errorf("count after rollback = %d, %v", n, err)
	}
}
