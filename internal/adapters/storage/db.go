package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables and indexes exist, WAL mode and foreign keys enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := addMissingColumns(db); err != nil {
		return fmt.Errorf("failed to migrate columns: %w", err)
	}
	if _, err := db.Exec(indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Slices and maps are stored as JSON text. Times use DateLayout.
const schema = `
	CREATE TABLE IF NOT EXISTS user (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL,
		parent_name TEXT,
		parent_location TEXT,
		coach_name TEXT,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_user_role_status ON user(role, status);

	CREATE TABLE IF NOT EXISTS refresh_session (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		revoked_at TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES user(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS password_reset_token (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES user(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS kid (
		id TEXT PRIMARY KEY,
		parent_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		gender TEXT NOT NULL DEFAULT '',
		birth_date TEXT NOT NULL DEFAULT '',
		goal TEXT NOT NULL DEFAULT '',
		currently_in_sports INTEGER NOT NULL DEFAULT 0,
		medical_conditions TEXT NOT NULL DEFAULT '[]',
		session_type TEXT NOT NULL,
		achievements TEXT NOT NULL DEFAULT '[]',
		milestones TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_kid_parent ON kid(parent_id);

	CREATE TABLE IF NOT EXISTS location (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		coach_id TEXT NOT NULL,
		location_id TEXT NOT NULL,
		date_time TEXT NOT NULL,
		duration INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		kids TEXT NOT NULL DEFAULT '[]',
		kid_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		is_free_session INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_session_date_time ON session(date_time);

	CREATE TABLE IF NOT EXISTS invoice (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		parent_id TEXT NOT NULL DEFAULT '',
		coach_id TEXT NOT NULL DEFAULT '',
		items TEXT NOT NULL DEFAULT '[]',
		total_amount REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		due_date TEXT NOT NULL,
		paid_at TEXT,
		export_fields TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_invoice_status ON invoice(status);

	CREATE TABLE IF NOT EXISTS banner (
		id TEXT PRIMARY KEY,
		image_url TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0,
		target_audience TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS quiz (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		questions TEXT NOT NULL DEFAULT '[]',
		target_audience TEXT NOT NULL,
		passing_score INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS report (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		filters TEXT,
		data TEXT,
		generated_at TEXT,
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS free_session_request (
		id TEXT PRIMARY KEY,
		parent_name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		kid_name TEXT NOT NULL,
		session_type TEXT NOT NULL,
		location_id TEXT NOT NULL DEFAULT '',
		preferred_date_time TEXT,
		selected_session_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reschedule_request (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		requested_by TEXT NOT NULL,
		new_date_time TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL,
		processed_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS extra_session_request (
		id TEXT PRIMARY KEY,
		parent_id TEXT NOT NULL,
		kid_id TEXT NOT NULL,
		coach_id TEXT NOT NULL,
		session_type TEXT NOT NULL,
		location_id TEXT NOT NULL,
		preferred_date_time TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_entry (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		metadata TEXT,
		timestamp TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_entry(timestamp);

	CREATE TABLE IF NOT EXISTS code (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		discount_percentage REAL,
		discount_amount REAL,
		expiry_date TEXT,
		usage_limit INTEGER NOT NULL DEFAULT 1,
		usage_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS crm_contact (
		id TEXT PRIMARY KEY,
		parent_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		metadata TEXT,
		notes TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS resource (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		file_url TEXT NOT NULL DEFAULT '',
		external_url TEXT NOT NULL DEFAULT '',
		target_audience TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS outbox (
		id TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT NOT NULL DEFAULT '',
		next_attempt_at TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox(status);
`

// columnMigrations adds columns introduced after a table was first created.
var columnMigrations = []struct{ table, column, def string }{
	{"outbox", "next_attempt_at", "TEXT NOT NULL DEFAULT ''"},
}

// indexes depend on migrated columns, so they run last.
const indexes = `
	CREATE INDEX IF NOT EXISTS idx_outbox_due ON outbox(status, next_attempt_at);
`

func addMissingColumns(db *sql.DB) error {
	for _, m := range columnMigrations {
		var n int
		err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", m.table, m.column).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := db.Exec("ALTER TABLE " + m.table + " ADD COLUMN " + m.column + " " + m.def); err != nil {
			return err
		}
	}
	return nil
}
