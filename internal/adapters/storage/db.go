package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound marks a point lookup that matched no row. Callers distinguish
// it from operational failures with errors.Is; "not found" is a valid
// result, not an error condition, for find-or-create flows.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err is a not-found result from a store.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		first_name TEXT,
		last_name TEXT,
		phone TEXT,
		email TEXT NOT NULL UNIQUE,
		city TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		program_type TEXT NOT NULL,
		code TEXT NOT NULL,
		city TEXT NOT NULL,
		coordinator TEXT,
		entrenadores TEXT,
		capitan_mentores TEXT,
		mentores TEXT,
		start_date TEXT,
		end_date TEXT,
		active INTEGER NOT NULL DEFAULT 0,
		scheduled_deletion_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS enrollments (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		person_id TEXT NOT NULL,
		status TEXT NOT NULL,
		attended INTEGER NOT NULL DEFAULT 0,
		details_sent INTEGER NOT NULL DEFAULT 0,
		confirmed INTEGER NOT NULL DEFAULT 0,
		contract_signed INTEGER NOT NULL DEFAULT 0,
		cca_signed INTEGER NOT NULL DEFAULT 0,
		health_doc_signed INTEGER NOT NULL DEFAULT 0,
		tl_norms_signed INTEGER NOT NULL DEFAULT 0,
		tl_rules_signed INTEGER NOT NULL DEFAULT 0,
		withdrew INTEGER NOT NULL DEFAULT 0,
		admin_notes TEXT,
		angel_name TEXT,
		city TEXT,
		cantidad INTEGER,
		finalized INTEGER NOT NULL DEFAULT 0,
		replaced_by_enrollment_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		UNIQUE (event_id, person_id),
		FOREIGN KEY (event_id) REFERENCES events(id),
		FOREIGN KEY (person_id) REFERENCES people(id)
	);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		enrollment_id TEXT NOT NULL,
		method TEXT,
		fee_amount REAL,
		promo_note TEXT,
		payer_name TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (enrollment_id) REFERENCES enrollments(id)
	);

	CREATE TABLE IF NOT EXISTS cities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS program_types (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		label TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_reports (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL UNIQUE,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (event_id) REFERENCES events(id)
	);

	CREATE INDEX IF NOT EXISTS idx_enrollments_event ON enrollments(event_id);
	CREATE INDEX IF NOT EXISTS idx_enrollments_person ON enrollments(person_id);
	CREATE INDEX IF NOT EXISTS idx_payments_enrollment ON payments(enrollment_id);
	CREATE INDEX IF NOT EXISTS idx_events_program_code ON events(program_type, code);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
