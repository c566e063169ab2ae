package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store wraps the SQLite handle. It is constructed once by the application
// entry point and injected into every engine that needs persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id                       INTEGER PRIMARY KEY AUTOINCREMENT,
		username                 TEXT NOT NULL UNIQUE,
		full_name                TEXT NOT NULL DEFAULT '',
		sleep_hours              REAL NOT NULL DEFAULT 8.0,
		wake_time                TEXT NOT NULL DEFAULT '07:00',
		has_work                 INTEGER NOT NULL DEFAULT 0,
		work_hours_per_week      REAL NOT NULL DEFAULT 0,
		work_days_per_week       INTEGER NOT NULL DEFAULT 0,
		study_goal_hours_per_day REAL NOT NULL DEFAULT 0,
		created_at               TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at               TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS class_schedule (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id     INTEGER NOT NULL REFERENCES users(id),
		day_of_week INTEGER NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		course_name TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_user_day ON class_schedule(user_id, day_of_week);

	CREATE TABLE IF NOT EXISTS tasks (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id        INTEGER NOT NULL REFERENCES users(id),
		title          TEXT NOT NULL,
		source         TEXT NOT NULL DEFAULT '',
		category       TEXT NOT NULL,
		date_given     TEXT NOT NULL,
		date_due       TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		estimated_time INTEGER,
		status         TEXT NOT NULL DEFAULT 'Not Started',
		completed_at   TEXT,
		created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		is_deleted     INTEGER NOT NULL DEFAULT 0,
		deleted_at     TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user   ON tasks(user_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_due    ON tasks(date_due);

	CREATE TABLE IF NOT EXISTS task_sessions (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id          INTEGER NOT NULL REFERENCES users(id),
		task_id          INTEGER NOT NULL REFERENCES tasks(id),
		duration_minutes INTEGER NOT NULL,
		notes            TEXT NOT NULL DEFAULT '',
		logged_at        TEXT NOT NULL,
		created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		is_deleted       INTEGER NOT NULL DEFAULT 0,
		deleted_at       TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_task ON task_sessions(task_id);

	CREATE TABLE IF NOT EXISTS time_logs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL REFERENCES users(id),
		category   TEXT NOT NULL,
		hours      REAL NOT NULL,
		date       TEXT NOT NULL,
		start_time TEXT,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_timelogs_user_date ON time_logs(user_id, date);

	CREATE TABLE IF NOT EXISTS settings (
		user_id       INTEGER NOT NULL REFERENCES users(id),
		setting_key   TEXT NOT NULL,
		setting_value TEXT NOT NULL,
		updated_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		PRIMARY KEY (user_id, setting_key)
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/tymate/tymate.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "tymate", "tymate.db"), nil
}
