package sqlite

import (
	"database/sql"
	"fmt"
)

// schemaVersion tracks PRAGMA user_version. There is a single schema
// version: every table and index is created with IF NOT EXISTS, and no
// per-version steps or column-add statements exist.
const schemaVersion = 2

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	ts          TEXT NOT NULL,
	source      TEXT NOT NULL,
	event       TEXT NOT NULL,
	entity      TEXT,
	title       TEXT,
	payload_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);
CREATE INDEX IF NOT EXISTS idx_events_kind_ts ON events(event, ts);

CREATE TABLE IF NOT EXISTS privacy_rules (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	value      TEXT NOT NULL,
	action     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(kind, value)
);

CREATE TABLE IF NOT EXISTS tracking_state (
	id              INTEGER PRIMARY KEY CHECK (id = 1),
	paused          INTEGER NOT NULL DEFAULT 0,
	paused_until_ts TEXT,
	updated_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS app_settings (
	id                           INTEGER PRIMARY KEY CHECK (id = 1),
	block_seconds                INTEGER NOT NULL DEFAULT 2700,
	idle_cutoff_seconds          INTEGER NOT NULL DEFAULT 300,
	store_titles                 INTEGER NOT NULL DEFAULT 1,
	store_exe_path               INTEGER NOT NULL DEFAULT 1,
	review_min_seconds           INTEGER NOT NULL DEFAULT 300,
	review_notify_repeat_minutes INTEGER NOT NULL DEFAULT 30,
	review_notify_when_paused    INTEGER NOT NULL DEFAULT 0,
	review_notify_when_idle      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS block_reviews (
	block_id    TEXT PRIMARY KEY,
	skipped     INTEGER NOT NULL DEFAULT 0,
	skip_reason TEXT,
	doing       TEXT,
	output      TEXT,
	next        TEXT,
	tags_json   TEXT NOT NULL DEFAULT '[]',
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS report_settings (
	id                 INTEGER PRIMARY KEY CHECK (id = 1),
	enabled            INTEGER NOT NULL DEFAULT 0,
	provider_url       TEXT NOT NULL DEFAULT '',
	api_key            TEXT NOT NULL DEFAULT '',
	model              TEXT NOT NULL DEFAULT '',
	daily_enabled      INTEGER NOT NULL DEFAULT 0,
	daily_at_minutes   INTEGER NOT NULL DEFAULT 10,
	daily_prompt       TEXT NOT NULL DEFAULT '',
	weekly_enabled     INTEGER NOT NULL DEFAULT 0,
	weekly_weekday     INTEGER NOT NULL DEFAULT 1,
	weekly_at_minutes  INTEGER NOT NULL DEFAULT 20,
	weekly_prompt      TEXT NOT NULL DEFAULT '',
	save_md            INTEGER NOT NULL DEFAULT 1,
	save_csv           INTEGER NOT NULL DEFAULT 0,
	output_dir         TEXT,
	updated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	id            TEXT PRIMARY KEY,
	kind          TEXT NOT NULL,
	period_start  TEXT NOT NULL,
	period_end    TEXT NOT NULL,
	generated_at  TEXT,
	provider_url  TEXT,
	model         TEXT,
	prompt        TEXT,
	input_json    TEXT,
	output_md     TEXT,
	error         TEXT
);
`

// Migrate applies the whole schema in one transaction when user_version
// is below schemaVersion, then records schemaVersion; otherwise it does
// nothing.
func Migrate(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read user_version: %w", err)
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("sqlite: set user_version: %w", err)
	}
	return tx.Commit()
}
