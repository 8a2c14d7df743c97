package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TrackingStore persists the singleton tracking_state row.
type TrackingStore struct {
	db *sql.DB
}

// NewTrackingStore wraps an open *sql.DB.
func NewTrackingStore(db *sql.DB) *TrackingStore { return &TrackingStore{db: db} }

// Row is the raw persisted shape; "corruption" (malformed paused_until_ts)
// is represented by ParseError being non-nil, so callers can auto-resume
// on it per spec.md §4.3.
type Row struct {
	Paused        bool
	PausedUntil   *time.Time
	ParseError    error
	UpdatedAt     time.Time
}

func (s *TrackingStore) ensureRow(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracking_state (id, paused, paused_until_ts, updated_at)
		 VALUES (1, 0, NULL, ?)
		 ON CONFLICT(id) DO NOTHING`, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Load reads the singleton row, creating it with defaults if absent.
func (s *TrackingStore) Load(ctx context.Context) (Row, error) {
	if err := s.ensureRow(ctx); err != nil {
		return Row{}, fmt.Errorf("tracking_state: ensure row: %w", err)
	}
	var (
		pausedInt int
		untilStr  sql.NullString
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT paused, paused_until_ts, updated_at FROM tracking_state WHERE id = 1`,
	).Scan(&pausedInt, &untilStr, &updatedAt)
	if err != nil {
		return Row{}, fmt.Errorf("tracking_state: load: %w", err)
	}
	row := Row{Paused: pausedInt != 0}
	row.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if untilStr.Valid && untilStr.String != "" {
		t, err := time.Parse(time.RFC3339, untilStr.String)
		if err != nil {
			row.ParseError = err
		} else {
			tt := t.UTC()
			row.PausedUntil = &tt
		}
	}
	return row, nil
}

// Save writes the singleton row.
func (s *TrackingStore) Save(ctx context.Context, paused bool, pausedUntil *time.Time, updatedAt time.Time) error {
	var untilStr any
	if pausedUntil != nil {
		untilStr = pausedUntil.UTC().Format(time.RFC3339)
	}
	pausedInt := 0
	if paused {
		pausedInt = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracking_state (id, paused, paused_until_ts, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET paused = excluded.paused, paused_until_ts = excluded.paused_until_ts, updated_at = excluded.updated_at`,
		pausedInt, untilStr, updatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("tracking_state: save: %w", err)
	}
	return nil
}
