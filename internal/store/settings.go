package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/focuslog/corehub/internal/model"
)

// SettingsStore persists the singleton app_settings row.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore wraps an open *sql.DB.
func NewSettingsStore(db *sql.DB) *SettingsStore { return &SettingsStore{db: db} }

func (s *SettingsStore) ensureRow(ctx context.Context) error {
	d := model.DefaultSettings()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_settings (
			id, block_seconds, idle_cutoff_seconds, store_titles, store_exe_path,
			review_min_seconds, review_notify_repeat_minutes, review_notify_when_paused, review_notify_when_idle
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		d.BlockSeconds, d.IdleCutoffSeconds, boolToInt(d.StoreTitles), boolToInt(d.StoreExePath),
		d.ReviewMinSeconds, d.ReviewNotifyRepeatMinutes, boolToInt(d.ReviewNotifyWhenPaused), boolToInt(d.ReviewNotifyWhenIdle),
	)
	return err
}

// Load returns the current settings, by-value, re-validating clamps in
// case the row was edited externally (spec.md §9).
func (s *SettingsStore) Load(ctx context.Context) (model.Settings, error) {
	if err := s.ensureRow(ctx); err != nil {
		return model.Settings{}, fmt.Errorf("app_settings: ensure row: %w", err)
	}
	var (
		settings                                       model.Settings
		storeTitles, storeExe, notifyPaused, notifyIdle int
	)
	err := s.db.QueryRowContext(ctx, `SELECT
		block_seconds, idle_cutoff_seconds, store_titles, store_exe_path,
		review_min_seconds, review_notify_repeat_minutes, review_notify_when_paused, review_notify_when_idle
		FROM app_settings WHERE id = 1`).Scan(
		&settings.BlockSeconds, &settings.IdleCutoffSeconds, &storeTitles, &storeExe,
		&settings.ReviewMinSeconds, &settings.ReviewNotifyRepeatMinutes, &notifyPaused, &notifyIdle,
	)
	if err != nil {
		return model.Settings{}, fmt.Errorf("app_settings: load: %w", err)
	}
	settings.StoreTitles = storeTitles != 0
	settings.StoreExePath = storeExe != 0
	settings.ReviewNotifyWhenPaused = notifyPaused != 0
	settings.ReviewNotifyWhenIdle = notifyIdle != 0
	return settings.Clamp(), nil
}

// Save persists settings after clamping.
func (s *SettingsStore) Save(ctx context.Context, settings model.Settings) (model.Settings, error) {
	settings = settings.Clamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_settings (
			id, block_seconds, idle_cutoff_seconds, store_titles, store_exe_path,
			review_min_seconds, review_notify_repeat_minutes, review_notify_when_paused, review_notify_when_idle
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			block_seconds = excluded.block_seconds,
			idle_cutoff_seconds = excluded.idle_cutoff_seconds,
			store_titles = excluded.store_titles,
			store_exe_path = excluded.store_exe_path,
			review_min_seconds = excluded.review_min_seconds,
			review_notify_repeat_minutes = excluded.review_notify_repeat_minutes,
			review_notify_when_paused = excluded.review_notify_when_paused,
			review_notify_when_idle = excluded.review_notify_when_idle`,
		settings.BlockSeconds, settings.IdleCutoffSeconds, boolToInt(settings.StoreTitles), boolToInt(settings.StoreExePath),
		settings.ReviewMinSeconds, settings.ReviewNotifyRepeatMinutes, boolToInt(settings.ReviewNotifyWhenPaused), boolToInt(settings.ReviewNotifyWhenIdle),
	)
	if err != nil {
		return model.Settings{}, fmt.Errorf("app_settings: save: %w", err)
	}
	return settings, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
