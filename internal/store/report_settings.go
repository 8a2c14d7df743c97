package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/focuslog/corehub/internal/model"
)

// ReportSettingsStore persists the singleton report_settings row. It
// carries its own in-process mutex, separate from the DB's exclusive
// lock, so a snapshot read never blocks on unrelated DB traffic
// (spec.md §5 "each sit behind their own exclusive lock"; grounded on
// the teacher's internal/config mutex-guarded-snapshot idiom).
type ReportSettingsStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewReportSettingsStore wraps an open *sql.DB.
func NewReportSettingsStore(db *sql.DB) *ReportSettingsStore { return &ReportSettingsStore{db: db} }

func (s *ReportSettingsStore) ensureRow(ctx context.Context) error {
	d := model.DefaultReportSettings()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO report_settings (
			id, enabled, provider_url, api_key, model,
			daily_enabled, daily_at_minutes, daily_prompt,
			weekly_enabled, weekly_weekday, weekly_at_minutes, weekly_prompt,
			save_md, save_csv, output_dir, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)
		ON CONFLICT(id) DO NOTHING`,
		boolToInt(d.Enabled), d.ProviderURL, d.APIKey, d.Model,
		boolToInt(d.DailyEnabled), d.DailyAtMinutes, d.DailyPrompt,
		boolToInt(d.WeeklyEnabled), d.WeeklyWeekday, d.WeeklyAtMinutes, d.WeeklyPrompt,
		boolToInt(d.SaveMD), boolToInt(d.SaveCSV), d.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

// Load returns the current report settings, by-value, re-validating
// clamps in case the row was edited externally.
func (s *ReportSettingsStore) Load(ctx context.Context) (model.ReportSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureRow(ctx); err != nil {
		return model.ReportSettings{}, fmt.Errorf("report_settings: ensure row: %w", err)
	}

	var (
		rs                                        model.ReportSettings
		enabled, dailyEnabled, weeklyEnabled       int
		saveMD, saveCSV                            int
		outputDir                                  sql.NullString
		updatedAt                                  string
	)
	err := s.db.QueryRowContext(ctx, `SELECT
		enabled, provider_url, api_key, model,
		daily_enabled, daily_at_minutes, daily_prompt,
		weekly_enabled, weekly_weekday, weekly_at_minutes, weekly_prompt,
		save_md, save_csv, output_dir, updated_at
		FROM report_settings WHERE id = 1`).Scan(
		&enabled, &rs.ProviderURL, &rs.APIKey, &rs.Model,
		&dailyEnabled, &rs.DailyAtMinutes, &rs.DailyPrompt,
		&weeklyEnabled, &rs.WeeklyWeekday, &rs.WeeklyAtMinutes, &rs.WeeklyPrompt,
		&saveMD, &saveCSV, &outputDir, &updatedAt,
	)
	if err != nil {
		return model.ReportSettings{}, fmt.Errorf("report_settings: load: %w", err)
	}
	rs.Enabled = enabled != 0
	rs.DailyEnabled = dailyEnabled != 0
	rs.WeeklyEnabled = weeklyEnabled != 0
	rs.SaveMD = saveMD != 0
	rs.SaveCSV = saveCSV != 0
	rs.OutputDir = outputDir.String
	if t, perr := time.Parse(time.RFC3339, updatedAt); perr == nil {
		rs.UpdatedAt = t.UTC()
	}
	return rs.Clamp(), nil
}

// Save persists settings after clamping, stamping UpdatedAt with now.
func (s *ReportSettingsStore) Save(ctx context.Context, rs model.ReportSettings, now time.Time) (model.ReportSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs = rs.Clamp()
	rs.UpdatedAt = now.UTC()

	var outputDir any
	if rs.OutputDir != "" {
		outputDir = rs.OutputDir
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO report_settings (
			id, enabled, provider_url, api_key, model,
			daily_enabled, daily_at_minutes, daily_prompt,
			weekly_enabled, weekly_weekday, weekly_at_minutes, weekly_prompt,
			save_md, save_csv, output_dir, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			enabled = excluded.enabled,
			provider_url = excluded.provider_url,
			api_key = excluded.api_key,
			model = excluded.model,
			daily_enabled = excluded.daily_enabled,
			daily_at_minutes = excluded.daily_at_minutes,
			daily_prompt = excluded.daily_prompt,
			weekly_enabled = excluded.weekly_enabled,
			weekly_weekday = excluded.weekly_weekday,
			weekly_at_minutes = excluded.weekly_at_minutes,
			weekly_prompt = excluded.weekly_prompt,
			save_md = excluded.save_md,
			save_csv = excluded.save_csv,
			output_dir = excluded.output_dir,
			updated_at = excluded.updated_at`,
		boolToInt(rs.Enabled), rs.ProviderURL, rs.APIKey, rs.Model,
		boolToInt(rs.DailyEnabled), rs.DailyAtMinutes, rs.DailyPrompt,
		boolToInt(rs.WeeklyEnabled), rs.WeeklyWeekday, rs.WeeklyAtMinutes, rs.WeeklyPrompt,
		boolToInt(rs.SaveMD), boolToInt(rs.SaveCSV), outputDir, rs.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return model.ReportSettings{}, fmt.Errorf("report_settings: save: %w", err)
	}
	return rs, nil
}
