package model

import (
	"net/url"
	"strings"
	"time"
)

// ReportSettings is the singleton report-generation configuration
// (spec.md §5/§6: "report_settings (singleton)", its own exclusive
// lock). Grounded on original_source's ReportSettings
// (core/recorder_core/src/main.rs:134-182): schedule, provider wiring,
// and file-export toggles for the daily/weekly LLM report.
type ReportSettings struct {
	Enabled bool `json:"enabled"`

	ProviderURL string `json:"provider_url"` // e.g. https://api.openai.com/v1
	APIKey      string `json:"api_key,omitempty"`
	Model       string `json:"model"`

	DailyEnabled   bool   `json:"daily_enabled"`
	DailyAtMinutes int    `json:"daily_at_minutes"` // minute-of-day, 0..1439
	DailyPrompt    string `json:"daily_prompt"`

	WeeklyEnabled   bool   `json:"weekly_enabled"`
	WeeklyWeekday   int    `json:"weekly_weekday"` // 1=Mon..7=Sun
	WeeklyAtMinutes int    `json:"weekly_at_minutes"`
	WeeklyPrompt    string `json:"weekly_prompt"`

	SaveMD    bool   `json:"save_md"`
	SaveCSV   bool   `json:"save_csv"`
	OutputDir string `json:"output_dir,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

const (
	defaultDailyAtMinutes  = 10
	defaultWeeklyAtMinutes = 20
	defaultWeeklyWeekday   = 1 // Monday

	defaultDailyPrompt  = "Summarize {{date}}'s recorded activity blocks into a Markdown daily report with a top-items table and 3-6 actionable suggestions, using only the supplied JSON."
	defaultWeeklyPrompt = "Summarize the {{week_start}}..{{week_end}} recorded activity blocks into a Markdown weekly report with a per-day overview, a top-items table, and next-week suggestions, using only the supplied JSON."
)

// DefaultReportSettings returns the documented spec defaults: disabled
// until an operator supplies a provider.
func DefaultReportSettings() ReportSettings {
	return ReportSettings{
		Enabled:         false,
		ProviderURL:     "https://api.openai.com/v1",
		Model:           "gpt-4o-mini",
		DailyEnabled:    false,
		DailyAtMinutes:  defaultDailyAtMinutes,
		DailyPrompt:     defaultDailyPrompt,
		WeeklyEnabled:   false,
		WeeklyWeekday:   defaultWeeklyWeekday,
		WeeklyAtMinutes: defaultWeeklyAtMinutes,
		WeeklyPrompt:    defaultWeeklyPrompt,
		SaveMD:          true,
		SaveCSV:         false,
	}
}

// Clamp re-validates the minute-of-day and weekday ranges, in case the
// row was edited externally (spec.md §6 "copy-on-read").
func (s ReportSettings) Clamp() ReportSettings {
	out := s
	out.DailyAtMinutes = clampInt(out.DailyAtMinutes, 0, 1439)
	out.WeeklyAtMinutes = clampInt(out.WeeklyAtMinutes, 0, 1439)
	out.WeeklyWeekday = clampInt(out.WeeklyWeekday, 1, 7)
	return out
}

// Configured reports whether enough is set to attempt generation,
// mirroring original_source's report_settings_is_configured: enabled,
// a non-blank API key and model, and a provider URL that parses as
// http(s) with a host.
func (s ReportSettings) Configured() bool {
	if !s.Enabled {
		return false
	}
	base := strings.TrimSpace(s.ProviderURL)
	if base == "" || strings.TrimSpace(s.APIKey) == "" || strings.TrimSpace(s.Model) == "" {
		return false
	}
	u, err := url.Parse(base)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.TrimSpace(u.Host) != ""
}
