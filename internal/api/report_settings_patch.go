package api

import (
	"encoding/json"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/model"
)

// applyReportSettingsPatch overwrites only the fields present in patch,
// leaving the rest of current untouched (spec.md §6 "partial update"),
// validating the minute-of-day/weekday ranges the same way
// original_source's post_report_settings does.
func applyReportSettingsPatch(current *model.ReportSettings, patch map[string]json.RawMessage) error {
	malformed := func() error { return apperr.New(apperr.CodeMalformedBody, "malformed report settings field") }
	invalidRange := func(field string) error {
		return apperr.New(apperr.CodeInvalidRange, "invalid "+field)
	}

	if raw, ok := patch["enabled"]; ok {
		if err := json.Unmarshal(raw, &current.Enabled); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["provider_url"]; ok {
		if err := json.Unmarshal(raw, &current.ProviderURL); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["api_key"]; ok {
		if err := json.Unmarshal(raw, &current.APIKey); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["model"]; ok {
		if err := json.Unmarshal(raw, &current.Model); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["daily_enabled"]; ok {
		if err := json.Unmarshal(raw, &current.DailyEnabled); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["daily_at_minutes"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return malformed()
		}
		if v < 0 || v > 1439 {
			return invalidRange("daily_at_minutes")
		}
		current.DailyAtMinutes = v
	}
	if raw, ok := patch["daily_prompt"]; ok {
		if err := json.Unmarshal(raw, &current.DailyPrompt); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["weekly_enabled"]; ok {
		if err := json.Unmarshal(raw, &current.WeeklyEnabled); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["weekly_weekday"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return malformed()
		}
		if v < 1 || v > 7 {
			return invalidRange("weekly_weekday")
		}
		current.WeeklyWeekday = v
	}
	if raw, ok := patch["weekly_at_minutes"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return malformed()
		}
		if v < 0 || v > 1439 {
			return invalidRange("weekly_at_minutes")
		}
		current.WeeklyAtMinutes = v
	}
	if raw, ok := patch["weekly_prompt"]; ok {
		if err := json.Unmarshal(raw, &current.WeeklyPrompt); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["save_md"]; ok {
		if err := json.Unmarshal(raw, &current.SaveMD); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["save_csv"]; ok {
		if err := json.Unmarshal(raw, &current.SaveCSV); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["output_dir"]; ok {
		if err := json.Unmarshal(raw, &current.OutputDir); err != nil {
			return malformed()
		}
	}
	return nil
}
