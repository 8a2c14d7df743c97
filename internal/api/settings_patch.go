package api

import (
	"encoding/json"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/model"
)

// applySettingsPatch overwrites only the fields present in patch,
// leaving the rest of current untouched.
func applySettingsPatch(current *model.Settings, patch map[string]json.RawMessage) error {
	malformed := func() error { return apperr.New(apperr.CodeMalformedBody, "malformed settings field") }

	if raw, ok := patch["block_seconds"]; ok {
		if err := json.Unmarshal(raw, &current.BlockSeconds); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["idle_cutoff_seconds"]; ok {
		if err := json.Unmarshal(raw, &current.IdleCutoffSeconds); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["store_titles"]; ok {
		if err := json.Unmarshal(raw, &current.StoreTitles); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["store_exe_path"]; ok {
		if err := json.Unmarshal(raw, &current.StoreExePath); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["review_min_seconds"]; ok {
		if err := json.Unmarshal(raw, &current.ReviewMinSeconds); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["review_notify_repeat_minutes"]; ok {
		if err := json.Unmarshal(raw, &current.ReviewNotifyRepeatMinutes); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["review_notify_when_paused"]; ok {
		if err := json.Unmarshal(raw, &current.ReviewNotifyWhenPaused); err != nil {
			return malformed()
		}
	}
	if raw, ok := patch["review_notify_when_idle"]; ok {
		if err := json.Unmarshal(raw, &current.ReviewNotifyWhenIdle); err != nil {
			return malformed()
		}
	}
	return nil
}
