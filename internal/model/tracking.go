package model

import "time"

// TrackingState is the singleton paused/active record.
type TrackingState struct {
	Paused      bool       `json:"paused"`
	PausedUntil *time.Time `json:"paused_until_ts,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Settings is the singleton application configuration.
type Settings struct {
	BlockSeconds              int  `json:"block_seconds"`      // >= 60, default 2700
	IdleCutoffSeconds         int  `json:"idle_cutoff_seconds"` // >= 10, default 300
	StoreTitles               bool `json:"store_titles"`
	StoreExePath              bool `json:"store_exe_path"`
	ReviewMinSeconds          int  `json:"review_min_seconds"`           // in [60, 14400], default 300
	ReviewNotifyRepeatMinutes int  `json:"review_notify_repeat_minutes"` // in [1, 1440]
	ReviewNotifyWhenPaused    bool `json:"review_notify_when_paused"`
	ReviewNotifyWhenIdle      bool `json:"review_notify_when_idle"`
}

// DefaultSettings returns the documented spec defaults.
func DefaultSettings() Settings {
	return Settings{
		BlockSeconds:              2700,
		IdleCutoffSeconds:         300,
		StoreTitles:               true,
		StoreExePath:              true,
		ReviewMinSeconds:          300,
		ReviewNotifyRepeatMinutes: 30,
		ReviewNotifyWhenPaused:    false,
		ReviewNotifyWhenIdle:      false,
	}
}

// Clamp re-validates the clamps described in spec.md §3/§9, in case the
// row was edited externally (e.g. direct DB edit) between loads.
func (s Settings) Clamp() Settings {
	out := s
	if out.BlockSeconds < 60 {
		out.BlockSeconds = 60
	}
	if out.IdleCutoffSeconds < 10 {
		out.IdleCutoffSeconds = 10
	}
	out.ReviewMinSeconds = clampInt(out.ReviewMinSeconds, 60, 14400)
	out.ReviewNotifyRepeatMinutes = clampInt(out.ReviewNotifyRepeatMinutes, 1, 1440)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
