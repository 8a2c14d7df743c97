// Package timeutil implements the day-window and duration-formatting
// rules from spec.md §6 ("Timezone handling", "Duration formatting").
package timeutil

import (
	"fmt"
	"time"

	"github.com/focuslog/corehub/internal/apperr"
)

// ClampTZOffsetMinutes clamps to [-840, 840] per spec.md §6.
func ClampTZOffsetMinutes(m int) int {
	if m < -840 {
		return -840
	}
	if m > 840 {
		return 840
	}
	return m
}

// DayWindow computes [day_start_utc, day_end_utc) for the given local
// calendar date and tz offset in minutes east of UTC, by placing local
// midnight at the requested boundary and converting to UTC (spec.md §6).
// The window always spans exactly 24 hours (spec.md §8 property 7).
func DayWindow(date string, tzOffsetMinutes int) (start, end time.Time, err error) {
	d, perr := time.Parse("2006-01-02", date)
	if perr != nil {
		return time.Time{}, time.Time{}, apperr.New(apperr.CodeInvalidDate, "invalid date: "+date)
	}
	offset := ClampTZOffsetMinutes(tzOffsetMinutes)

	// Local midnight expressed as a UTC instant: subtract the offset.
	localMidnightAsUTC := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).
		Add(-time.Duration(offset) * time.Minute)
	return localMidnightAsUTC, localMidnightAsUTC.Add(24 * time.Hour), nil
}

// FormatDuration implements spec.md §6's bit-stable duration format:
// "0m" for <= 0; "<m>m" for m < 60 where m = floor((seconds+30)/60);
// "<h>h" if the remainder is zero, else "<h>h <r>m".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0m"
	}
	m := (seconds + 30) / 60
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	h := m / 60
	r := m % 60
	if r == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, r)
}
