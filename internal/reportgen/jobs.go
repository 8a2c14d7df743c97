package reportgen

import (
	"time"

	"github.com/focuslog/corehub/internal/model"
)

// BuildJobs builds the "daily"/"weekly" candidates due at now under the
// given report settings (spec.md §5: at most one generation attempt
// per period per report id; original_source's daily_at_minutes /
// weekly_weekday / weekly_at_minutes schedule). Period boundaries are
// UTC-aligned; the scheduler's own cooldown check (not period math) is
// what actually throttles repeat attempts within a period. now is
// treated directly as the schedule's reference clock — there is no
// timezone-of-schedule concept distinct from the TZ offset already
// applied at the export boundary.
func BuildJobs(settings model.ReportSettings, now time.Time) []Job {
	if !settings.Enabled {
		return nil
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	minuteOfDay := now.Hour()*60 + now.Minute()

	var jobs []Job

	if settings.DailyEnabled && minuteOfDay >= settings.DailyAtMinutes {
		jobs = append(jobs, Job{
			ID:          "daily-" + dayStart.Format("2006-01-02"),
			Kind:        "daily",
			PeriodStart: dayStart,
			PeriodEnd:   dayStart.Add(24 * time.Hour),
			ProviderURL: settings.ProviderURL,
			Model:       settings.Model,
			Prompt:      settings.DailyPrompt,
		})
	}

	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	targetWeekday := time.Weekday(settings.WeeklyWeekday % 7) // 1..6 -> Mon..Sat, 7 -> Sun
	if settings.WeeklyEnabled && now.Weekday() == targetWeekday && minuteOfDay >= settings.WeeklyAtMinutes {
		jobs = append(jobs, Job{
			ID:          "weekly-" + weekStart.Format("2006-01-02"),
			Kind:        "weekly",
			PeriodStart: weekStart,
			PeriodEnd:   weekStart.AddDate(0, 0, 7),
			ProviderURL: settings.ProviderURL,
			Model:       settings.Model,
			Prompt:      settings.WeeklyPrompt,
		})
	}

	return jobs
}
