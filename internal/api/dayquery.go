package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/model"
	"github.com/focuslog/corehub/internal/timeutil"
)

// dayWindow parses the shared date/tz_offset_minutes query parameters
// used by /timeline/day, /blocks/today, /blocks/due, and the export
// endpoints (spec.md §6).
func dayWindow(r *http.Request) (start, end time.Time, err error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	tzOffset := 0
	if raw := r.URL.Query().Get("tz_offset_minutes"); raw != "" {
		n, perr := strconv.Atoi(raw)
		if perr != nil {
			return time.Time{}, time.Time{}, apperr.New(apperr.CodeInvalidRange, "invalid tz_offset_minutes")
		}
		tzOffset = n
	}
	return timeutil.DayWindow(date, tzOffset)
}

// loadDayEvents fetches, privacy-filters, and returns events for the
// requested day window (spec.md §4.1/§4.2 "read path").
func (s *Server) loadDayEvents(r *http.Request) ([]model.Event, model.Settings, time.Time, time.Time, error) {
	start, end, err := dayWindow(r)
	if err != nil {
		return nil, model.Settings{}, time.Time{}, time.Time{}, err
	}
	events, err := s.Events.Range(r.Context(), start, end)
	if err != nil {
		return nil, model.Settings{}, time.Time{}, time.Time{}, err
	}
	rules, err := s.Rules.List(r.Context())
	if err != nil {
		return nil, model.Settings{}, time.Time{}, time.Time{}, err
	}
	settings, err := s.Settings.Load(r.Context())
	if err != nil {
		return nil, model.Settings{}, time.Time{}, time.Time{}, err
	}
	idx := buildIndex(rules)
	return idx.FilterEvents(events), settings, start, end, nil
}
