package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/focuslog/corehub/internal/apperr"
)

func (s *Server) handleReportSettingsGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.ReportSettings.Load(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, settings)
}

// handleReportSettingsPost applies a partial update to the report
// settings singleton, mirroring handleSettingsPost (spec.md §6
// "partial update"), with the minute-of-day/weekday validation
// original_source's post_report_settings performs.
func (s *Server) handleReportSettingsPost(w http.ResponseWriter, r *http.Request) {
	current, err := s.ReportSettings.Load(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "could not read body"))
		return
	}
	if len(body) > 0 {
		var patch map[string]json.RawMessage
		if err := json.Unmarshal(body, &patch); err != nil {
			writeErr(w, apperr.New(apperr.CodeMalformedBody, "malformed report settings body"))
			return
		}
		if err := applyReportSettingsPatch(&current, patch); err != nil {
			writeErr(w, err)
			return
		}
	}

	saved, err := s.ReportSettings.Save(r.Context(), current, s.now())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, saved)
}
