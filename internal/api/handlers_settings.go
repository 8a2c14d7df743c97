package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/focuslog/corehub/internal/apperr"
)

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.Settings.Load(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, settings)
}

// handleSettingsPost applies a partial update: only fields present in
// the request body overwrite the loaded settings before re-clamping
// and saving (spec.md §6 "partial update").
func (s *Server) handleSettingsPost(w http.ResponseWriter, r *http.Request) {
	current, err := s.Settings.Load(r.Context())
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
			writeErr(w, apperr.New(apperr.CodeMalformedBody, "malformed settings body"))
			return
		}
		if err := applySettingsPatch(&current, patch); err != nil {
			writeErr(w, err)
			return
		}
	}

	saved, err := s.Settings.Save(r.Context(), current)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, saved)
}
