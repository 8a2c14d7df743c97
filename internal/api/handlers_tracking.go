package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/tracking"
)

func (s *Server) handleTrackingStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.Tracking.Status(r.Context(), s.now())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, status)
}

type pauseRequest struct {
	Minutes  *int   `json:"minutes,omitempty"`
	UntilTS  string `json:"until_ts,omitempty"`
}

func (s *Server) handleTrackingPause(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	body, _ := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeErr(w, apperr.New(apperr.CodeMalformedBody, "malformed pause body"))
			return
		}
	}

	var minutes *int
	if req.Minutes != nil {
		if *req.Minutes <= 0 {
			writeErr(w, apperr.New(apperr.CodeInvalidPause, "minutes must be positive"))
			return
		}
		minutes = req.Minutes
	} else if rawMinutes := r.URL.Query().Get("minutes"); rawMinutes != "" {
		m, err := tracking.ParseMinutes(rawMinutes)
		if err != nil {
			writeErr(w, err)
			return
		}
		minutes = m
	}

	status, err := s.Tracking.Pause(r.Context(), s.now(), req.UntilTS, minutes)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, status)
}

func (s *Server) handleTrackingResume(w http.ResponseWriter, r *http.Request) {
	status, err := s.Tracking.Resume(r.Context(), s.now())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, status)
}
