package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/focuslog/corehub/internal/apperr"
)

type healthResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, healthResponse{Service: s.Service, Version: s.Version})
}

type ackResponse struct {
	Stored bool `json:"stored"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "could not read body"))
		return
	}
	result, err := s.Ingest.Ingest(r.Context(), body, s.now())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, ackResponse{Stored: result.Stored})
}

const defaultEventsLimit = 50
const maxEventsLimit = 500

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeErr(w, apperr.New(apperr.CodeMalformedBody, "invalid limit"))
			return
		}
		limit = n
	}
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}

	events, err := s.Events.Tail(r.Context(), limit)
	if err != nil {
		writeErr(w, err)
		return
	}

	rules, err := s.Rules.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	idx := buildIndex(rules)
	writeOK(w, http.StatusOK, idx.FilterEvents(events))
}
