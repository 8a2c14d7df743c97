package api

import (
	"net/http"
	"strconv"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/now"
)

func (s *Server) handleNow(w http.ResponseWriter, r *http.Request) {
	limit := now.DefaultScanWindow
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErr(w, apperr.New(apperr.CodeMalformedBody, "invalid limit"))
			return
		}
		limit = n
	}
	limit = now.ClampScanWindow(limit)

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
	settings, err := s.Settings.Load(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}

	idx := buildIndex(rules)
	snap := now.Reduce(idx.FilterEvents(events), settings, s.now())
	writeOK(w, http.StatusOK, snap)
}
