package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/focuslog/corehub/internal/export"
)

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	blocks, _, err := s.blocksForDay(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	body, err := export.Markdown(exportDate(r), blocks, exportTZOffset(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	blocks, _, err := s.blocksForDay(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	body, err := export.CSV(exportDate(r), blocks)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// exportDate mirrors dayWindow's default-to-today behavior so the CSV
// "date" column and Markdown heading match the computed window.
func exportDate(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return time.Now().UTC().Format("2006-01-02")
}

func exportTZOffset(r *http.Request) int {
	raw := r.URL.Query().Get("tz_offset_minutes")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
