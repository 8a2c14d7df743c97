package api

import (
	"encoding/json"
	"net/http"

	"github.com/focuslog/corehub/internal/apperr"
)

type envelope struct {
	OK    bool  `json:"ok"`
	Data  any   `json:"data,omitempty"`
	Error *string `json:"error,omitempty"`
}

// writeOK writes a successful envelope with the given data, which may
// be nil.
func writeOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{OK: true, Data: data})
}

// writeErr writes a failed envelope, choosing the HTTP status from the
// error's apperr.Code (spec.md §7 "Propagation").
func writeErr(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	status := statusForCode(code)
	codeStr := string(code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{OK: false, Error: &codeStr})
}

func statusForCode(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeDBError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
