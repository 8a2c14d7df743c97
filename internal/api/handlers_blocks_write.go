package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/model"
)

type reviewUpsertRequest struct {
	BlockID    string   `json:"block_id"`
	Skipped    bool     `json:"skipped"`
	SkipReason string   `json:"skip_reason"`
	Doing      string   `json:"doing"`
	Output     string   `json:"output"`
	Next       string   `json:"next"`
	Tags       []string `json:"tags"`
}

func (s *Server) handleBlocksReview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "could not read body"))
		return
	}
	var req reviewUpsertRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "malformed review body"))
		return
	}
	if req.BlockID == "" {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "block_id is required"))
		return
	}
	if _, err := time.Parse(time.RFC3339, req.BlockID); err != nil {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "block_id must be RFC3339"))
		return
	}

	review := model.BlockReview{
		BlockID:    req.BlockID,
		Skipped:    req.Skipped,
		SkipReason: req.SkipReason,
		Doing:      req.Doing,
		Output:     req.Output,
		Next:       req.Next,
		Tags:       req.Tags,
		UpdatedAt:  s.now(),
	}
	if err := s.Reviews.Upsert(r.Context(), review); err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, review)
}

type blocksDeleteRequest struct {
	BlockID string `json:"block_id"`
	StartTS string `json:"start_ts"`
	EndTS   string `json:"end_ts"`
}

type blocksDeleteResponse struct {
	EventsDeleted  int64 `json:"events_deleted"`
	ReviewsDeleted int64 `json:"reviews_deleted"`
}

// handleBlocksDelete deletes either a single block (by block_id, which
// doubles as its review key and its start_ts) or a [start_ts, end_ts)
// range of blocks, per spec.md §6 "/blocks/delete".
func (s *Server) handleBlocksDelete(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "could not read body"))
		return
	}
	var req blocksDeleteRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeErr(w, apperr.New(apperr.CodeMalformedBody, "malformed delete body"))
			return
		}
	}

	var start, end time.Time
	switch {
	case req.BlockID != "":
		start, err = time.Parse(time.RFC3339, req.BlockID)
		if err != nil {
			writeErr(w, apperr.New(apperr.CodeMalformedBody, "block_id must be RFC3339"))
			return
		}
		settings, serr := s.Settings.Load(r.Context())
		if serr != nil {
			writeErr(w, serr)
			return
		}
		end = start.Add(time.Duration(settings.BlockSeconds) * time.Second)
	case req.StartTS != "":
		start, err = time.Parse(time.RFC3339, req.StartTS)
		if err != nil {
			writeErr(w, apperr.New(apperr.CodeMalformedBody, "start_ts must be RFC3339"))
			return
		}
		if req.EndTS != "" {
			end, err = time.Parse(time.RFC3339, req.EndTS)
			if err != nil {
				writeErr(w, apperr.New(apperr.CodeMalformedBody, "end_ts must be RFC3339"))
				return
			}
		} else {
			end = s.now()
		}
	default:
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "block_id or start_ts is required"))
		return
	}
	if !end.After(start) {
		writeErr(w, apperr.New(apperr.CodeInvalidRange, "end_ts must be after start_ts"))
		return
	}

	eventsDeleted, err := s.Events.DeleteRange(r.Context(), start, end)
	if err != nil {
		writeErr(w, err)
		return
	}
	reviewsDeleted, err := s.Reviews.DeleteRange(r.Context(),
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, blocksDeleteResponse{EventsDeleted: eventsDeleted, ReviewsDeleted: reviewsDeleted})
}
