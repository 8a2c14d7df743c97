package api

import (
	"net/http"
	"time"
)

type dataDeleteResponse struct {
	EventsDeleted  int64 `json:"events_deleted"`
	ReviewsDeleted int64 `json:"reviews_deleted"`
}

func (s *Server) handleDataDeleteDay(w http.ResponseWriter, r *http.Request) {
	start, end, err := dayWindow(r)
	if err != nil {
		writeErr(w, err)
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
	writeOK(w, http.StatusOK, dataDeleteResponse{EventsDeleted: eventsDeleted, ReviewsDeleted: reviewsDeleted})
}

func (s *Server) handleDataWipe(w http.ResponseWriter, r *http.Request) {
	eventsDeleted, err := s.Events.DeleteAll(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	reviewsDeleted, err := s.Reviews.DeleteAll(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, dataDeleteResponse{EventsDeleted: eventsDeleted, ReviewsDeleted: reviewsDeleted})
}
