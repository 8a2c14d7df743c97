package api

import (
	"net/http"
	"time"

	"github.com/focuslog/corehub/internal/attribution"
	"github.com/focuslog/corehub/internal/model"
	"github.com/focuslog/corehub/internal/review"
)

func (s *Server) handleTimelineDay(w http.ResponseWriter, r *http.Request) {
	events, settings, _, _, err := s.loadDayEvents(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	segs := attribution.BuildTimeline(events, s.now(), settings.IdleCutoffSeconds, settings.StoreTitles)
	if segs == nil {
		segs = []model.TimelineSegment{}
	}
	writeOK(w, http.StatusOK, segs)
}

// blocksForDay computes today's blocks and attaches their reviews.
func (s *Server) blocksForDay(r *http.Request) ([]model.BlockSummary, model.Settings, error) {
	events, settings, start, end, err := s.loadDayEvents(r)
	if err != nil {
		return nil, model.Settings{}, err
	}
	blocks := attribution.BuildBlocks(events, s.now(), settings.BlockSeconds, settings.IdleCutoffSeconds, settings.StoreTitles)

	reviews, err := s.Reviews.ForRange(r.Context(), start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, model.Settings{}, err
	}
	for i := range blocks {
		if rev, ok := reviews[blocks[i].ID]; ok {
			rv := rev
			blocks[i].Review = &rv
		}
	}
	return blocks, settings, nil
}

func (s *Server) handleBlocksToday(w http.ResponseWriter, r *http.Request) {
	blocks, _, err := s.blocksForDay(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if blocks == nil {
		blocks = []model.BlockSummary{}
	}
	writeOK(w, http.StatusOK, blocks)
}

func (s *Server) handleBlocksDue(w http.ResponseWriter, r *http.Request) {
	blocks, settings, err := s.blocksForDay(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	due := review.Due(blocks, settings.BlockSeconds, settings.ReviewMinSeconds, s.now())
	writeOK(w, http.StatusOK, due)
}
