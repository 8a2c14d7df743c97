// Package api is the thin HTTP shell around the core (spec.md §6): it
// decodes requests, calls into the domain packages, and serializes
// responses through the documented {ok, data|error} envelope.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/focuslog/corehub/internal/api/middleware"
	"github.com/focuslog/corehub/internal/ingest"
	"github.com/focuslog/corehub/internal/store"
	"github.com/focuslog/corehub/internal/tracking"
)

// Server holds every dependency the HTTP handlers need.
type Server struct {
	Events         *store.EventLog
	Rules          *store.PrivacyRules
	Settings       *store.SettingsStore
	ReportSettings *store.ReportSettingsStore
	Tracking       *tracking.Controller
	Reviews        *store.ReviewStore
	Ingest         *ingest.Pipeline

	Service string
	Version string

	// Clock is overridable in tests; defaults to time.Now.
	Clock func() time.Time
}

func (s *Server) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// NewRouter builds the chi router with the canonical middleware stack
// and every documented route mounted.
func (s *Server) NewRouter(cfg middleware.StackConfig) http.Handler {
	r := chi.NewRouter()
	middleware.Apply(r, cfg)

	r.Get("/health", s.handleHealth)
	r.Post("/event", s.handleEvent)
	r.Get("/events", s.handleEvents)
	r.Get("/now", s.handleNow)

	r.Get("/tracking/status", s.handleTrackingStatus)
	r.Post("/tracking/pause", s.handleTrackingPause)
	r.Post("/tracking/resume", s.handleTrackingResume)

	r.Get("/settings", s.handleSettingsGet)
	r.Post("/settings", s.handleSettingsPost)

	r.Get("/settings/report", s.handleReportSettingsGet)
	r.Post("/settings/report", s.handleReportSettingsPost)

	r.Get("/timeline/day", s.handleTimelineDay)
	r.Get("/blocks/today", s.handleBlocksToday)
	r.Get("/blocks/due", s.handleBlocksDue)
	r.Post("/blocks/review", s.handleBlocksReview)
	r.Post("/blocks/delete", s.handleBlocksDelete)

	r.Get("/privacy/rules", s.handlePrivacyRulesList)
	r.Post("/privacy/rules", s.handlePrivacyRulesCreate)
	r.Delete("/privacy/rules/{id}", s.handlePrivacyRuleDelete)

	r.Post("/data/delete_day", s.handleDataDeleteDay)
	r.Post("/data/wipe", s.handleDataWipe)

	r.Get("/export/markdown", s.handleExportMarkdown)
	r.Get("/export/csv", s.handleExportCSV)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
