// Package reportgen implements the report-generation scheduler named in
// spec.md §9 ("Report generation is external to the core"): selection
// and per-kind cooldown throttling only, never text synthesis. The
// producer is an injected opaque callable, wrapped in a circuit breaker
// so a flaky provider cannot wedge the scheduler (grounded on
// tomtom215-cartographus's gobreaker usage).
package reportgen

import (
	"context"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/focuslog/corehub/internal/log"
	"github.com/focuslog/corehub/internal/store"
)

// cooldowns per report kind (spec.md §5 "1 h for daily, 6 h for weekly").
var cooldowns = map[string]time.Duration{
	"daily":  time.Hour,
	"weekly": 6 * time.Hour,
}

// Producer generates report markdown from a prompt and an opaque JSON
// bundle. Implementations may return arbitrary text, including
// code-fenced or reasoning-tagged output (spec.md §9); the scheduler
// does not interpret it.
type Producer func(ctx context.Context, prompt string, bundle []byte) (string, error)

// Job describes one report-generation candidate.
type Job struct {
	ID          string
	Kind        string // "daily" | "weekly"
	PeriodStart time.Time
	PeriodEnd   time.Time
	ProviderURL string
	Model       string
	Prompt      string
	Bundle      []byte
}

// BundleSource builds the opaque stats bundle (see Bundle) handed to
// the producer alongside a job's prompt. It is optional; when unset,
// jobs run with a nil Bundle.
type BundleSource func(ctx context.Context, job Job) ([]byte, error)

// Scheduler polls a fixed 30 s tick (spec.md §5). On each tick it tries
// every scheduled job whose kind's cooldown has passed since that kind's
// last successful generation. A failed attempt records no generation
// time, so it starts no cooldown and is tried again on later ticks. A
// period that already has a report is generated again, under the same
// report id, once the cooldown has passed.
type Scheduler struct {
	reports        *store.ReportsStore
	reportSettings *store.ReportSettingsStore
	producer       Producer
	breaker        *gobreaker.CircuitBreaker[string]
	limiter        *rate.Limiter
	bundleSource   BundleSource
}

// WithBundleSource attaches a bundle builder and returns the scheduler
// for chaining (grounded on the teacher's functional-options style used
// across its adapters).
func (s *Scheduler) WithBundleSource(src BundleSource) *Scheduler {
	s.bundleSource = src
	return s
}

// New builds a Scheduler. limiter paces outbound producer calls
// (golang.org/x/time/rate), independent of the per-kind cooldown.
// reportSettings is consulted every tick (spec.md §5 "report
// settings... its own exclusive lock"): jobs are built from its
// daily/weekly schedule, and generation is skipped entirely while it
// reports unconfigured (grounded on original_source's
// report_settings_is_configured gate).
func New(reports *store.ReportsStore, reportSettings *store.ReportSettingsStore, producer Producer) *Scheduler {
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "reportgen-producer",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &Scheduler{
		reports:        reports,
		reportSettings: reportSettings,
		producer:       producer,
		breaker:        breaker,
		limiter:        rate.NewLimiter(rate.Every(10*time.Second), 1),
	}
}

// Tick is the scheduler's 30 s outer-loop body (spec.md §5): load the
// current report settings, build the candidate jobs due at now, and
// for each whose cooldown has elapsed, attempt generation through the
// circuit breaker, persisting success or failure.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	logger := log.WithComponent("reportgen")

	settings, err := s.reportSettings.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load report settings")
		return
	}
	if !settings.Configured() {
		return
	}

	for _, job := range BuildJobs(settings, now) {
		due, err := s.due(ctx, job, now)
		if err != nil {
			logger.Error().Err(err).Str("report_id", job.ID).Msg("cooldown check failed")
			continue
		}
		if !due {
			continue
		}
		s.attempt(ctx, job, now)
	}
}

func (s *Scheduler) due(ctx context.Context, job Job, now time.Time) (bool, error) {
	cooldown, ok := cooldowns[job.Kind]
	if !ok {
		cooldown = time.Hour
	}
	last, err := s.reports.LastGeneratedAt(ctx, job.Kind)
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}
	return now.Sub(*last) >= cooldown, nil
}

func (s *Scheduler) attempt(ctx context.Context, job Job, now time.Time) {
	logger := log.WithComponent("reportgen")
	if err := s.limiter.Wait(ctx); err != nil {
		logger.Warn().Err(err).Str("report_id", job.ID).Msg("rate limiter wait aborted")
		return
	}

	if s.bundleSource != nil {
		bundle, err := s.bundleSource(ctx, job)
		if err != nil {
			logger.Error().Err(err).Str("report_id", job.ID).Msg("failed to build report bundle")
		} else {
			job.Bundle = bundle
		}
	}

	output, err := s.breaker.Execute(func() (string, error) {
		return s.producer(ctx, job.Prompt, job.Bundle)
	})

	row := store.Report{
		ID:          job.ID,
		Kind:        job.Kind,
		PeriodStart: job.PeriodStart,
		PeriodEnd:   job.PeriodEnd,
		ProviderURL: job.ProviderURL,
		Model:       job.Model,
		Prompt:      job.Prompt,
	}
	if err != nil {
		row.Error = fmt.Sprintf("%v", err)
	} else {
		g := now
		row.GeneratedAt = &g
		row.OutputMD = output
	}
	if ierr := s.reports.Insert(ctx, row); ierr != nil {
		logger.Error().Err(ierr).Str("report_id", job.ID).Msg("failed to persist report row")
	}
}
