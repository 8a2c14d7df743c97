package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Report is a persisted row describing one report-generation attempt,
// including the opaque text an external LLM producer returned
// (spec.md §9 "Report generation is external to the core").
type Report struct {
	ID          string
	Kind        string // "daily" | "weekly"
	PeriodStart time.Time
	PeriodEnd   time.Time
	GeneratedAt *time.Time
	ProviderURL string
	Model       string
	Prompt      string
	InputJSON   string
	OutputMD    string
	Error       string
}

// ReportsStore persists report rows.
type ReportsStore struct {
	db *sql.DB
}

// NewReportsStore wraps an open *sql.DB.
func NewReportsStore(db *sql.DB) *ReportsStore { return &ReportsStore{db: db} }

// Insert stores a new report row.
func (s *ReportsStore) Insert(ctx context.Context, r Report) error {
	var generatedAt any
	if r.GeneratedAt != nil {
		generatedAt = r.GeneratedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, kind, period_start, period_end, generated_at, provider_url, model, prompt, input_json, output_md, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			generated_at = excluded.generated_at,
			output_md = excluded.output_md,
			error = excluded.error`,
		r.ID, r.Kind, r.PeriodStart.UTC().Format(time.RFC3339), r.PeriodEnd.UTC().Format(time.RFC3339),
		generatedAt, r.ProviderURL, r.Model, r.Prompt, r.InputJSON, r.OutputMD, r.Error,
	)
	if err != nil {
		return fmt.Errorf("reports: insert: %w", err)
	}
	return nil
}

// LastGeneratedAt returns the most recent generated_at for a report kind,
// used to enforce the scheduler's per-kind cooldown (spec.md §5).
func (s *ReportsStore) LastGeneratedAt(ctx context.Context, kind string) (*time.Time, error) {
	var generatedAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT generated_at FROM reports WHERE kind = ? AND generated_at IS NOT NULL ORDER BY generated_at DESC LIMIT 1`,
		kind,
	).Scan(&generatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reports: last generated: %w", err)
	}
	if !generatedAt.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, generatedAt.String)
	if err != nil {
		return nil, nil
	}
	t = t.UTC()
	return &t, nil
}
