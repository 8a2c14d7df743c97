// Package tracking implements the Tracking-State Controller (spec.md §4.3):
// a paused/active singleton with auto-resume on deadline, including
// auto-resume on corrupted stored state.
package tracking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/log"
	"github.com/focuslog/corehub/internal/store"
)

// Controller wraps the durable tracking_state row with the pause/resume
// state machine described in spec.md §4.3.
type Controller struct {
	store *store.TrackingStore
}

// New builds a Controller over the given store.
func New(s *store.TrackingStore) *Controller { return &Controller{store: s} }

// Status is the externally-observable tracking state.
type Status struct {
	Paused      bool
	PausedUntil *time.Time
	UpdatedAt   time.Time
}

// Status returns the current status, applying auto-resume as a side
// effect when the deadline has passed (or the stored value is corrupt).
func (c *Controller) Status(ctx context.Context, now time.Time) (Status, error) {
	return c.isPaused(ctx, now)
}

// IsPaused reports whether tracking is currently paused, applying the
// same auto-resume side effect as Status.
func (c *Controller) IsPaused(ctx context.Context, now time.Time) (bool, error) {
	st, err := c.isPaused(ctx, now)
	return st.Paused, err
}

func (c *Controller) isPaused(ctx context.Context, now time.Time) (Status, error) {
	row, err := c.store.Load(ctx)
	if err != nil {
		return Status{}, apperr.Wrap(apperr.CodeDBError, err)
	}

	if !row.Paused {
		return Status{Paused: false, UpdatedAt: row.UpdatedAt}, nil
	}

	// Corrupted stored deadline: treat as expired, auto-resume.
	if row.ParseError != nil {
		log.WithComponent("tracking").Warn().
			Err(row.ParseError).
			Msg("malformed paused_until_ts, auto-resuming")
		if err := c.store.Save(ctx, false, nil, now); err != nil {
			return Status{}, apperr.Wrap(apperr.CodeDBError, err)
		}
		return Status{Paused: false, UpdatedAt: now}, nil
	}

	if row.PausedUntil != nil && !row.PausedUntil.After(now) {
		if err := c.store.Save(ctx, false, nil, now); err != nil {
			return Status{}, apperr.Wrap(apperr.CodeDBError, err)
		}
		return Status{Paused: false, UpdatedAt: now}, nil
	}

	return Status{Paused: true, PausedUntil: row.PausedUntil, UpdatedAt: row.UpdatedAt}, nil
}

// Pause puts tracking into the paused state. input may carry either a
// parseable RFC3339 untilTS or a positive minutes duration; anything
// else (both empty/invalid) results in an indefinite pause.
func (c *Controller) Pause(ctx context.Context, now time.Time, untilTS string, minutes *int) (Status, error) {
	var until *time.Time

	untilTS = strings.TrimSpace(untilTS)
	if t, err := time.Parse(time.RFC3339, untilTS); err == nil {
		tt := t.UTC()
		until = &tt
	} else if minutes != nil && *minutes > 0 {
		t := now.Add(time.Duration(*minutes) * time.Minute)
		until = &t
	}

	if err := c.store.Save(ctx, true, until, now); err != nil {
		return Status{}, apperr.Wrap(apperr.CodeDBError, err)
	}
	return Status{Paused: true, PausedUntil: until, UpdatedAt: now}, nil
}

// Resume clears the paused state immediately.
func (c *Controller) Resume(ctx context.Context, now time.Time) (Status, error) {
	if err := c.store.Save(ctx, false, nil, now); err != nil {
		return Status{}, apperr.Wrap(apperr.CodeDBError, err)
	}
	return Status{Paused: false, UpdatedAt: now}, nil
}

// ParseMinutes validates a pause "minutes" query/body field, returning
// (nil, nil) when absent so callers can distinguish "not provided" from
// "invalid".
func ParseMinutes(raw string) (*int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil, apperr.New(apperr.CodeInvalidPause, fmt.Sprintf("invalid pause minutes: %q", raw))
	}
	return &n, nil
}
