// Package store implements the C1-C3, C6 persistence components atop
// the embedded SQLite database, grounded on the teacher's
// internal/domain/session/store SQLite repository pattern.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/focuslog/corehub/internal/model"
)

// EventLog is the append-only durable event store (spec.md §4.1).
type EventLog struct {
	db *sql.DB
}

// NewEventLog wraps an open *sql.DB.
func NewEventLog(db *sql.DB) *EventLog { return &EventLog{db: db} }

// Insert appends a new event, returning its allocated monotonic id.
// A single-row INSERT is atomic: readers never observe a partial write.
func (l *EventLog) Insert(ctx context.Context, ts time.Time, source string, kind model.Kind, entity, title *string, payload []byte) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO events (ts, source, event, entity, title, payload_json) VALUES (?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(time.RFC3339Nano), source, string(kind), entity, title, string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("events: insert: %w", err)
	}
	return res.LastInsertId()
}

// Range returns events with ts in [start, end), ascending, restricted to
// rows with a non-null entity (spec.md §4.1).
func (l *EventLog) Range(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, ts, source, event, entity, title, payload_json FROM events
		 WHERE ts >= ? AND ts < ? AND entity IS NOT NULL
		 ORDER BY ts ASC, id ASC`,
		start.UTC().Format(time.RFC3339Nano), end.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("events: range query: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Tail returns the last N events, descending by ts then id.
func (l *EventLog) Tail(ctx context.Context, n int) ([]model.Event, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, ts, source, event, entity, title, payload_json FROM events
		 ORDER BY ts DESC, id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("events: tail query: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// DeleteRange deletes events with ts in [start, end).
func (l *EventLog) DeleteRange(ctx context.Context, start, end time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM events WHERE ts >= ? AND ts < ?`,
		start.UTC().Format(time.RFC3339Nano), end.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("events: delete range: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAll wipes the event log entirely.
func (l *EventLog) DeleteAll(ctx context.Context) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM events`)
	if err != nil {
		return 0, fmt.Errorf("events: delete all: %w", err)
	}
	return res.RowsAffected()
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var out []model.Event
	for rows.Next() {
		var (
			ev       model.Event
			tsStr    string
			kindStr  string
			entity   sql.NullString
			title    sql.NullString
			payload  string
		)
		if err := rows.Scan(&ev.ID, &tsStr, &ev.Source, &kindStr, &entity, &title, &payload); err != nil {
			return nil, fmt.Errorf("events: scan: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			ts, err = time.Parse(time.RFC3339, tsStr)
			if err != nil {
				return nil, fmt.Errorf("events: parse ts: %w", err)
			}
		}
		ev.TS = ts.UTC()
		ev.Event = model.Kind(kindStr)
		if entity.Valid {
			v := entity.String
			ev.Entity = &v
		}
		if title.Valid {
			v := title.String
			ev.Title = &v
		}
		ev.Payload = []byte(payload)
		out = append(out, ev)
	}
	return out, rows.Err()
}
