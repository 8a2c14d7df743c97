package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/focuslog/corehub/internal/model"
)

// PrivacyRules is the durable rule table (unique on kind, value).
type PrivacyRules struct {
	db *sql.DB
}

// NewPrivacyRules wraps an open *sql.DB.
func NewPrivacyRules(db *sql.DB) *PrivacyRules { return &PrivacyRules{db: db} }

// Upsert inserts or replaces a rule, normalizing domain values to lowercase
// and app values by trimming whitespace (spec.md §3).
func (r *PrivacyRules) Upsert(ctx context.Context, kind model.PrivacyKind, value string, action model.PrivacyAction) (model.PrivacyRule, error) {
	value = normalizeRuleValue(kind, value)
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO privacy_rules (kind, value, action, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(kind, value) DO UPDATE SET action = excluded.action`,
		string(kind), value, string(action), now.Format(time.RFC3339),
	)
	if err != nil {
		return model.PrivacyRule{}, fmt.Errorf("privacy_rules: upsert: %w", err)
	}
	var rule model.PrivacyRule
	var createdAt string
	row := r.db.QueryRowContext(ctx, `SELECT id, kind, value, action, created_at FROM privacy_rules WHERE kind = ? AND value = ?`,
		string(kind), value)
	var kindStr, actionStr string
	if err := row.Scan(&rule.ID, &kindStr, &rule.Value, &actionStr, &createdAt); err != nil {
		return model.PrivacyRule{}, fmt.Errorf("privacy_rules: read back: %w", err)
	}
	rule.Kind = model.PrivacyKind(kindStr)
	rule.Action = model.PrivacyAction(actionStr)
	rule.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rule, nil
}

// List returns all rules, ordered by id.
func (r *PrivacyRules) List(ctx context.Context) ([]model.PrivacyRule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, kind, value, action, created_at FROM privacy_rules ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("privacy_rules: list: %w", err)
	}
	defer rows.Close()

	var out []model.PrivacyRule
	for rows.Next() {
		var rule model.PrivacyRule
		var kindStr, actionStr, createdAt string
		if err := rows.Scan(&rule.ID, &kindStr, &rule.Value, &actionStr, &createdAt); err != nil {
			return nil, fmt.Errorf("privacy_rules: scan: %w", err)
		}
		rule.Kind = model.PrivacyKind(kindStr)
		rule.Action = model.PrivacyAction(actionStr)
		rule.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, rule)
	}
	return out, rows.Err()
}

// Delete removes a rule by id, reporting whether a row was removed.
func (r *PrivacyRules) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM privacy_rules WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("privacy_rules: delete: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func normalizeRuleValue(kind model.PrivacyKind, value string) string {
	value = strings.TrimSpace(value)
	if kind == model.PrivacyKindDomain {
		return strings.ToLower(value)
	}
	return value
}
