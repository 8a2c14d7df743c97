package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/focuslog/corehub/internal/model"
)

// ReviewStore persists per-block review records, keyed by block_id
// (the block's RFC3339 start, spec.md §3).
type ReviewStore struct {
	db *sql.DB
}

// NewReviewStore wraps an open *sql.DB.
func NewReviewStore(db *sql.DB) *ReviewStore { return &ReviewStore{db: db} }

// Upsert inserts or replaces the review for blockID.
func (r *ReviewStore) Upsert(ctx context.Context, review model.BlockReview) error {
	tagsJSON, err := json.Marshal(review.Tags)
	if err != nil {
		return fmt.Errorf("block_reviews: marshal tags: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO block_reviews (block_id, skipped, skip_reason, doing, output, next, tags_json, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(block_id) DO UPDATE SET
			skipped = excluded.skipped,
			skip_reason = excluded.skip_reason,
			doing = excluded.doing,
			output = excluded.output,
			next = excluded.next,
			tags_json = excluded.tags_json,
			updated_at = excluded.updated_at`,
		review.BlockID, boolToInt(review.Skipped), review.SkipReason, review.Doing, review.Output, review.Next,
		string(tagsJSON), review.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("block_reviews: upsert: %w", err)
	}
	return nil
}

// Get returns the review for blockID, or nil if none exists.
func (r *ReviewStore) Get(ctx context.Context, blockID string) (*model.BlockReview, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT block_id, skipped, skip_reason, doing, output, next, tags_json, updated_at
		 FROM block_reviews WHERE block_id = ?`, blockID)
	return scanReview(row)
}

// ForRange returns all reviews whose block_id falls in [start, end)
// (block ids sort lexicographically in chronological order, spec.md §9).
func (r *ReviewStore) ForRange(ctx context.Context, start, end string) (map[string]model.BlockReview, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT block_id, skipped, skip_reason, doing, output, next, tags_json, updated_at
		 FROM block_reviews WHERE block_id >= ? AND block_id < ?`, start, end)
	if err != nil {
		return nil, fmt.Errorf("block_reviews: range query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.BlockReview)
	for rows.Next() {
		review, err := scanReviewRows(rows)
		if err != nil {
			return nil, err
		}
		out[review.BlockID] = *review
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanReview(row scannable) (*model.BlockReview, error) {
	return scanReviewInto(row)
}

func scanReviewRows(rows *sql.Rows) (*model.BlockReview, error) {
	return scanReviewInto(rows)
}

func scanReviewInto(row scannable) (*model.BlockReview, error) {
	var (
		review     model.BlockReview
		skippedInt int
		skipReason, doing, output, next sql.NullString
		tagsJSON, updatedAt string
	)
	err := row.Scan(&review.BlockID, &skippedInt, &skipReason, &doing, &output, &next, &tagsJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("block_reviews: scan: %w", err)
	}
	review.Skipped = skippedInt != 0
	review.SkipReason = skipReason.String
	review.Doing = doing.String
	review.Output = output.String
	review.Next = next.String
	_ = json.Unmarshal([]byte(tagsJSON), &review.Tags)
	review.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &review, nil
}

// DeleteRange deletes reviews whose block_id falls in [start, end).
func (r *ReviewStore) DeleteRange(ctx context.Context, start, end string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM block_reviews WHERE block_id >= ? AND block_id < ?`, start, end)
	if err != nil {
		return 0, fmt.Errorf("block_reviews: delete range: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOne deletes the review for a single exact block_id.
func (r *ReviewStore) DeleteOne(ctx context.Context, blockID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM block_reviews WHERE block_id = ?`, blockID)
	if err != nil {
		return 0, fmt.Errorf("block_reviews: delete one: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAll wipes all reviews.
func (r *ReviewStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM block_reviews`)
	if err != nil {
		return 0, fmt.Errorf("block_reviews: delete all: %w", err)
	}
	return res.RowsAffected()
}
