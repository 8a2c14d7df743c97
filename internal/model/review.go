package model

import "time"

// BlockReview is the reviewable annotation attached to a block, keyed by
// the block's start RFC3339 timestamp (block_id).
type BlockReview struct {
	BlockID    string    `json:"block_id"`
	Skipped    bool      `json:"skipped"`
	SkipReason string    `json:"skip_reason,omitempty"`
	Doing      string    `json:"doing,omitempty"`
	Output     string    `json:"output,omitempty"`
	Next       string    `json:"next,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Done reports the "review doneness" predicate from spec.md §3/§4.8:
// skipped, or any of {doing, output, next} non-blank, or any tag present.
func (r BlockReview) Done() bool {
	if r.Skipped {
		return true
	}
	if r.Doing != "" || r.Output != "" || r.Next != "" {
		return true
	}
	return len(r.Tags) > 0
}
