// Package review implements the Review Due-Block Selector (spec.md
// §4.8): picking the most recent block still awaiting review.
package review

import (
	"time"

	"github.com/focuslog/corehub/internal/model"
)

// GracePeriod is the window after a final block's end_ts during which
// it is still considered "still accruing" and not surfaced for review
// (spec.md §4.8 "now - end_ts > 30s").
const GracePeriod = 30 * time.Second

// Reviewable reports whether a block meets the minimum-duration and
// not-yet-done conditions for review (spec.md §4.8).
func Reviewable(block model.BlockSummary, reviewMinSeconds int) bool {
	if block.TotalSeconds < clamp(reviewMinSeconds, 60, 14400) {
		return false
	}
	if block.Review != nil && block.Review.Done() {
		return false
	}
	return true
}

// Due scans blocks (ascending by start, as produced by
// attribution.BuildBlocks) in reverse chronological order and returns
// the first reviewable one that is not a still-accruing final block.
func Due(blocks []model.BlockSummary, blockLen int, reviewMinSeconds int, now time.Time) *model.BlockSummary {
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		if !Reviewable(b, reviewMinSeconds) {
			continue
		}
		isLast := i == len(blocks)-1
		if !isLast {
			block := b
			return &block
		}
		if b.TotalSeconds >= blockLen || now.Sub(b.EndTS) > GracePeriod {
			block := b
			return &block
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
