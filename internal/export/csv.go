// Package export implements the bit-stable CSV and Markdown export
// formats described in spec.md §6.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/focuslog/corehub/internal/model"
)

const topItemSlots = 5

var csvHeader = []string{
	"date", "block_id", "start_ts", "end_ts", "total_seconds",
	"top1_name", "top1_seconds", "top2_name", "top2_seconds",
	"top3_name", "top3_seconds", "top4_name", "top4_seconds",
	"top5_name", "top5_seconds",
	"skipped", "skip_reason", "doing", "output", "next", "tags", "review_updated_at",
}

// topItemName renders a TopItem's display name: "<title> (<domain>)"
// for a titled domain item, otherwise the bare entity (spec.md §6).
func topItemName(item model.TopItem) string {
	if item.Kind == model.ItemKindDomain && item.Title != "" {
		return fmt.Sprintf("%s (%s)", item.Title, item.Entity)
	}
	return item.Entity
}

// CSV renders blocks as the documented bit-stable CSV schema for the
// local calendar date. RFC 4180 escaping is handled by encoding/csv.
func CSV(date string, blocks []model.BlockSummary) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, b := range blocks {
		row := make([]string, 0, len(csvHeader))
		row = append(row, date, b.ID,
			b.StartTS.UTC().Format(time.RFC3339), b.EndTS.UTC().Format(time.RFC3339),
			fmt.Sprintf("%d", b.TotalSeconds))

		for i := 0; i < topItemSlots; i++ {
			if i < len(b.TopItems) {
				row = append(row, topItemName(b.TopItems[i]), fmt.Sprintf("%d", b.TopItems[i].Seconds))
			} else {
				row = append(row, "", "")
			}
		}

		var skipped, skipReason, doing, output, next, tags, updatedAt string
		if b.Review != nil {
			skipped = fmt.Sprintf("%t", b.Review.Skipped)
			skipReason = b.Review.SkipReason
			doing = b.Review.Doing
			output = b.Review.Output
			next = b.Review.Next
			tags = strings.Join(b.Review.Tags, ";")
			updatedAt = b.Review.UpdatedAt.UTC().Format(time.RFC3339)
		} else {
			skipped = "false"
		}
		row = append(row, skipped, skipReason, doing, output, next, tags, updatedAt)

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
