package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/focuslog/corehub/internal/model"
	"github.com/focuslog/corehub/internal/timeutil"
)

func minutesDuration(m int) time.Duration {
	return time.Duration(m) * time.Minute
}

// Markdown renders blocks as the documented per-day report: a date
// heading, one "## HH:MM–HH:MM" section per block, a dot-joined "Top: "
// line, then bullet lines for any present review fields (spec.md §6).
// tzOffsetMinutes positions the HH:MM labels in local time.
//
// The assembled source is run through goldmark before being returned,
// and a goldmark error is returned to the caller. Any text is valid
// CommonMark, so this does not detect or escape Markdown syntax (e.g.
// a "#" or backtick) inside titles or review fields.
func Markdown(date string, blocks []model.BlockSummary, tzOffsetMinutes int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", date)

	offset := timeutil.ClampTZOffsetMinutes(tzOffsetMinutes)
	for _, blk := range blocks {
		startLocal := blk.StartTS.UTC().Add(minutesDuration(offset))
		endLocal := blk.EndTS.UTC().Add(minutesDuration(offset))
		fmt.Fprintf(&b, "## %s\xe2\x80\x93%s\n\n", startLocal.Format("15:04"), endLocal.Format("15:04"))

		if len(blk.TopItems) > 0 {
			parts := make([]string, 0, len(blk.TopItems))
			for _, item := range blk.TopItems {
				parts = append(parts, fmt.Sprintf("%s %s", topItemName(item), timeutil.FormatDuration(item.Seconds)))
			}
			fmt.Fprintf(&b, "Top: %s\n\n", strings.Join(parts, " \xc2\xb7 "))
		}

		if blk.Review != nil {
			writeReviewBullets(&b, *blk.Review)
		}
	}

	out := b.String()
	if err := goldmark.Convert([]byte(out), &bytes.Buffer{}); err != nil {
		return "", fmt.Errorf("export: markdown did not parse: %w", err)
	}
	return out, nil
}

func writeReviewBullets(b *strings.Builder, review model.BlockReview) {
	if review.Skipped {
		fmt.Fprintf(b, "- skipped: %s\n", review.SkipReason)
	}
	if review.Doing != "" {
		fmt.Fprintf(b, "- doing: %s\n", review.Doing)
	}
	if review.Output != "" {
		fmt.Fprintf(b, "- output: %s\n", review.Output)
	}
	if review.Next != "" {
		fmt.Fprintf(b, "- next: %s\n", review.Next)
	}
	if len(review.Tags) > 0 {
		fmt.Fprintf(b, "- tags: %s\n", strings.Join(review.Tags, ", "))
	}
	b.WriteString("\n")
}
