package attribution

import (
	"sort"
	"time"

	"github.com/focuslog/corehub/internal/model"
)

// bucketKey identifies one TopItem slot within a block.
type bucketKey struct {
	kind   model.ItemKind
	entity string
	title  string
}

// newBucketKey builds a bucket key, dropping title for apps: spec.md
// §4.5 "Title semantics" — titles are part of the key for domains but
// not for apps, even though an app segment's Title field is populated.
func newBucketKey(kind model.ItemKind, entity, title string) bucketKey {
	if kind == model.ItemKindApp {
		title = ""
	}
	return bucketKey{kind: kind, entity: entity, title: title}
}

type bucket map[bucketKey]int

func (b bucket) add(k bucketKey, seconds int) {
	b[k] += seconds
}

// topItems returns the bucket's entries sorted by seconds descending,
// truncated to the top 5 (spec.md §4.6 "Finalization").
func topItems(b bucket) []model.TopItem {
	items := make([]model.TopItem, 0, len(b))
	for k, secs := range b {
		if secs <= 0 {
			continue
		}
		items = append(items, model.TopItem{Kind: k.kind, Entity: k.entity, Title: k.title, Seconds: secs})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Seconds != items[j].Seconds {
			return items[i].Seconds > items[j].Seconds
		}
		if items[i].Kind != items[j].Kind {
			return items[i].Kind < items[j].Kind
		}
		if items[i].Entity != items[j].Entity {
			return items[i].Entity < items[j].Entity
		}
		return items[i].Title < items[j].Title
	})
	if len(items) > 5 {
		items = items[:5]
	}
	return items
}

// blockAccumulator builds fixed-length blocks out of a sequence of
// timeline-like segments, per spec.md §4.6's bucketing rule.
type blockAccumulator struct {
	blockLen     time.Duration
	blocks       []model.BlockSummary
	blockStart   time.Time
	cursor       time.Time
	activeSecs   int
	buck         bucket
	open         bool
	prevSegEnd   time.Time
}

func newBlockAccumulator(blockLen time.Duration) *blockAccumulator {
	return &blockAccumulator{blockLen: blockLen, buck: bucket{}}
}

func (a *blockAccumulator) finalizeIfOpen() {
	if !a.open || a.activeSecs <= 0 {
		a.open = false
		a.buck = bucket{}
		a.activeSecs = 0
		return
	}
	a.blocks = append(a.blocks, model.BlockSummary{
		ID:           a.blockStart.UTC().Format(time.RFC3339),
		StartTS:      a.blockStart,
		EndTS:        a.cursor,
		TotalSeconds: a.activeSecs,
		TopItems:     topItems(a.buck),
	})
	a.open = false
	a.buck = bucket{}
	a.activeSecs = 0
}

// feed folds one resolved (kind, entity, title) segment into the
// accumulator, slicing it across block boundaries as needed.
func (a *blockAccumulator) feed(start, end time.Time, kind model.ItemKind, entity, title string) {
	if !end.After(start) {
		return
	}
	if !a.open {
		a.open = true
		a.blockStart = start
		a.cursor = start
		a.activeSecs = 0
		a.buck = bucket{}
	} else if !start.Equal(a.prevSegEnd) {
		// An idle gap separates this segment from the prior one.
		a.finalizeIfOpen()
		a.open = true
		a.blockStart = start
		a.cursor = start
		a.activeSecs = 0
		a.buck = bucket{}
	}

	key := newBucketKey(kind, entity, title)
	remaining := end.Sub(start)
	pos := start
	for remaining > 0 {
		remainingInBlock := a.blockLen - time.Duration(a.activeSecs)*time.Second
		slice := remaining
		if remainingInBlock < slice {
			slice = remainingInBlock
		}
		secs := int(slice.Seconds())
		if secs > 0 {
			a.buck.add(key, secs)
			a.activeSecs += secs
		}
		pos = pos.Add(slice)
		remaining -= slice
		a.cursor = pos

		if time.Duration(a.activeSecs)*time.Second >= a.blockLen {
			a.finalizeIfOpen()
			if remaining > 0 {
				a.open = true
				a.blockStart = pos
				a.cursor = pos
				a.activeSecs = 0
				a.buck = bucket{}
			}
		}
	}
	a.prevSegEnd = end
}

func (a *blockAccumulator) result() []model.BlockSummary {
	a.finalizeIfOpen()
	return a.blocks
}

// BuildBlocks computes fixed-length blocks with background-audio
// overlay for a (privacy-filtered) event window (spec.md §4.6).
func BuildBlocks(events []model.Event, now time.Time, blockSeconds, idleCutoffSeconds int, storeTitles bool) []model.BlockSummary {
	blockLen := blockSeconds
	if blockLen < 60 {
		blockLen = 60
	}
	focusEvents, audioEvents := splitStreams(events)
	audioIdle := AudioIdleCutoffSeconds(idleCutoffSeconds)

	var primarySegs []model.TimelineSegment
	audioPrimary := len(focusEvents) == 0 && len(audioEvents) > 0
	if audioPrimary {
		primarySegs = walkAudio(audioEvents, now, audioIdle, storeTitles)
	} else {
		primarySegs = walkFocus(focusEvents, now, idleCutoffSeconds, storeTitles)
	}
	sort.SliceStable(primarySegs, func(i, j int) bool { return primarySegs[i].StartTS.Before(primarySegs[j].StartTS) })

	acc := newBlockAccumulator(time.Duration(blockLen) * time.Second)
	for _, s := range primarySegs {
		acc.feed(s.StartTS, s.EndTS, s.Kind, s.Entity, s.Title)
	}
	blocks := acc.result()

	if !audioPrimary && len(audioEvents) > 0 && len(blocks) > 0 {
		audioSegs := mergeAdjacent(walkAudio(audioEvents, now, audioIdle, storeTitles))
		overlayBackgroundAudio(blocks, audioSegs)
	}
	return blocks
}

// overlayBackgroundAudio mutates blocks in place, adding background
// audio seconds/top-items via the two-pointer sweep from spec.md §4.6.
func overlayBackgroundAudio(blocks []model.BlockSummary, audioSegs []model.TimelineSegment) {
	buckets := make([]bucket, len(blocks))
	for i := range buckets {
		buckets[i] = bucket{}
	}

	startIdx := 0
	for _, seg := range audioSegs {
		for startIdx < len(blocks) && !blocks[startIdx].EndTS.After(seg.StartTS) {
			startIdx++
		}
		for bi := startIdx; bi < len(blocks) && blocks[bi].StartTS.Before(seg.EndTS); bi++ {
			b := blocks[bi]
			overlapStart := b.StartTS
			if seg.StartTS.After(overlapStart) {
				overlapStart = seg.StartTS
			}
			overlapEnd := b.EndTS
			if seg.EndTS.Before(overlapEnd) {
				overlapEnd = seg.EndTS
			}
			if overlapEnd.After(overlapStart) {
				secs := int(overlapEnd.Sub(overlapStart).Seconds())
				buckets[bi].add(newBucketKey(seg.Kind, seg.Entity, seg.Title), secs)
			}
		}
	}

	for i := range blocks {
		total := 0
		for _, secs := range buckets[i] {
			total += secs
		}
		blocks[i].BackgroundSeconds = total
		blocks[i].BackgroundTopItems = topItems(buckets[i])
	}
}
