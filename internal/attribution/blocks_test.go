package attribution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focuslog/corehub/internal/model"
)

func TestBuildBlocks_FillsExactlyOneBlock(t *testing.T) {
	now := t0("2026-03-15T10:30:00Z")
	events := []model.Event{
		{TS: t0("2026-03-15T10:00:00Z"), Event: model.KindAppActive, Entity: strp("editor.exe")},
	}
	blocks := BuildBlocks(events, now, 1800, 3600, false) // 30m blocks
	require.Len(t, blocks, 1)
	assert.Equal(t, 1800, blocks[0].TotalSeconds)
	require.Len(t, blocks[0].TopItems, 1)
	assert.Equal(t, "editor.exe", blocks[0].TopItems[0].Entity)
}

func TestBuildBlocks_SlicesLongSegmentAcrossBoundary(t *testing.T) {
	now := t0("2026-03-15T10:40:00Z")
	events := []model.Event{
		{TS: t0("2026-03-15T10:00:00Z"), Event: model.KindAppActive, Entity: strp("editor.exe")},
	}
	blocks := BuildBlocks(events, now, 1800, 3600, false) // 30m blocks, 40m of activity
	require.Len(t, blocks, 2)
	assert.Equal(t, 1800, blocks[0].TotalSeconds)
	assert.Equal(t, 600, blocks[1].TotalSeconds)
	assert.Equal(t, blocks[0].EndTS, blocks[1].StartTS)
}

func TestBuildBlocks_TopItemsCappedAtFive(t *testing.T) {
	now := t0("2026-03-15T10:06:00Z")
	var events []model.Event
	apps := []string{"a.exe", "b.exe", "c.exe", "d.exe", "e.exe", "f.exe"}
	ts := t0("2026-03-15T10:00:00Z")
	for _, app := range apps {
		events = append(events, model.Event{TS: ts, Event: model.KindAppActive, Entity: strp(app)})
		ts = ts.Add(time.Minute)
	}
	blocks := BuildBlocks(events, now, 600, 3600, false)
	require.Len(t, blocks, 1)
	assert.LessOrEqual(t, len(blocks[0].TopItems), 5)
}

func TestBuildBlocks_BackgroundAudioOverlay(t *testing.T) {
	// The audio walk's idle cutoff is capped at 120s (AudioIdleCutoffSeconds),
	// so "now" must stay within that cap of the audio event for a
	// background segment to be emitted at all.
	now := t0("2026-03-15T10:01:30Z")
	events := []model.Event{
		{TS: t0("2026-03-15T10:00:00Z"), Event: model.KindAppActive, Entity: strp("editor.exe")},
		{TS: t0("2026-03-15T10:00:00Z"), Event: model.KindAppAudio, Entity: strp("music-player.exe")},
	}
	blocks := BuildBlocks(events, now, 1800, 3600, false)
	require.Len(t, blocks, 1)
	assert.Greater(t, blocks[0].BackgroundSeconds, 0)
	require.NotEmpty(t, blocks[0].BackgroundTopItems)
	assert.Equal(t, "music-player.exe", blocks[0].BackgroundTopItems[0].Entity)
}

func TestBuildBlocks_AudioPrimaryWhenNoFocusEvents(t *testing.T) {
	now := t0("2026-03-15T10:01:30Z")
	events := []model.Event{
		{TS: t0("2026-03-15T10:00:00Z"), Event: model.KindAppAudio, Entity: strp("music-player.exe")},
	}
	blocks := BuildBlocks(events, now, 1800, 3600, false)
	require.Len(t, blocks, 1)
	assert.Equal(t, "music-player.exe", blocks[0].TopItems[0].Entity)
	assert.Zero(t, blocks[0].BackgroundSeconds)
}

func TestBuildBlocks_AppTitleDoesNotSplitTopItemBucket(t *testing.T) {
	now := t0("2026-03-15T10:02:00Z")
	events := []model.Event{
		{TS: t0("2026-03-15T10:00:00Z"), Event: model.KindAppActive, Entity: strp("editor.exe"), Title: strp("file_a.go - editor")},
		{TS: t0("2026-03-15T10:01:00Z"), Event: model.KindAppActive, Entity: strp("editor.exe"), Title: strp("file_b.go - editor")},
	}
	blocks := BuildBlocks(events, now, 1800, 3600, true)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].TopItems, 1, "app top items must bucket by entity only, not by title")
	assert.Equal(t, "editor.exe", blocks[0].TopItems[0].Entity)
	assert.Equal(t, 120, blocks[0].TopItems[0].Seconds)
}

func TestBuildBlocks_MinimumBlockLengthFloor(t *testing.T) {
	now := t0("2026-03-15T10:01:00Z")
	events := []model.Event{
		{TS: t0("2026-03-15T10:00:00Z"), Event: model.KindAppActive, Entity: strp("editor.exe")},
	}
	blocks := BuildBlocks(events, now, 10, 3600, false) // below the 60s floor
	require.NotEmpty(t, blocks)
	assert.LessOrEqual(t, blocks[0].TotalSeconds, 60)
}
