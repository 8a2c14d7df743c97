package reportgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focuslog/corehub/internal/model"
)

func bt(s string) time.Time {
	tm, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return tm
}

func TestBuildBundle_SplitsFocusAndAudioSeconds(t *testing.T) {
	segs := []model.TimelineSegment{
		{StartTS: bt("2026-03-15T09:00:00Z"), EndTS: bt("2026-03-15T09:10:00Z"), Kind: model.ItemKindApp, Entity: "editor.exe", Activity: model.ActivityFocus},
		{StartTS: bt("2026-03-15T09:00:00Z"), EndTS: bt("2026-03-15T09:05:00Z"), Kind: model.ItemKindApp, Entity: "music.exe", Activity: model.ActivityAudio},
	}
	b := BuildBundle(segs, nil, nil)
	assert.Equal(t, 600, b.FocusSeconds)
	assert.Equal(t, 300, b.AudioSeconds)
	assert.Equal(t, 1, b.FocusSegments)
	assert.Equal(t, 1, b.AudioSegments)
}

func TestBuildBundle_Top1ShareUsesFirstFocusItem(t *testing.T) {
	segs := []model.TimelineSegment{
		{StartTS: bt("2026-03-15T09:00:00Z"), EndTS: bt("2026-03-15T09:10:00Z"), Kind: model.ItemKindApp, Entity: "editor.exe", Activity: model.ActivityFocus},
		{StartTS: bt("2026-03-15T09:10:00Z"), EndTS: bt("2026-03-15T09:15:00Z"), Kind: model.ItemKindApp, Entity: "mail.exe", Activity: model.ActivityFocus},
	}
	b := BuildBundle(segs, nil, nil)
	require.NotEmpty(t, b.TopFocusItems)
	assert.Equal(t, "editor.exe", b.TopFocusItems[0].Entity)
	assert.Equal(t, 600, b.Top1Seconds)
	assert.InDelta(t, 600.0/900.0, b.Top1Share, 0.0001)
}

func TestBuildBundle_BlockedDomainSecondsCountsSuffixMatch(t *testing.T) {
	segs := []model.TimelineSegment{
		{StartTS: bt("2026-03-15T09:00:00Z"), EndTS: bt("2026-03-15T09:05:00Z"), Kind: model.ItemKindDomain, Entity: "mail.example.com", Activity: model.ActivityFocus},
	}
	rules := []model.PrivacyRule{{Kind: model.PrivacyKindDomain, Value: "example.com"}}
	b := BuildBundle(segs, nil, rules)
	assert.Equal(t, 300, b.BlockedFocusSeconds)
	assert.Contains(t, b.BlockedDomains, "example.com")
}

func TestBuildBundle_FocusTopHoursCappedAtSixNonZero(t *testing.T) {
	var segs []model.TimelineSegment
	start := bt("2026-03-15T00:00:00Z")
	for h := 0; h < 10; h++ {
		t0 := start.Add(time.Duration(h) * time.Hour)
		segs = append(segs, model.TimelineSegment{StartTS: t0, EndTS: t0.Add(10 * time.Minute), Kind: model.ItemKindApp, Entity: "editor.exe", Activity: model.ActivityFocus})
	}
	b := BuildBundle(segs, nil, nil)
	assert.LessOrEqual(t, len(b.FocusTopHours), 6)
	for _, hb := range b.FocusTopHours {
		assert.Greater(t, hb.FocusSeconds, 0)
	}
}

func TestBuildBundle_MarshalProducesJSON(t *testing.T) {
	b := BuildBundle(nil, nil, nil)
	raw, err := b.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "focus_seconds")
}
