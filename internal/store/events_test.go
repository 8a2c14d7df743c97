package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focuslog/corehub/internal/model"
)

func strp(s string) *string { return &s }

func TestEventLog_InsertAndRange(t *testing.T) {
	db := openTestDB(t)
	log := NewEventLog(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	_, err := log.Insert(ctx, base, "collector", model.KindAppActive, strp("editor.exe"), nil, []byte(`{"v":1}`))
	require.NoError(t, err)
	_, err = log.Insert(ctx, base.Add(time.Hour), "collector", model.KindAppActive, strp("browser.exe"), nil, []byte(`{"v":1}`))
	require.NoError(t, err)

	events, err := log.Range(ctx, base, base.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "editor.exe", events[0].EntityOr())
}

func TestEventLog_RangeExcludesNullEntity(t *testing.T) {
	db := openTestDB(t)
	log := NewEventLog(db)
	ctx := context.Background()
	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	_, err := log.Insert(ctx, ts, "collector", model.KindAppActive, nil, nil, []byte(`{}`))
	require.NoError(t, err)

	events, err := log.Range(ctx, ts, ts.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventLog_Tail(t *testing.T) {
	db := openTestDB(t)
	log := NewEventLog(db)
	ctx := context.Background()
	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := log.Insert(ctx, ts.Add(time.Duration(i)*time.Minute), "collector", model.KindAppActive, strp("app.exe"), nil, []byte(`{}`))
		require.NoError(t, err)
	}
	tail, err := log.Tail(ctx, 2)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.True(t, tail[0].TS.After(tail[1].TS) || tail[0].TS.Equal(tail[1].TS))
}

func TestEventLog_DeleteRangeAndDeleteAll(t *testing.T) {
	db := openTestDB(t)
	log := NewEventLog(db)
	ctx := context.Background()
	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	_, err := log.Insert(ctx, ts, "collector", model.KindAppActive, strp("a.exe"), nil, []byte(`{}`))
	require.NoError(t, err)
	_, err = log.Insert(ctx, ts.Add(2*time.Hour), "collector", model.KindAppActive, strp("b.exe"), nil, []byte(`{}`))
	require.NoError(t, err)

	n, err := log.DeleteRange(ctx, ts, ts.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = log.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
