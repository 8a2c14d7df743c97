package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingStore_LoadCreatesDefaultUnpausedRow(t *testing.T) {
	db := openTestDB(t)
	store := NewTrackingStore(db)

	row, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, row.Paused)
	assert.Nil(t, row.PausedUntil)
}

func TestTrackingStore_SaveAndLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewTrackingStore(db)
	ctx := context.Background()

	until := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, true, &until, now))

	row, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, row.Paused)
	require.NotNil(t, row.PausedUntil)
	assert.True(t, row.PausedUntil.Equal(until))
}
