package tracking

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focuslog/corehub/internal/persistence/sqlite"
	"github.com/focuslog/corehub/internal/store"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "corehub.db")
	db, err := sqlite.Open(dbPath, sqlite.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return New(store.NewTrackingStore(db))
}

func TestController_DefaultsToNotPaused(t *testing.T) {
	c := newController(t)
	paused, err := c.IsPaused(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, paused)
}

func TestController_PauseWithExplicitUntilTimestamp(t *testing.T) {
	c := newController(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	until := now.Add(time.Hour).Format(time.RFC3339)

	st, err := c.Pause(ctx, now, until, nil)
	require.NoError(t, err)
	assert.True(t, st.Paused)
	require.NotNil(t, st.PausedUntil)

	st, err = c.Status(ctx, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.True(t, st.Paused)
}

func TestController_AutoResumesAfterDeadline(t *testing.T) {
	c := newController(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	minutes := 10
	_, err := c.Pause(ctx, now, "", &minutes)
	require.NoError(t, err)

	st, err := c.Status(ctx, now.Add(11*time.Minute))
	require.NoError(t, err)
	assert.False(t, st.Paused)
}

func TestController_ResumeClearsPause(t *testing.T) {
	c := newController(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	_, err := c.Pause(ctx, now, "", nil)
	require.NoError(t, err)

	st, err := c.Resume(ctx, now)
	require.NoError(t, err)
	assert.False(t, st.Paused)
}

func TestParseMinutes(t *testing.T) {
	n, err := ParseMinutes("")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = ParseMinutes("15")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 15, *n)

	_, err = ParseMinutes("-5")
	assert.Error(t, err)

	_, err = ParseMinutes("nope")
	assert.Error(t, err)
}
