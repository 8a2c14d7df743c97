package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/model"
	"github.com/focuslog/corehub/internal/persistence/sqlite"
	"github.com/focuslog/corehub/internal/store"
	"github.com/focuslog/corehub/internal/tracking"
)

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "corehub.db")
	db, err := sqlite.Open(dbPath, sqlite.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })

	events := store.NewEventLog(db)
	rules := store.NewPrivacyRules(db)
	settings := store.NewSettingsStore(db)
	trk := tracking.New(store.NewTrackingStore(db))
	return New(events, rules, settings, trk)
}

func TestIngest_ValidAppActiveEventIsStored(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	raw := []byte(`{"v":1,"ts":"2026-03-15T10:00:00Z","source":"collector","event":"app_active","app":"editor.exe"}`)

	res, err := p.Ingest(context.Background(), raw, now)
	require.NoError(t, err)
	assert.True(t, res.Stored)
	assert.False(t, res.Masked)
	assert.False(t, res.Dropped)
}

func TestIngest_MissingRequiredEntityIsRejected(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	raw := []byte(`{"v":1,"ts":"2026-03-15T10:00:00Z","source":"collector","event":"app_active"}`)

	_, err := p.Ingest(context.Background(), raw, now)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeMissingApp, apperr.CodeOf(err))
}

func TestIngest_InvalidVersionIsRejected(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	raw := []byte(`{"v":0,"ts":"2026-03-15T10:00:00Z","source":"collector","event":"app_active","app":"editor.exe"}`)

	_, err := p.Ingest(context.Background(), raw, now)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidVersion, apperr.CodeOf(err))
}

func TestIngest_InvalidTimestampIsRejected(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	raw := []byte(`{"v":1,"ts":"not-a-timestamp","source":"collector","event":"app_active","app":"editor.exe"}`)

	_, err := p.Ingest(context.Background(), raw, now)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidTS, apperr.CodeOf(err))
}

func TestIngest_MalformedBodyIsRejected(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	_, err := p.Ingest(context.Background(), []byte(`not json`), now)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeMalformedBody, apperr.CodeOf(err))
}

func TestIngest_PausedTrackingSkipsStorage(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	_, err := p.Tracking.Pause(ctx, now, "", nil)
	require.NoError(t, err)

	raw := []byte(`{"v":1,"ts":"2026-03-15T10:00:00Z","source":"collector","event":"app_active","app":"editor.exe"}`)
	res, err := p.Ingest(ctx, raw, now)
	require.NoError(t, err)
	assert.True(t, res.Paused)
	assert.False(t, res.Stored)
}

func TestIngest_DropRuleSkipsStorage(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	_, err := p.Rules.Upsert(ctx, model.PrivacyKindApp, "secret.exe", model.ActionDrop)
	require.NoError(t, err)

	raw := []byte(`{"v":1,"ts":"2026-03-15T10:00:00Z","source":"collector","event":"app_active","app":"secret.exe"}`)
	res, err := p.Ingest(ctx, raw, now)
	require.NoError(t, err)
	assert.True(t, res.Dropped)
	assert.False(t, res.Stored)
}

func TestIngest_MaskRuleStoresMaskedEntity(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	_, err := p.Rules.Upsert(ctx, model.PrivacyKindDomain, "bank.com", model.ActionMask)
	require.NoError(t, err)

	raw := []byte(`{"v":1,"ts":"2026-03-15T10:00:00Z","source":"collector","event":"tab_active","domain":"bank.com","title":"My Account"}`)
	res, err := p.Ingest(ctx, raw, now)
	require.NoError(t, err)
	assert.True(t, res.Masked)
	assert.True(t, res.Stored)

	events, err := p.Events.Range(ctx, now.Add(-time.Minute), now.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.HiddenEntity, events[0].EntityOr())
	assert.Nil(t, events[0].Title)
}
