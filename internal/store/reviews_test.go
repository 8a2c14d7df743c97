package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focuslog/corehub/internal/model"
)

func TestReviewStore_UpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	reviews := NewReviewStore(db)
	ctx := context.Background()

	review := model.BlockReview{
		BlockID:   "2026-03-15T10:00:00Z",
		Doing:     "writing tests",
		Tags:      []string{"go"},
		UpdatedAt: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
	}
	require.NoError(t, reviews.Upsert(ctx, review))

	got, err := reviews.Get(ctx, review.BlockID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "writing tests", got.Doing)
	assert.Equal(t, []string{"go"}, got.Tags)
}

func TestReviewStore_GetMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	reviews := NewReviewStore(db)
	got, err := reviews.Get(context.Background(), "2026-03-15T10:00:00Z")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReviewStore_ForRangeFiltersByBlockIDLexicalOrder(t *testing.T) {
	db := openTestDB(t)
	reviews := NewReviewStore(db)
	ctx := context.Background()

	for _, id := range []string{"2026-03-15T10:00:00Z", "2026-03-15T10:30:00Z", "2026-03-15T11:00:00Z"} {
		require.NoError(t, reviews.Upsert(ctx, model.BlockReview{BlockID: id, Skipped: true, UpdatedAt: time.Now().UTC()}))
	}

	out, err := reviews.ForRange(ctx, "2026-03-15T10:00:00Z", "2026-03-15T11:00:00Z")
	require.NoError(t, err)
	assert.Len(t, out, 2)
	_, ok := out["2026-03-15T11:00:00Z"]
	assert.False(t, ok)
}

func TestReviewStore_DeleteRange(t *testing.T) {
	db := openTestDB(t)
	reviews := NewReviewStore(db)
	ctx := context.Background()

	require.NoError(t, reviews.Upsert(ctx, model.BlockReview{BlockID: "2026-03-15T10:00:00Z", Skipped: true, UpdatedAt: time.Now().UTC()}))
	n, err := reviews.DeleteRange(ctx, "2026-03-15T00:00:00Z", "2026-03-16T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
