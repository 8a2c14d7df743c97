package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focuslog/corehub/internal/model"
)

func TestPrivacyRules_UpsertNormalizesDomainToLowercase(t *testing.T) {
	db := openTestDB(t)
	rules := NewPrivacyRules(db)
	ctx := context.Background()

	rule, err := rules.Upsert(ctx, model.PrivacyKindDomain, "Example.COM", model.ActionMask)
	require.NoError(t, err)
	assert.Equal(t, "example.com", rule.Value)
}

func TestPrivacyRules_UpsertIsIdempotentOnConflict(t *testing.T) {
	db := openTestDB(t)
	rules := NewPrivacyRules(db)
	ctx := context.Background()

	_, err := rules.Upsert(ctx, model.PrivacyKindApp, "secret.exe", model.ActionDrop)
	require.NoError(t, err)
	_, err = rules.Upsert(ctx, model.PrivacyKindApp, "secret.exe", model.ActionMask)
	require.NoError(t, err)

	all, err := rules.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.ActionMask, all[0].Action)
}

func TestPrivacyRules_DeleteReportsWhetherRowRemoved(t *testing.T) {
	db := openTestDB(t)
	rules := NewPrivacyRules(db)
	ctx := context.Background()

	rule, err := rules.Upsert(ctx, model.PrivacyKindApp, "app.exe", model.ActionDrop)
	require.NoError(t, err)

	removed, err := rules.Delete(ctx, rule.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = rules.Delete(ctx, rule.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
