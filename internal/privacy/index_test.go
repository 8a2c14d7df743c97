package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focuslog/corehub/internal/model"
)

func strPtr(s string) *string { return &s }

func TestDecision_AppExactMatch(t *testing.T) {
	idx := Build([]model.PrivacyRule{
		{Kind: model.PrivacyKindApp, Value: "Slack.exe", Action: model.ActionDrop},
	})
	assert.Equal(t, model.DecisionDrop, idx.Decision(model.PrivacyKindApp, "Slack.exe"))
	assert.Equal(t, model.DecisionAllow, idx.Decision(model.PrivacyKindApp, "Chrome.exe"))
}

func TestDecision_DomainSuffixWalk(t *testing.T) {
	idx := Build([]model.PrivacyRule{
		{Kind: model.PrivacyKindDomain, Value: "bank.example.com", Action: model.ActionMask},
	})
	assert.Equal(t, model.DecisionMask, idx.Decision(model.PrivacyKindDomain, "login.bank.example.com"))
	assert.Equal(t, model.DecisionMask, idx.Decision(model.PrivacyKindDomain, "bank.example.com"))
	assert.Equal(t, model.DecisionAllow, idx.Decision(model.PrivacyKindDomain, "example.com"))
}

func TestDecision_NeverMatchesBareTLD(t *testing.T) {
	idx := Build([]model.PrivacyRule{
		{Kind: model.PrivacyKindDomain, Value: "com", Action: model.ActionDrop},
	})
	assert.Equal(t, model.DecisionAllow, idx.Decision(model.PrivacyKindDomain, "example.com"))
}

func TestDecision_EmptyEntityAlwaysAllowed(t *testing.T) {
	idx := Build(nil)
	assert.Equal(t, model.DecisionAllow, idx.Decision(model.PrivacyKindApp, ""))
}

func TestFilterEvents_DropsAndMasks(t *testing.T) {
	idx := Build([]model.PrivacyRule{
		{Kind: model.PrivacyKindApp, Value: "secret.exe", Action: model.ActionDrop},
		{Kind: model.PrivacyKindDomain, Value: "bank.com", Action: model.ActionMask},
	})
	events := []model.Event{
		{Event: model.KindAppActive, Entity: strPtr("secret.exe")},
		{Event: model.KindTabActive, Entity: strPtr("bank.com"), Title: strPtr("My Account")},
		{Event: model.KindAppActive, Entity: strPtr("editor.exe")},
	}
	out := idx.FilterEvents(events)

	require := assert.New(t)
	require.Len(out, 2)
	require.Equal(model.HiddenEntity, out[0].EntityOr())
	require.Nil(out[0].Title)
	require.Equal("editor.exe", out[1].EntityOr())
}

func TestKindForEvent(t *testing.T) {
	assert.Equal(t, model.PrivacyKindDomain, KindForEvent(model.KindTabActive))
	assert.Equal(t, model.PrivacyKindDomain, KindForEvent(model.KindTabAudioStop))
	assert.Equal(t, model.PrivacyKindApp, KindForEvent(model.KindAppActive))
	assert.Equal(t, model.PrivacyKindApp, KindForEvent(model.KindAppAudio))
}
