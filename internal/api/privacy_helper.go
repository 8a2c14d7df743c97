package api

import (
	"github.com/focuslog/corehub/internal/model"
	"github.com/focuslog/corehub/internal/privacy"
)

// buildIndex is a thin alias kept local to the package so every
// handler rebuilds the index fresh per request (spec.md §9 "Privacy
// rebuild cost" — never cached across requests).
func buildIndex(rules []model.PrivacyRule) *privacy.Index {
	return privacy.Build(rules)
}
