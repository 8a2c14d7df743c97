// Package privacy implements the in-memory Privacy Index (spec.md §4.2):
// drop/mask decisions keyed by (kind, value), rebuilt from the rule table
// at the start of every read/ingest operation — never cached across
// requests (spec.md §9 "Privacy rebuild cost").
package privacy

import (
	"strings"

	"github.com/focuslog/corehub/internal/model"
)

// Index is a snapshot of the privacy rule table, ready for O(1)-ish
// exact lookups plus domain-suffix matching.
type Index struct {
	appRules    map[string]model.PrivacyAction
	domainRules map[string]model.PrivacyAction
}

// Build constructs an Index from the full rule list.
func Build(rules []model.PrivacyRule) *Index {
	idx := &Index{
		appRules:    make(map[string]model.PrivacyAction),
		domainRules: make(map[string]model.PrivacyAction),
	}
	for _, r := range rules {
		switch r.Kind {
		case model.PrivacyKindApp:
			idx.appRules[strings.TrimSpace(r.Value)] = r.Action
		case model.PrivacyKindDomain:
			idx.domainRules[strings.ToLower(strings.TrimSpace(r.Value))] = r.Action
		}
	}
	return idx
}

// KindForEvent maps an event kind to the privacy key space it is judged
// under: tab_active/tab_audio_stop -> domain, everything else -> app.
func KindForEvent(kind model.Kind) model.PrivacyKind {
	if kind.IsDomainKind() {
		return model.PrivacyKindDomain
	}
	return model.PrivacyKindApp
}

// Decision normalizes entity per kind and returns the privacy decision:
// exact match, or for domains, a suffix walk that stops before the bare
// TLD (spec.md §4.2/§3: "never matches a bare TLD like com").
func (idx *Index) Decision(kind model.PrivacyKind, entity string) model.Decision {
	if entity == "" {
		return model.DecisionAllow
	}
	switch kind {
	case model.PrivacyKindApp:
		app := strings.TrimSpace(entity)
		if action, ok := idx.appRules[app]; ok {
			return toDecision(action)
		}
		return model.DecisionAllow
	case model.PrivacyKindDomain:
		for _, candidate := range domainSuffixes(entity) {
			if action, ok := idx.domainRules[candidate]; ok {
				return toDecision(action)
			}
		}
		return model.DecisionAllow
	default:
		return model.DecisionAllow
	}
}

// FilterEvents applies the index to a read-path event slice: dropped
// events are removed, masked events have their entity replaced with
// model.HiddenEntity and title cleared (spec.md §4.2 "read path").
func (idx *Index) FilterEvents(events []model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		kind := KindForEvent(ev.Event)
		switch idx.Decision(kind, ev.EntityOr()) {
		case model.DecisionDrop:
			continue
		case model.DecisionMask:
			hidden := model.HiddenEntity
			ev.Entity = &hidden
			ev.Title = nil
			out = append(out, ev)
		default:
			out = append(out, ev)
		}
	}
	return out
}

// domainSuffixes returns the normalized domain followed by each suffix
// obtained by stripping leading labels, stopping before a bare TLD.
func domainSuffixes(domain string) []string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return []string{domain}
	}
	var out []string
	for i := 0; i <= len(labels)-2; i++ {
		out = append(out, strings.Join(labels[i:], "."))
	}
	return out
}

func toDecision(a model.PrivacyAction) model.Decision {
	if a == model.ActionDrop {
		return model.DecisionDrop
	}
	return model.DecisionMask
}
