// Package ingest implements the Ingest Pipeline (spec.md §4.4):
// validate, check pause, apply privacy, strip per global settings,
// persist.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/model"
	"github.com/focuslog/corehub/internal/privacy"
	"github.com/focuslog/corehub/internal/store"
	"github.com/focuslog/corehub/internal/tracking"
)

// wireEvent mirrors the documented wire format (spec.md §6): required
// v/ts/source/event, optional domain/app/title and friends, with
// everything else preserved verbatim via Extra.
type wireEvent struct {
	V      int    `json:"v"`
	TS     string `json:"ts"`
	Source string `json:"source"`
	Event  string `json:"event"`
	Domain string `json:"domain"`
	App    string `json:"app"`
	Title  string `json:"title"`
}

// sanitizeFields are stripped or overwritten from the stored payload
// when a privacy rule masks an event (spec.md §4.4 step 5).
var sanitizeFields = []string{"title", "exePath", "pid"}

// Result describes the outcome of ingesting one event.
type Result struct {
	Stored   bool
	EventID  int64
	Masked   bool
	Dropped  bool
	Paused   bool
}

// Pipeline wires the stores and business logic the ingest path needs.
type Pipeline struct {
	Events   *store.EventLog
	Rules    *store.PrivacyRules
	Settings *store.SettingsStore
	Tracking *tracking.Controller
}

// New constructs a Pipeline from its dependencies.
func New(events *store.EventLog, rules *store.PrivacyRules, settings *store.SettingsStore, trk *tracking.Controller) *Pipeline {
	return &Pipeline{Events: events, Rules: rules, Settings: settings, Tracking: trk}
}

// Ingest runs one raw JSON event body through the full pipeline.
func (p *Pipeline) Ingest(ctx context.Context, raw []byte, now time.Time) (Result, error) {
	var we wireEvent
	if err := json.Unmarshal(raw, &we); err != nil {
		return Result{}, apperr.New(apperr.CodeMalformedBody, "malformed event body")
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Result{}, apperr.New(apperr.CodeMalformedBody, "malformed event body")
	}

	if we.V < 1 {
		return Result{}, apperr.New(apperr.CodeInvalidVersion, "version must be >= 1")
	}
	ts, err := time.Parse(time.RFC3339, we.TS)
	if err != nil {
		return Result{}, apperr.New(apperr.CodeInvalidTS, "unparseable ts")
	}
	ts = ts.UTC()

	kind := model.Kind(we.Event)
	entity, err := requiredEntity(kind, we)
	if err != nil {
		return Result{}, err
	}

	paused, err := p.Tracking.IsPaused(ctx, now)
	if err != nil {
		return Result{}, err
	}
	if paused {
		return Result{Stored: false, Paused: true}, nil
	}

	rules, err := p.Rules.List(ctx)
	if err != nil {
		return Result{}, err
	}
	idx := privacy.Build(rules)
	privacyKind := privacy.KindForEvent(kind)
	decision := idx.Decision(privacyKind, entity)

	if decision == model.DecisionDrop {
		return Result{Stored: false, Dropped: true}, nil
	}

	title := we.Title
	masked := false
	if decision == model.DecisionMask {
		entity = model.HiddenEntity
		title = ""
		fields["masked"] = true
		if _, ok := fields["domain"]; ok {
			fields["domain"] = model.HiddenEntity
		}
		if _, ok := fields["app"]; ok {
			fields["app"] = model.HiddenEntity
		}
		for _, f := range sanitizeFields {
			delete(fields, f)
		}
		masked = true
	}

	settings, err := p.Settings.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	if !settings.StoreTitles {
		title = ""
		delete(fields, "title")
	}
	if !settings.StoreExePath {
		delete(fields, "exePath")
		delete(fields, "pid")
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: marshal payload: %w", err)
	}

	var entityPtr, titlePtr *string
	if entity != "" {
		entityPtr = &entity
	}
	if title != "" {
		titlePtr = &title
	}

	id, err := p.Events.Insert(ctx, ts, we.Source, kind, entityPtr, titlePtr, payload)
	if err != nil {
		return Result{}, err
	}
	return Result{Stored: true, EventID: id, Masked: masked}, nil
}

// requiredEntity computes the entity this kind requires (spec.md §4.4
// step 3, §3 "Required-field rule"), falling back to domain-then-app
// for kinds outside the known five.
func requiredEntity(kind model.Kind, we wireEvent) (string, error) {
	switch kind {
	case model.KindTabActive, model.KindTabAudioStop:
		if we.Domain == "" {
			return "", apperr.New(apperr.CodeMissingDomain, "domain is required for "+string(kind))
		}
		return we.Domain, nil
	case model.KindAppActive, model.KindAppAudio, model.KindAppAudioStop:
		if we.App == "" {
			return "", apperr.New(apperr.CodeMissingApp, "app is required for "+string(kind))
		}
		return we.App, nil
	default:
		if we.Domain != "" {
			return we.Domain, nil
		}
		if we.App != "" {
			return we.App, nil
		}
		return "", nil
	}
}
