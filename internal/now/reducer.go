// Package now implements the Now Reducer (spec.md §4.7): a tail-scan
// over recent events producing the live "what is the user doing"
// snapshot.
package now

import (
	"strings"
	"time"

	"github.com/focuslog/corehub/internal/attribution"
	"github.com/focuslog/corehub/internal/model"
)

// MinScanWindow/MaxScanWindow/DefaultScanWindow bound the tail-scan cap
// (spec.md §4.7 "clamped to [1, 2000]; default 200").
const (
	MinScanWindow     = 1
	MaxScanWindow     = 2000
	DefaultScanWindow = 200
)

// ClampScanWindow clamps a requested scan limit into the documented range.
func ClampScanWindow(n int) int {
	if n < MinScanWindow {
		return MinScanWindow
	}
	if n > MaxScanWindow {
		return MaxScanWindow
	}
	return n
}

const maxLatestTitles = 64

// Reduce computes a NowSnapshot from events in ts-descending order
// (most recent first, e.g. from EventLog.Tail). Callers must have
// already applied the Privacy Index (spec.md §4.7 step 1) via
// privacy.Index.FilterEvents — Reduce itself is privacy-agnostic.
func Reduce(events []model.Event, settings model.Settings, serverTime time.Time) model.NowSnapshot {
	snap := model.NowSnapshot{
		ServerTime:      serverTime,
		LatestTitles:    make(map[string]string),
		FocusTTLSeconds: maxInt(10, settings.IdleCutoffSeconds),
		AudioTTLSeconds: maxInt(10, 120),
	}

	for _, ev := range events {
		if snap.LatestEvent == nil {
			e := ev
			snap.LatestEvent = &e
			snap.LatestEventID = ev.ID
		}

		switch ev.Event {
		case model.KindAppActive:
			if snap.LatestAppActive == nil {
				e := ev
				snap.LatestAppActive = &e
			}
		case model.KindTabActive:
			if attribution.IsAudioTabPayload(ev.Payload) {
				if snap.LatestTabAudio == nil {
					e := ev
					snap.LatestTabAudio = &e
				}
			} else if snap.LatestTabFocus == nil {
				e := ev
				snap.LatestTabFocus = &e
			}
		case model.KindTabAudioStop:
			if snap.LatestTabAudioStop == nil {
				e := ev
				snap.LatestTabAudioStop = &e
			}
		case model.KindAppAudio:
			if snap.LatestAppAudio == nil {
				e := ev
				snap.LatestAppAudio = &e
			}
		case model.KindAppAudioStop:
			if snap.LatestAppAudioStop == nil {
				e := ev
				snap.LatestAppAudioStop = &e
			}
		}

		collectLatestTitle(&snap, ev)
	}

	resolveFreshness(&snap)
	return snap
}

// collectLatestTitle records the first (most recent) title seen per
// key, capped at 64 entries (spec.md §4.7 step 3).
func collectLatestTitle(snap *model.NowSnapshot, ev model.Event) {
	if len(snap.LatestTitles) >= maxLatestTitles {
		return
	}
	title := ev.TitleOr()
	entity := ev.EntityOr()
	if title == "" || entity == "" {
		return
	}
	var key string
	switch ev.Event {
	case model.KindTabActive:
		key = "domain|" + strings.ToLower(entity)
	case model.KindAppActive:
		key = "app|" + entity
	default:
		return
	}
	if _, exists := snap.LatestTitles[key]; exists {
		return
	}
	snap.LatestTitles[key] = title
}

func resolveFreshness(snap *model.NowSnapshot) {
	now := snap.ServerTime
	focusTTL := time.Duration(snap.FocusTTLSeconds) * time.Second
	audioTTL := time.Duration(snap.AudioTTLSeconds) * time.Second

	focusFresh := snap.LatestAppActive != nil && now.Sub(snap.LatestAppActive.TS) <= focusTTL
	tabFocusFresh := snap.LatestTabFocus != nil && now.Sub(snap.LatestTabFocus.TS) <= focusTTL
	tabAudioFresh := snap.LatestTabAudio != nil && now.Sub(snap.LatestTabAudio.TS) <= audioTTL
	appAudioFresh := snap.LatestAppAudio != nil && now.Sub(snap.LatestAppAudio.TS) <= audioTTL

	snap.TabAudioActive = tabAudioFresh &&
		!(snap.LatestTabAudioStop != nil && !snap.LatestTabAudioStop.TS.Before(snap.LatestTabAudio.TS))
	snap.AppAudioActive = appAudioFresh &&
		!(snap.LatestAppAudioStop != nil && !snap.LatestAppAudioStop.TS.Before(snap.LatestAppAudio.TS))

	if focusFresh {
		snap.NowFocusApp = snap.LatestAppActive.EntityOr()
	}

	snap.BrowserFocused = (snap.NowFocusApp != "" && attribution.IsBrowserBinary(snap.NowFocusApp)) ||
		(snap.NowFocusApp == "" && tabFocusFresh)

	if snap.BrowserFocused {
		if tabFocusFresh {
			snap.NowUsingTab = snap.LatestTabFocus
		}
	} else if snap.TabAudioActive {
		snap.NowUsingTab = snap.LatestTabAudio
	}

	if snap.AppAudioActive {
		snap.NowBackgroundAudio = snap.LatestAppAudio
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
