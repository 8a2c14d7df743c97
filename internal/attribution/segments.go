package attribution

import (
	"sort"
	"time"

	"github.com/focuslog/corehub/internal/model"
)

// AudioIdleCutoffSeconds returns the tighter idle cutoff used for the
// audio walk and for audio_primary blocks: min(idle_cutoff, 120)
// (spec.md §4.5).
func AudioIdleCutoffSeconds(idleCutoffSeconds int) int {
	if idleCutoffSeconds < 120 {
		return idleCutoffSeconds
	}
	return 120
}

// focusRegisters tracks the "currently focused app" / "currently
// focused tab" cursors the focus walk folds across events (spec.md
// §4.5 "Maintain registers").
type focusRegisters struct {
	hasApp   bool
	app      string
	appTitle string

	hasDomain   bool
	domain      string
	domainTitle string
	domainTS    time.Time
}

func (r *focusRegisters) clear() {
	*r = focusRegisters{}
}

// resolve returns the entity attributed to the segment starting at t,
// given the registers as they stand immediately after folding in the
// event at t (spec.md §4.5 "Entity resolution").
func (r *focusRegisters) resolve(t time.Time, storeTitles bool) (ok bool, kind model.ItemKind, entity, title string) {
	if r.hasApp && IsBrowserBinary(r.app) && r.hasDomain && t.Sub(r.domainTS) <= DomainFreshness*time.Second {
		title = ""
		if storeTitles {
			title = r.domainTitle
		}
		return true, model.ItemKindDomain, r.domain, title
	}
	if r.hasApp {
		title = ""
		if storeTitles {
			title = r.appTitle
		}
		return true, model.ItemKindApp, r.app, title
	}
	if r.hasDomain {
		title = ""
		if storeTitles {
			title = r.domainTitle
		}
		return true, model.ItemKindDomain, r.domain, title
	}
	return false, "", "", ""
}

// walkFocus runs the focus walk (spec.md §4.5) over app_active /
// tab_active(non-audio) / fallback events, producing one segment per
// event whose gap to the next event is in (0, idleCutoff].
func walkFocus(events []model.Event, now time.Time, idleCutoffSeconds int, storeTitles bool) []model.TimelineSegment {
	idle := time.Duration(idleCutoffSeconds) * time.Second
	var regs focusRegisters
	var out []model.TimelineSegment

	for i, ev := range events {
		switch {
		case ev.Event == model.KindAppActive:
			regs.hasApp = true
			regs.app = ev.EntityOr()
			regs.appTitle = ev.TitleOr()
		case ev.Event == model.KindTabActive && !isAudioTab(ev.Payload):
			regs.hasDomain = true
			regs.domain = ev.EntityOr()
			regs.domainTitle = NormalizeWebTitle(ev.EntityOr(), ev.TitleOr())
			regs.domainTS = ev.TS
		default:
			regs.hasApp = true
			regs.app = ev.EntityOr()
			regs.appTitle = ev.TitleOr()
		}

		tNext := now
		if i+1 < len(events) {
			tNext = events[i+1].TS
		}
		gap := tNext.Sub(ev.TS)

		switch {
		case gap <= 0:
			// no segment
		case gap > idle:
			regs.clear()
		default:
			if ok, kind, entity, title := regs.resolve(ev.TS, storeTitles); ok {
				out = append(out, model.TimelineSegment{
					StartTS:  ev.TS,
					EndTS:    ev.TS.Add(gap),
					Kind:     kind,
					Entity:   entity,
					Title:    title,
					Activity: model.ActivityFocus,
				})
			}
		}
	}
	return out
}

// walkAudio runs the audio walk (spec.md §4.5) over tab_active(audio) /
// app_audio emitting events, with tab_audio_stop / app_audio_stop
// acting only as segment terminators.
func walkAudio(events []model.Event, now time.Time, audioIdleCutoffSeconds int, storeTitles bool) []model.TimelineSegment {
	idle := time.Duration(audioIdleCutoffSeconds) * time.Second
	var out []model.TimelineSegment

	for i, ev := range events {
		var (
			emits  bool
			kind   model.ItemKind
			entity string
			title  string
		)
		switch {
		case ev.Event == model.KindTabActive && isAudioTab(ev.Payload):
			emits = true
			kind = model.ItemKindDomain
			entity = ev.EntityOr()
			if storeTitles {
				title = NormalizeWebTitle(entity, ev.TitleOr())
			}
		case ev.Event == model.KindAppAudio:
			emits = true
			kind = model.ItemKindApp
			entity = ev.EntityOr()
		default:
			// tab_audio_stop / app_audio_stop: terminator only.
		}
		if !emits {
			continue
		}

		tNext := now
		if i+1 < len(events) {
			tNext = events[i+1].TS
		}
		gap := tNext.Sub(ev.TS)
		if gap <= 0 || gap > idle {
			continue
		}
		out = append(out, model.TimelineSegment{
			StartTS:  ev.TS,
			EndTS:    ev.TS.Add(gap),
			Kind:     kind,
			Entity:   entity,
			Title:    title,
			Activity: model.ActivityAudio,
		})
	}
	return out
}

// isAudioStream reports whether an event participates in the audio
// walk (either as an emitter or a terminator).
func isAudioStream(ev model.Event) bool {
	switch ev.Event {
	case model.KindAppAudio, model.KindAppAudioStop, model.KindTabAudioStop:
		return true
	case model.KindTabActive:
		return isAudioTab(ev.Payload)
	default:
		return false
	}
}

// splitStreams partitions the ascending event list into the focus
// stream and the audio stream (spec.md §4.5).
func splitStreams(events []model.Event) (focus, audio []model.Event) {
	for _, ev := range events {
		if isAudioStream(ev) {
			audio = append(audio, ev)
		} else {
			focus = append(focus, ev)
		}
	}
	return focus, audio
}

// mergeAdjacent merges consecutive segments with the same
// (kind, entity, title, activity) where the later one starts exactly
// where the earlier one ends (spec.md §4.5).
func mergeAdjacent(segs []model.TimelineSegment) []model.TimelineSegment {
	if len(segs) == 0 {
		return segs
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].StartTS.Before(segs[j].StartTS) })
	out := make([]model.TimelineSegment, 0, len(segs))
	cur := segs[0]
	for _, s := range segs[1:] {
		if s.Kind == cur.Kind && s.Entity == cur.Entity && s.Title == cur.Title &&
			s.Activity == cur.Activity && s.StartTS.Equal(cur.EndTS) {
			cur.EndTS = s.EndTS
			continue
		}
		out = append(out, cur)
		cur = s
	}
	out = append(out, cur)
	return out
}

// BuildTimeline computes the merged, ascending list of timeline
// segments for a (privacy-filtered) event window (spec.md §4.5).
func BuildTimeline(events []model.Event, now time.Time, idleCutoffSeconds int, storeTitles bool) []model.TimelineSegment {
	focusEvents, audioEvents := splitStreams(events)
	audioIdle := AudioIdleCutoffSeconds(idleCutoffSeconds)

	segs := walkFocus(focusEvents, now, idleCutoffSeconds, storeTitles)
	segs = append(segs, walkAudio(audioEvents, now, audioIdle, storeTitles)...)
	return mergeAdjacent(segs)
}
