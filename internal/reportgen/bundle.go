package reportgen

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/focuslog/corehub/internal/model"
)

// HourBucket is one hour-of-day's accumulated seconds (spec-supplemented
// "focus_top_hours", grounded on original_source's generate_daily_report,
// core/recorder_core/src/main.rs:3843-3858).
type HourBucket struct {
	Hour         int `json:"hour"`
	FocusSeconds int `json:"focus_seconds"`
	AudioSeconds int `json:"audio_seconds"`
}

// Bundle is the opaque-to-the-scheduler JSON payload handed to the
// report Producer: derived statistics meant to help an LLM ground its
// summary in numbers instead of raw events (original_source's
// generate_daily_report/generate_weekly_report "stats"/"blacklist"
// object, main.rs:3955-3982). The scheduler never interprets it.
type Bundle struct {
	FocusSeconds        int                `json:"focus_seconds"`
	AudioSeconds        int                `json:"audio_seconds"`
	FocusSegments       int                `json:"focus_segments"`
	AudioSegments       int                `json:"audio_segments"`
	BlockedFocusSeconds int                `json:"blocked_focus_seconds"`
	BlockedAudioSeconds int                `json:"blocked_audio_seconds"`
	Top1Seconds         int                `json:"top1_seconds"`
	Top1Share           float64            `json:"top1_share"`
	FocusTopHours       []HourBucket       `json:"focus_top_hours"`
	BlockedApps         []string           `json:"blacklist_apps"`
	BlockedDomains      []string           `json:"blacklist_domains"`
	BlocksTotal         int                `json:"blocks_total"`
	TopFocusItems       []model.TopItem    `json:"top_focus_items"`
	TopAudioItems       []model.TopItem    `json:"top_audio_items"`
}

// BuildBundle aggregates a period's already-resolved segments and
// blocks into a Bundle, cross-referencing rules to report how much
// time landed on a blocked app/domain even though the privacy index
// let it through unmasked (original_source's blocked_sets/
// is_blocked_domain, main.rs:3701,3788-3801). Pure function: no I/O,
// fully exercised by bundle_test.go.
func BuildBundle(segments []model.TimelineSegment, blocks []model.BlockSummary, rules []model.PrivacyRule) Bundle {
	blockedApps, blockedDomains := blockedSets(rules)

	b := Bundle{
		BlocksTotal:    len(blocks),
		BlockedApps:    sortedKeys(blockedApps),
		BlockedDomains: sortedKeys(blockedDomains),
	}

	var focusByHour, audioByHour [24]int
	for _, s := range segments {
		secs := int(s.EndTS.Sub(s.StartTS).Seconds())
		if secs <= 0 {
			continue
		}
		isAudio := s.Activity == model.ActivityAudio
		if isAudio {
			b.AudioSeconds += secs
			b.AudioSegments++
		} else {
			b.FocusSeconds += secs
			b.FocusSegments++
		}

		blocked := isBlockedSegment(s, blockedApps, blockedDomains)
		if blocked {
			if isAudio {
				b.BlockedAudioSeconds += secs
			} else {
				b.BlockedFocusSeconds += secs
			}
		}

		addHourSeconds(&focusByHour, &audioByHour, s, isAudio)
	}

	b.FocusTopHours = topHours(focusByHour, audioByHour)
	b.TopFocusItems = aggregateTop(segments, false, 15)
	b.TopAudioItems = aggregateTop(segments, true, 10)
	if len(b.TopFocusItems) > 0 {
		b.Top1Seconds = b.TopFocusItems[0].Seconds
	}
	if b.FocusSeconds > 0 {
		b.Top1Share = float64(b.Top1Seconds) / float64(b.FocusSeconds)
	}

	return b
}

// Marshal renders the bundle as the opaque JSON blob passed to Producer.
func (b Bundle) Marshal() ([]byte, error) {
	return json.Marshal(b)
}

func blockedSets(rules []model.PrivacyRule) (apps, domains map[string]bool) {
	apps = make(map[string]bool)
	domains = make(map[string]bool)
	for _, r := range rules {
		switch r.Kind {
		case model.PrivacyKindApp:
			apps[r.Value] = true
		case model.PrivacyKindDomain:
			domains[strings.ToLower(r.Value)] = true
		}
	}
	return apps, domains
}

func isBlockedSegment(s model.TimelineSegment, blockedApps, blockedDomains map[string]bool) bool {
	switch s.Kind {
	case model.ItemKindApp:
		return blockedApps[s.Entity]
	case model.ItemKindDomain:
		return isBlockedDomain(s.Entity, blockedDomains)
	default:
		return false
	}
}

// isBlockedDomain matches a domain or any of its parent suffixes
// (spec.md §4.2 domain-suffix matching, reused here for consistency).
func isBlockedDomain(domain string, blockedDomains map[string]bool) bool {
	d := strings.ToLower(domain)
	for d != "" {
		if blockedDomains[d] {
			return true
		}
		idx := strings.Index(d, ".")
		if idx < 0 {
			break
		}
		d = d[idx+1:]
		if !strings.Contains(d, ".") {
			break // never match a bare TLD
		}
	}
	return false
}

func addHourSeconds(focusByHour, audioByHour *[24]int, s model.TimelineSegment, isAudio bool) {
	bins := focusByHour
	if isAudio {
		bins = audioByHour
	}
	cur := s.StartTS.Unix()
	end := s.EndTS.Unix()
	for cur < end {
		hour := int((cur % 86400) / 3600)
		if hour < 0 {
			hour += 24
		}
		nextBoundary := (cur/3600 + 1) * 3600
		sliceEnd := end
		if nextBoundary < sliceEnd {
			sliceEnd = nextBoundary
		}
		delta := int(sliceEnd - cur)
		if hour >= 0 && hour < 24 && delta > 0 {
			bins[hour] += delta
		}
		cur = sliceEnd
	}
}

func topHours(focusByHour, audioByHour [24]int) []HourBucket {
	hours := make([]HourBucket, 0, 24)
	for h := 0; h < 24; h++ {
		if focusByHour[h] <= 0 {
			continue
		}
		hours = append(hours, HourBucket{Hour: h, FocusSeconds: focusByHour[h], AudioSeconds: audioByHour[h]})
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].FocusSeconds > hours[j].FocusSeconds })
	if len(hours) > 6 {
		hours = hours[:6]
	}
	return hours
}

// aggregateTop buckets segments of the requested activity kind by
// (kind, entity) — title is never part of the key here, matching
// spec.md §4.5 "for apps titles are not used as part of the key" and
// extending the same simplification to this summary-only aggregation.
func aggregateTop(segments []model.TimelineSegment, audio bool, limit int) []model.TopItem {
	type key struct {
		kind   model.ItemKind
		entity string
	}
	totals := make(map[key]int)
	for _, s := range segments {
		if (s.Activity == model.ActivityAudio) != audio {
			continue
		}
		secs := int(s.EndTS.Sub(s.StartTS).Seconds())
		if secs <= 0 {
			continue
		}
		totals[key{kind: s.Kind, entity: s.Entity}] += secs
	}
	items := make([]model.TopItem, 0, len(totals))
	for k, secs := range totals {
		items = append(items, model.TopItem{Kind: k.kind, Entity: k.entity, Seconds: secs})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Seconds != items[j].Seconds {
			return items[i].Seconds > items[j].Seconds
		}
		return items[i].Entity < items[j].Entity
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
