package attribution

import "strings"

// youtubeTitleSuffix is stripped from tab titles on youtube domains so
// that "Some Video - YouTube" buckets as "Some Video" (spec.md §4.5).
const youtubeTitleSuffix = " - YouTube"

// NormalizeWebTitle applies the one documented title-normalization rule:
// YouTube tab titles lose their " - YouTube" suffix. Any other domain's
// title passes through trimmed and unchanged.
func NormalizeWebTitle(domain, raw string) string {
	title := strings.TrimSpace(raw)
	if title == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(domain), "youtube.") {
		title = strings.TrimSuffix(title, youtubeTitleSuffix)
		title = strings.TrimSpace(title)
	}
	return title
}
