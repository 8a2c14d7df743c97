// Package attribution implements the Attribution Engine (spec.md §4.5,
// §4.6): reconstructing timeline segments and fixed-length blocks from a
// point-in-time event stream.
package attribution

import (
	"path/filepath"
	"strings"
)

// browserBinaries is the closed set of executable basenames treated as
// browsers for domain-attribution purposes (spec.md §9: "a closed
// domain enum in the core... not a regex or plugin surface").
var browserBinaries = map[string]struct{}{
	"chrome.exe":  {},
	"msedge.exe":  {},
	"brave.exe":   {},
	"vivaldi.exe": {},
	"opera.exe":   {},
	"firefox.exe": {},
}

// IsBrowserBinary reports whether app's basename (case-insensitive)
// names a known browser executable.
func IsBrowserBinary(app string) bool {
	if app == "" {
		return false
	}
	base := strings.ToLower(filepath.Base(app))
	_, ok := browserBinaries[base]
	return ok
}

// DomainFreshness is the maximum age (seconds) a tab_active observation
// may have before it is still trusted to represent the focused tab
// (spec.md §4.5).
const DomainFreshness = 300
