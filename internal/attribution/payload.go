package attribution

import "encoding/json"

// tabActivity is the subset of a tab_active payload the engine cares
// about: whether the tab was reported as audio-producing.
type tabActivity struct {
	Activity string `json:"activity"`
}

// isAudioTab reports whether a tab_active event's payload marks the tab
// as the audio-producing one (spec.md §4.1 "activity" field).
func isAudioTab(payload []byte) bool {
	return IsAudioTabPayload(payload)
}

// IsAudioTabPayload reports whether a tab_active event's raw JSON
// payload marks the tab as the audio-producing one (spec.md §4.1
// "activity" field). Exported for the Now Reducer, which classifies
// tab_active events the same way outside the attribution walks.
func IsAudioTabPayload(payload []byte) bool {
	if len(payload) == 0 {
		return false
	}
	var t tabActivity
	if err := json.Unmarshal(payload, &t); err != nil {
		return false
	}
	return t.Activity == "audio"
}
