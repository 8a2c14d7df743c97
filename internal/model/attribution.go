package model

import "time"

// ItemKind distinguishes a domain attribution target from an app binary.
type ItemKind string

const (
	ItemKindDomain ItemKind = "domain"
	ItemKindApp    ItemKind = "app"
)

// Activity distinguishes foreground focus from background audio.
type Activity string

const (
	ActivityFocus Activity = "focus"
	ActivityAudio Activity = "audio"
)

// TimelineSegment is a derived, never-persisted attribution interval.
type TimelineSegment struct {
	StartTS  time.Time `json:"start_ts"`
	EndTS    time.Time `json:"end_ts"`
	Kind     ItemKind  `json:"kind"`
	Entity   string    `json:"entity"`
	Title    string    `json:"title,omitempty"`
	Activity Activity  `json:"activity"`
}

// TopItem summarizes time spent on one attribution target within a block.
type TopItem struct {
	Kind    ItemKind `json:"kind"`
	Entity  string   `json:"entity"`
	Title   string   `json:"title,omitempty"`
	Seconds int      `json:"seconds"`
}

// BlockSummary is a derived, never-persisted fixed-length block.
type BlockSummary struct {
	ID                 string        `json:"id"`
	StartTS            time.Time     `json:"start_ts"`
	EndTS              time.Time     `json:"end_ts"`
	TotalSeconds       int           `json:"total_seconds"`
	TopItems           []TopItem     `json:"top_items"`
	BackgroundSeconds  int           `json:"background_seconds"`
	BackgroundTopItems []TopItem     `json:"background_top_items,omitempty"`
	Review             *BlockReview  `json:"review,omitempty"`
}

// NowSnapshot is the derived "what is the user doing right now" view.
type NowSnapshot struct {
	ServerTime time.Time `json:"server_time"`

	LatestEvent   *Event `json:"latest_event,omitempty"`
	LatestEventID int64  `json:"latest_event_id,omitempty"`

	LatestAppActive    *Event `json:"latest_app_active,omitempty"`
	LatestTabFocus     *Event `json:"latest_tab_focus,omitempty"`
	LatestTabAudio     *Event `json:"latest_tab_audio,omitempty"`
	LatestTabAudioStop *Event `json:"latest_tab_audio_stop,omitempty"`
	LatestAppAudio     *Event `json:"latest_app_audio,omitempty"`
	LatestAppAudioStop *Event `json:"latest_app_audio_stop,omitempty"`

	LatestTitles map[string]string `json:"latest_titles"`

	FocusTTLSeconds int `json:"focus_ttl_seconds"`
	AudioTTLSeconds int `json:"audio_ttl_seconds"`

	TabAudioActive bool `json:"tab_audio_active"`
	AppAudioActive bool `json:"app_audio_active"`

	NowFocusApp        string `json:"now_focus_app,omitempty"`
	BrowserFocused     bool   `json:"browser_focused"`
	NowUsingTab        *Event `json:"now_using_tab,omitempty"`
	NowBackgroundAudio *Event `json:"now_background_audio,omitempty"`
}
