package briefing

import (
	"time"
)

// ParsedItem is one normalized entry out of a feed document.
type ParsedItem struct {
	Title       string
	Link        string
	PublishedAt *time.Time
	Description string
	Content     string
	ImageURL    string
}

// RunSummary is the outcome of one orchestrator run, returned to the
// run-now caller. Updated counts items recognized as already ingested.
type RunSummary struct {
	RunID   string   `json:"run_id"`
	Fetched int      `json:"fetched"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// CadenceMode is the configured scheduling policy.
type CadenceMode string

const (
	CadenceDaily      CadenceMode = "daily"
	CadenceThreeTimes CadenceMode = "3x_week"
	CadenceWeekly     CadenceMode = "weekly"
	CadenceManual     CadenceMode = "manual"
)

// CadencePolicy holds everything the cadence decision depends on.
type CadencePolicy struct {
	Mode            CadenceMode
	MinHoursBetween int
	WeeklyAnchor    time.Weekday
	Weekdays        map[time.Weekday]bool
}

// Decision is the cadence controller's verdict for a scheduled tick.
type Decision struct {
	Run    bool   `json:"run"`
	Reason string `json:"reason"`
}

// Settings are the runtime-tunable knobs, read from the config table with
// environment overrides. Stale reads are acceptable for one run.
type Settings struct {
	Cadence        CadencePolicy
	RetentionLimit int
	ItemsPerPage   int
}
