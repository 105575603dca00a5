package briefing

import (
	"fmt"
	"time"
)

// ShouldRun decides whether a scheduled tick may start an ingestion run.
// It is a pure function over the supplied state: the last-successful-run
// timestamp is passed in, never read from shared state. Callers that cannot
// read the run ledger must treat that as "do not run".
func ShouldRun(now time.Time, policy CadencePolicy, lastSuccess *time.Time) Decision {
	switch policy.Mode {
	case CadenceManual:
		return Decision{Run: false, Reason: "manual mode: automatic runs disabled"}
	case CadenceWeekly:
		if now.Weekday() != policy.WeeklyAnchor {
			return Decision{Run: false, Reason: fmt.Sprintf("weekly mode: today is %s, anchor day is %s", now.Weekday(), policy.WeeklyAnchor)}
		}
	case CadenceThreeTimes:
		if !policy.Weekdays[now.Weekday()] {
			return Decision{Run: false, Reason: fmt.Sprintf("3x_week mode: %s is not a scheduled day", now.Weekday())}
		}
	}

	if lastSuccess != nil {
		elapsed := now.Sub(*lastSuccess)
		minimum := time.Duration(policy.MinHoursBetween) * time.Hour
		if elapsed < minimum {
			return Decision{Run: false, Reason: fmt.Sprintf("throttled: %.1fh since last successful run, minimum is %dh", elapsed.Hours(), policy.MinHoursBetween)}
		}
	}

	return Decision{Run: true, Reason: "cadence approved"}
}
