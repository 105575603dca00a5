package briefing

import (
	"strings"
	"testing"
	"time"
)

func defaultPolicy() CadencePolicy {
	return CadencePolicy{
		Mode:            CadenceDaily,
		MinHoursBetween: 20,
		WeeklyAnchor:    time.Monday,
		Weekdays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Wednesday: true,
			time.Friday:    true,
		},
	}
}

func TestShouldRun_Daily_NoHistory(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) // Tuesday

	decision := ShouldRun(now, defaultPolicy(), nil)

	if !decision.Run {
		t.Errorf("Expected first run to be approved, got: %s", decision.Reason)
	}
}

func TestShouldRun_Daily_Throttled(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	last := now.Add(-5 * time.Hour)

	decision := ShouldRun(now, defaultPolicy(), &last)

	if decision.Run {
		t.Errorf("Expected throttled decision 5h after last success")
	}
	if !strings.Contains(decision.Reason, "throttled") {
		t.Errorf("Expected throttle reason, got: %s", decision.Reason)
	}
}

func TestShouldRun_Daily_PastMinimum(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	last := now.Add(-21 * time.Hour)

	decision := ShouldRun(now, defaultPolicy(), &last)

	if !decision.Run {
		t.Errorf("Expected run 21h after last success with 20h minimum, got: %s", decision.Reason)
	}
}

func TestShouldRun_Weekly_AnchorDayOnly(t *testing.T) {
	policy := defaultPolicy()
	policy.Mode = CadenceWeekly

	monday := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	tuesday := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	if decision := ShouldRun(monday, policy, nil); !decision.Run {
		t.Errorf("Expected run on anchor day, got: %s", decision.Reason)
	}
	if decision := ShouldRun(tuesday, policy, nil); decision.Run {
		t.Errorf("Expected no run off the anchor day")
	}
}

func TestShouldRun_Weekly_ThrottleStillApplies(t *testing.T) {
	policy := defaultPolicy()
	policy.Mode = CadenceWeekly

	monday := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	last := monday.Add(-2 * time.Hour)

	decision := ShouldRun(monday, policy, &last)

	if decision.Run {
		t.Errorf("Expected anchor day run to still be throttled by the minimum gap")
	}
}

func TestShouldRun_ThreeTimesWeek_ScheduledDays(t *testing.T) {
	policy := defaultPolicy()
	policy.Mode = CadenceThreeTimes

	wednesday := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	thursday := time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)

	if decision := ShouldRun(wednesday, policy, nil); !decision.Run {
		t.Errorf("Expected run on a scheduled day, got: %s", decision.Reason)
	}
	if decision := ShouldRun(thursday, policy, nil); decision.Run {
		t.Errorf("Expected no run on an unscheduled day")
	}
}

func TestShouldRun_Manual_NeverRuns(t *testing.T) {
	policy := defaultPolicy()
	policy.Mode = CadenceManual

	now := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	last := now.Add(-100 * time.Hour)

	if decision := ShouldRun(now, policy, &last); decision.Run {
		t.Errorf("Expected manual mode to suppress automatic runs")
	}
	if decision := ShouldRun(now, policy, nil); decision.Run {
		t.Errorf("Expected manual mode to suppress runs even with no history")
	}
}

func TestShouldRun_ZeroMinimumGap(t *testing.T) {
	policy := defaultPolicy()
	policy.MinHoursBetween = 0

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	last := now.Add(-time.Minute)

	if decision := ShouldRun(now, policy, &last); !decision.Run {
		t.Errorf("Expected zero minimum gap to always approve, got: %s", decision.Reason)
	}
}
