package briefing

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nexlern/briefing/app/database"
)

// Config table keys. Any key may be overridden by an environment variable
// of the same name upper-cased; the environment wins.
const (
	KeyCadenceMode    = "cadence_mode"
	KeyCadenceHours   = "cadence_min_hours"
	KeyCadenceAnchor  = "cadence_weekly_anchor"
	KeyCadenceDays    = "cadence_days"
	KeyRetentionLimit = "retention_limit"
	KeyItemsPerPage   = "items_per_page"
)

const (
	defaultMinHours  = 20
	defaultRetention = 200
	defaultPageSize  = 50
)

type SettingsLoader struct {
	configRepo database.ConfigRepository
}

func NewSettingsLoader(configRepo database.ConfigRepository) *SettingsLoader {
	return &SettingsLoader{configRepo: configRepo}
}

// Load reads the current settings. Lookup errors fall back to defaults so a
// degraded config table never blocks a run already in flight.
func (l *SettingsLoader) Load() Settings {
	settings := Settings{
		Cadence: CadencePolicy{
			Mode:            CadenceDaily,
			MinHoursBetween: defaultMinHours,
			WeeklyAnchor:    time.Monday,
			Weekdays: map[time.Weekday]bool{
				time.Monday:    true,
				time.Wednesday: true,
				time.Friday:    true,
			},
		},
		RetentionLimit: defaultRetention,
		ItemsPerPage:   defaultPageSize,
	}

	if v := l.get(KeyCadenceMode); v != "" {
		switch CadenceMode(v) {
		case CadenceDaily, CadenceThreeTimes, CadenceWeekly, CadenceManual:
			settings.Cadence.Mode = CadenceMode(v)
		default:
			slog.Warn("Unknown cadence mode, keeping default", "value", v)
		}
	}

	if v := l.get(KeyCadenceHours); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours >= 0 {
			settings.Cadence.MinHoursBetween = hours
		}
	}

	if v := l.get(KeyCadenceAnchor); v != "" {
		if day, ok := parseWeekday(v); ok {
			settings.Cadence.WeeklyAnchor = day
		}
	}

	if v := l.get(KeyCadenceDays); v != "" {
		days := make(map[time.Weekday]bool)
		for _, part := range strings.Split(v, ",") {
			if day, ok := parseWeekday(part); ok {
				days[day] = true
			}
		}
		if len(days) > 0 {
			settings.Cadence.Weekdays = days
		}
	}

	if v := l.get(KeyRetentionLimit); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			settings.RetentionLimit = limit
		}
	}

	if v := l.get(KeyItemsPerPage); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			settings.ItemsPerPage = size
		}
	}

	return settings
}

func (l *SettingsLoader) get(key string) string {
	if env := os.Getenv(strings.ToUpper(key)); env != "" {
		return strings.TrimSpace(env)
	}

	value, ok, err := l.configRepo.Get(key)
	if err != nil {
		slog.Warn("Config lookup failed, using default", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}

	return strings.TrimSpace(value)
}

func parseWeekday(s string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun":
		return time.Sunday, true
	case "monday", "mon":
		return time.Monday, true
	case "tuesday", "tue":
		return time.Tuesday, true
	case "wednesday", "wed":
		return time.Wednesday, true
	case "thursday", "thu":
		return time.Thursday, true
	case "friday", "fri":
		return time.Friday, true
	case "saturday", "sat":
		return time.Saturday, true
	}
	return time.Sunday, false
}
