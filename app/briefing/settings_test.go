package briefing

import (
	"errors"
	"testing"
	"time"
)

type mockConfigRepo struct {
	values map[string]string
	err    error
}

func (m *mockConfigRepo) Get(key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *mockConfigRepo) Set(key, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigRepo) GetAll() (map[string]string, error) {
	return m.values, m.err
}

func TestSettingsLoader_Load_Defaults(t *testing.T) {
	loader := NewSettingsLoader(&mockConfigRepo{})

	settings := loader.Load()

	if settings.Cadence.Mode != CadenceDaily {
		t.Errorf("Expected daily default mode, got: %s", settings.Cadence.Mode)
	}
	if settings.Cadence.MinHoursBetween != 20 {
		t.Errorf("Expected 20h default minimum gap, got: %d", settings.Cadence.MinHoursBetween)
	}
	if settings.Cadence.WeeklyAnchor != time.Monday {
		t.Errorf("Expected Monday default anchor, got: %s", settings.Cadence.WeeklyAnchor)
	}
	if !settings.Cadence.Weekdays[time.Monday] || !settings.Cadence.Weekdays[time.Wednesday] || !settings.Cadence.Weekdays[time.Friday] {
		t.Errorf("Expected Mon/Wed/Fri default days, got: %v", settings.Cadence.Weekdays)
	}
	if settings.RetentionLimit != 200 {
		t.Errorf("Expected retention limit 200, got: %d", settings.RetentionLimit)
	}
}

func TestSettingsLoader_Load_FromConfigTable(t *testing.T) {
	loader := NewSettingsLoader(&mockConfigRepo{values: map[string]string{
		KeyCadenceMode:    "weekly",
		KeyCadenceHours:   "48",
		KeyCadenceAnchor:  "friday",
		KeyCadenceDays:    "tue,thu",
		KeyRetentionLimit: "500",
		KeyItemsPerPage:   "25",
	}})

	settings := loader.Load()

	if settings.Cadence.Mode != CadenceWeekly {
		t.Errorf("Expected weekly mode, got: %s", settings.Cadence.Mode)
	}
	if settings.Cadence.MinHoursBetween != 48 {
		t.Errorf("Expected 48h gap, got: %d", settings.Cadence.MinHoursBetween)
	}
	if settings.Cadence.WeeklyAnchor != time.Friday {
		t.Errorf("Expected Friday anchor, got: %s", settings.Cadence.WeeklyAnchor)
	}
	if !settings.Cadence.Weekdays[time.Tuesday] || !settings.Cadence.Weekdays[time.Thursday] {
		t.Errorf("Expected Tue/Thu days, got: %v", settings.Cadence.Weekdays)
	}
	if settings.Cadence.Weekdays[time.Monday] {
		t.Errorf("Expected configured days to replace defaults")
	}
	if settings.RetentionLimit != 500 {
		t.Errorf("Expected retention limit 500, got: %d", settings.RetentionLimit)
	}
	if settings.ItemsPerPage != 25 {
		t.Errorf("Expected page size 25, got: %d", settings.ItemsPerPage)
	}
}

func TestSettingsLoader_Load_EnvironmentOverride(t *testing.T) {
	t.Setenv("CADENCE_MODE", "manual")
	t.Setenv("RETENTION_LIMIT", "50")

	loader := NewSettingsLoader(&mockConfigRepo{values: map[string]string{
		KeyCadenceMode:    "daily",
		KeyRetentionLimit: "500",
	}})

	settings := loader.Load()

	if settings.Cadence.Mode != CadenceManual {
		t.Errorf("Expected environment to win over config table, got: %s", settings.Cadence.Mode)
	}
	if settings.RetentionLimit != 50 {
		t.Errorf("Expected environment retention override, got: %d", settings.RetentionLimit)
	}
}

func TestSettingsLoader_Load_InvalidValuesFallBack(t *testing.T) {
	loader := NewSettingsLoader(&mockConfigRepo{values: map[string]string{
		KeyCadenceMode:    "hourly",
		KeyCadenceHours:   "not-a-number",
		KeyCadenceAnchor:  "someday",
		KeyRetentionLimit: "-5",
	}})

	settings := loader.Load()

	if settings.Cadence.Mode != CadenceDaily {
		t.Errorf("Expected unknown mode to keep default, got: %s", settings.Cadence.Mode)
	}
	if settings.Cadence.MinHoursBetween != 20 {
		t.Errorf("Expected unparseable hours to keep default, got: %d", settings.Cadence.MinHoursBetween)
	}
	if settings.Cadence.WeeklyAnchor != time.Monday {
		t.Errorf("Expected unknown anchor to keep default, got: %s", settings.Cadence.WeeklyAnchor)
	}
	if settings.RetentionLimit != 200 {
		t.Errorf("Expected non-positive retention to keep default, got: %d", settings.RetentionLimit)
	}
}

func TestSettingsLoader_Load_RepoErrorUsesDefaults(t *testing.T) {
	loader := NewSettingsLoader(&mockConfigRepo{err: errors.New("table missing")})

	settings := loader.Load()

	if settings.Cadence.Mode != CadenceDaily || settings.RetentionLimit != 200 {
		t.Errorf("Expected defaults on config lookup failure")
	}
}
