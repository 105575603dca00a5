package briefing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeedSources_MissingFileIsNotAnError(t *testing.T) {
	seeds, err := LoadSeedSources(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if seeds != nil {
		t.Errorf("Expected nil seeds for a missing file, got: %v", seeds)
	}
}

func TestLoadSeedSources_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	content := `sources:
  - name: AI News
    url: https://example.com/feed.xml
    category: ai_software
  - name: Robotics Weekly
    url: https://robotics.example.com/rss
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	seeds, err := LoadSeedSources(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(seeds) != 2 {
		t.Fatalf("Expected 2 seeds, got %d", len(seeds))
	}
	if seeds[0].Name != "AI News" || seeds[0].Category != "ai_software" {
		t.Errorf("Unexpected first seed: %+v", seeds[0])
	}
	if seeds[1].Category != "" {
		t.Errorf("Expected empty category when omitted, got: %s", seeds[1].Category)
	}
}

func TestLoadSeedSources_RejectsInvalidEntries(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing name", "sources:\n  - url: https://example.com/feed\n"},
		{"relative url", "sources:\n  - name: Bad\n    url: /feed.xml\n"},
		{"bad scheme", "sources:\n  - name: Bad\n    url: ftp://example.com/feed\n"},
		{"malformed yaml", "sources: [\n"},
	}

	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), "sources.yml")
		if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
		if _, err := LoadSeedSources(path); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestValidateSourceURL(t *testing.T) {
	valid := []string{
		"https://example.com/feed.xml",
		"http://example.com/rss",
	}
	for _, raw := range valid {
		if err := ValidateSourceURL(raw); err != nil {
			t.Errorf("Expected %s to be valid: %v", raw, err)
		}
	}

	invalid := []string{
		"",
		"/relative/path",
		"example.com/feed",
		"ftp://example.com/feed",
		"https://",
	}
	for _, raw := range invalid {
		if err := ValidateSourceURL(raw); err == nil {
			t.Errorf("Expected %s to be rejected", raw)
		}
	}
}
