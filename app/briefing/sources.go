package briefing

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedSource is one entry of the optional sources seed file. Seeds are
// upserted by URL at startup; operator edits through the API win afterwards.
type SeedSource struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

type seedFile struct {
	Sources []SeedSource `yaml:"sources"`
}

// LoadSeedSources reads the seed file. A missing file is not an error.
func LoadSeedSources(path string) ([]SeedSource, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	for i, seed := range file.Sources {
		if seed.Name == "" {
			return nil, fmt.Errorf("source at index %d: name is required", i)
		}
		if err := ValidateSourceURL(seed.URL); err != nil {
			return nil, fmt.Errorf("source %q: %w", seed.Name, err)
		}
	}

	return file.Sources, nil
}

// ValidateSourceURL enforces the source invariant: a well-formed absolute
// http(s) URL.
func ValidateSourceURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("URL must be absolute: %s", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	return nil
}
