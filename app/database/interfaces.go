package database

import (
	"time"
)

// NewItem carries the fields the orchestrator knows at ingestion time.
type NewItem struct {
	SourceID    string
	Title       string
	URL         string
	PublishedAt *time.Time
	Fingerprint string
	Category    string
	Summary     string
	ImageURL    string
}

// SourceUpdate holds optional field updates; nil means leave unchanged.
type SourceUpdate struct {
	Name         *string
	URL          *string
	CategoryHint *string
	Enabled      *bool
}

type ItemForEnrichment struct {
	ID  string
	URL string
}

// Enrichment carries the rich fields extracted from an item's page.
type Enrichment struct {
	BodyHTML       string
	BodyText       string
	Author         string
	ImageURL       string
	WordCount      int
	ReadingMinutes int
}

type SourceRepository interface {
	GetSources() ([]Source, error)
	GetEnabledSources() ([]Source, error)
	GetSource(id string) (*Source, error)
	CreateSource(name, url, categoryHint string, enabled bool) (*Source, error)
	UpdateSource(id string, update SourceUpdate) (*Source, error)
	SeedSource(name, url, categoryHint string) (bool, error)
	GetSourceCount() (int, error)
}

type ItemRepository interface {
	// InsertItem inserts a draft item. The unique fingerprint index is the
	// authoritative dedup guard: a conflicting insert reports created=false.
	InsertItem(item NewItem) (bool, error)
	FindByFingerprint(fingerprint string) (*Item, error)
	PublishDrafts() (int, error)
	Prune(keep int) (int, error)

	GetItem(id string) (*Item, error)
	GetPublishedItems(limit int) ([]Item, error)
	GetItemCount() (int, error)

	GetItemsForEnrichment(limit int) ([]ItemForEnrichment, error)
	UpdateEnrichedContent(itemID string, enrichment Enrichment) error
	UpdateEnrichmentStatus(itemID string, status string, errorMsg string) error
}

type RunRepository interface {
	OpenRun(startedAt time.Time) (string, error)
	// FinalizeRun mutates the run row in place, exactly once per run.
	FinalizeRun(id string, status string, fetched, created, duplicates int, errorText string) error
	GetRun(id string) (*Run, error)
	GetRuns(limit int) ([]Run, error)
	GetLastSuccessfulRun() (*Run, error)
}

type ConfigRepository interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	GetAll() (map[string]string, error)
}
