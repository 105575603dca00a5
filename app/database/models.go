package database

import (
	"time"
)

// Item lifecycle statuses.
const (
	ItemStatusDraft     = "draft"
	ItemStatusPublished = "published"
)

// Run statuses. A run is monotonic: running -> success | error.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

// Extraction statuses for the enrichment pipeline.
const (
	ExtractionStatusPending = "pending"
	ExtractionStatusSuccess = "success"
	ExtractionStatusFailed  = "failed"
)

type Source struct {
	ID           string
	Name         string
	URL          string
	CategoryHint string
	Enabled      bool
	CreatedAt    time.Time
}

type Item struct {
	ID          string
	SourceID    string
	Title       string
	URL         string
	PublishedAt *time.Time
	IngestedAt  time.Time
	Fingerprint string
	Category    string
	Summary     string
	Status      string

	// Rich fields populated by the enrichment task
	ImageURL         string
	BodyHTML         string
	BodyText         string
	Author           string
	WordCount        int
	ReadingMinutes   int
	ExtractionStatus string
	ExtractionError  string
}

type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     *time.Time
	Status         string
	FetchedCount   int
	CreatedCount   int
	DuplicateCount int
	ErrorText      string
}
