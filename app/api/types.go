package api

import (
	"net/http"
	"time"

	"github.com/nexlern/briefing/app/briefing"
	"github.com/nexlern/briefing/app/database"
	"github.com/nexlern/briefing/app/reader"
)

type Handler struct {
	sourceRepo database.SourceRepository
	itemRepo   database.ItemRepository
	runRepo    database.RunRepository
	configRepo database.ConfigRepository
	settings   *briefing.SettingsLoader
	ingestor   *briefing.Ingestor
	extractor  *reader.Extractor

	httpClient   *http.Client
	userAgent    string
	fetchTimeout time.Duration
}

type sourceRequest struct {
	Name         string `json:"name" binding:"required"`
	URL          string `json:"url" binding:"required"`
	CategoryHint string `json:"category_hint"`
	Enabled      *bool  `json:"enabled"`
}

type sourcePatchRequest struct {
	Name         *string `json:"name"`
	URL          *string `json:"url"`
	CategoryHint *string `json:"category_hint"`
	Enabled      *bool   `json:"enabled"`
}

type sourceResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	CategoryHint string    `json:"category_hint"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

type runResponse struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Status     string     `json:"status"`
	Fetched    int        `json:"fetched"`
	Created    int        `json:"created"`
	Duplicates int        `json:"duplicates"`
	ErrorText  string     `json:"error_text,omitempty"`
}

type itemResponse struct {
	ID             string     `json:"id"`
	SourceID       string     `json:"source_id"`
	Title          string     `json:"title"`
	URL            string     `json:"url"`
	PublishedAt    *time.Time `json:"published_at"`
	IngestedAt     time.Time  `json:"ingested_at"`
	Category       string     `json:"category"`
	Summary        string     `json:"summary"`
	Status         string     `json:"status"`
	ImageURL       string     `json:"image_url,omitempty"`
	BodyHTML       string     `json:"body_html,omitempty"`
	BodyText       string     `json:"body_text,omitempty"`
	Author         string     `json:"author,omitempty"`
	WordCount      int        `json:"word_count,omitempty"`
	ReadingMinutes int        `json:"reading_minutes,omitempty"`
}

type extractResponse struct {
	Content    *reader.ExtractedContent `json:"content"`
	Embeddable bool                     `json:"embeddable"`
	Tier       string                   `json:"tier"`
	Excerpt    string                   `json:"excerpt,omitempty"`
}

func toSourceResponse(source database.Source) sourceResponse {
	return sourceResponse{
		ID:           source.ID,
		Name:         source.Name,
		URL:          source.URL,
		CategoryHint: source.CategoryHint,
		Enabled:      source.Enabled,
		CreatedAt:    source.CreatedAt,
	}
}

func toRunResponse(run database.Run) runResponse {
	return runResponse{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Status:     run.Status,
		Fetched:    run.FetchedCount,
		Created:    run.CreatedCount,
		Duplicates: run.DuplicateCount,
		ErrorText:  run.ErrorText,
	}
}

func toItemResponse(item database.Item) itemResponse {
	return itemResponse{
		ID:             item.ID,
		SourceID:       item.SourceID,
		Title:          item.Title,
		URL:            item.URL,
		PublishedAt:    item.PublishedAt,
		IngestedAt:     item.IngestedAt,
		Category:       item.Category,
		Summary:        item.Summary,
		Status:         item.Status,
		ImageURL:       item.ImageURL,
		BodyHTML:       item.BodyHTML,
		BodyText:       item.BodyText,
		Author:         item.Author,
		WordCount:      item.WordCount,
		ReadingMinutes: item.ReadingMinutes,
	}
}
