package tasks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability"

	"github.com/nexlern/briefing/app/database"
)

const (
	enrichBatchSize     = 25
	wordsPerMinute      = 220
	maxEnrichErrorChars = 500
)

// EnrichContentTask backfills rich fields (body, author, word count,
// reading time) for recently ingested items by fetching and extracting
// their pages. Per-item failures mark the item failed and never abort the
// batch.
type EnrichContentTask struct {
	Task
	itemRepo     database.ItemRepository
	httpClient   *http.Client
	userAgent    string
	fetchTimeout time.Duration
}

func NewEnrichContentTask(itemRepo database.ItemRepository, httpClient *http.Client,
	userAgent string, fetchTimeout time.Duration) *EnrichContentTask {
	return &EnrichContentTask{
		Task:         NewTask(TaskTypeEnrichContent, DefaultMaxRetries),
		itemRepo:     itemRepo,
		httpClient:   httpClient,
		userAgent:    userAgent,
		fetchTimeout: fetchTimeout,
	}
}

func (t *EnrichContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.itemRepo.GetItemsForEnrichment(enrichBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get items for enrichment: %w", err)
	}

	if len(items) == 0 {
		slog.Debug("No items need content enrichment")
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.enrichItem(ctx, item); err != nil {
			slog.Error("Failed to enrich item", "item_id", item.ID, "url", item.URL, "error", err)
			errorCount++

			msg := err.Error()
			if len(msg) > maxEnrichErrorChars {
				msg = msg[:maxEnrichErrorChars]
			}
			if updateErr := t.itemRepo.UpdateEnrichmentStatus(item.ID, database.ExtractionStatusFailed, msg); updateErr != nil {
				slog.Error("Failed to update enrichment status", "item_id", item.ID, "error", updateErr)
			}
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *EnrichContentTask) enrichItem(ctx context.Context, item database.ItemForEnrichment) error {
	if item.URL == "" {
		return fmt.Errorf("item has no URL")
	}

	data, err := t.fetchPage(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}

	pageURL, err := url.Parse(item.URL)
	if err != nil {
		return fmt.Errorf("failed to parse item URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	if article.Content == "" {
		return fmt.Errorf("no content extracted")
	}

	wordCount := len(strings.Fields(article.TextContent))

	err = t.itemRepo.UpdateEnrichedContent(item.ID, database.Enrichment{
		BodyHTML:       article.Content,
		BodyText:       article.TextContent,
		Author:         article.Byline,
		ImageURL:       article.Image,
		WordCount:      wordCount,
		ReadingMinutes: readingMinutes(wordCount),
	})
	if err != nil {
		return fmt.Errorf("failed to store enriched content: %w", err)
	}

	return nil
}

func (t *EnrichContentTask) fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func readingMinutes(wordCount int) int {
	if wordCount == 0 {
		return 0
	}

	minutes := (wordCount + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
