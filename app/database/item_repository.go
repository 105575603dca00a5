package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ItemRepo struct {
	db *DB
}

var _ ItemRepository = (*ItemRepo)(nil)

func NewItemRepository(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

const itemColumns = `id, source_id, title, url, published_at, ingested_at,
	fingerprint, category, summary, status, image_url, body_html, body_text,
	author, word_count, reading_minutes, extraction_status, extraction_error`

// InsertItem inserts a new draft item. The UNIQUE index on fingerprint is
// the source of truth for dedup: concurrent workers racing on the same
// fingerprint resolve at the store, not in memory.
func (r *ItemRepo) InsertItem(item NewItem) (bool, error) {
	result, err := r.db.Exec(`
		INSERT INTO items (
			id, source_id, title, url, published_at, ingested_at,
			fingerprint, category, summary, status, image_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (fingerprint) DO NOTHING
	`, uuid.NewString(), item.SourceID, item.Title, item.URL, item.PublishedAt,
		time.Now().UTC(), item.Fingerprint, item.Category, item.Summary,
		ItemStatusDraft, item.ImageURL)
	if err != nil {
		return false, fmt.Errorf("failed to insert item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

func (r *ItemRepo) FindByFingerprint(fingerprint string) (*Item, error) {
	var item Item
	err := r.db.QueryRow(`
		SELECT `+itemColumns+`
		FROM items
		WHERE fingerprint = ?
	`, fingerprint).Scan(itemFields(&item)...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item by fingerprint: %w", err)
	}

	return &item, nil
}

func (r *ItemRepo) PublishDrafts() (int, error) {
	result, err := r.db.Exec(`
		UPDATE items
		SET status = ?
		WHERE status = ?
	`, ItemStatusPublished, ItemStatusDraft)
	if err != nil {
		return 0, fmt.Errorf("failed to publish drafts: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(affected), nil
}

// Prune deletes items outside the most-recently-ingested keep window.
// Ranking is by ingestion time descending with id as a deterministic
// tiebreak.
func (r *ItemRepo) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	result, err := r.db.Exec(`
		DELETE FROM items
		WHERE id NOT IN (
			SELECT id FROM items
			ORDER BY ingested_at DESC, id DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune items: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(affected), nil
}

func (r *ItemRepo) GetItem(id string) (*Item, error) {
	var item Item
	err := r.db.QueryRow(`
		SELECT `+itemColumns+`
		FROM items
		WHERE id = ?
	`, id).Scan(itemFields(&item)...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &item, nil
}

func (r *ItemRepo) GetPublishedItems(limit int) ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT `+itemColumns+`
		FROM items
		WHERE status = ?
		ORDER BY ingested_at DESC, id DESC
		LIMIT ?
	`, ItemStatusPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get published items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(itemFields(&item)...); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

func (r *ItemRepo) GetItemCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

func (r *ItemRepo) GetItemsForEnrichment(limit int) ([]ItemForEnrichment, error) {
	rows, err := r.db.Query(`
		SELECT id, url
		FROM items
		WHERE extraction_status = ?
		ORDER BY ingested_at DESC, id DESC
		LIMIT ?
	`, ExtractionStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for enrichment: %w", err)
	}
	defer rows.Close()

	var items []ItemForEnrichment
	for rows.Next() {
		var item ItemForEnrichment
		if err := rows.Scan(&item.ID, &item.URL); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// UpdateEnrichedContent fills the rich fields. The ingest-time image URL is
// kept when the page yields none.
func (r *ItemRepo) UpdateEnrichedContent(itemID string, enrichment Enrichment) error {
	_, err := r.db.Exec(`
		UPDATE items
		SET body_html = ?, body_text = ?, author = ?,
		    image_url = CASE WHEN ? != '' THEN ? ELSE image_url END,
		    word_count = ?, reading_minutes = ?,
		    extraction_status = ?, extraction_error = ''
		WHERE id = ?
	`, enrichment.BodyHTML, enrichment.BodyText, enrichment.Author,
		enrichment.ImageURL, enrichment.ImageURL,
		enrichment.WordCount, enrichment.ReadingMinutes,
		ExtractionStatusSuccess, itemID)
	if err != nil {
		return fmt.Errorf("failed to update enriched content: %w", err)
	}

	return nil
}

func (r *ItemRepo) UpdateEnrichmentStatus(itemID string, status string, errorMsg string) error {
	_, err := r.db.Exec(`
		UPDATE items
		SET extraction_status = ?, extraction_error = ?
		WHERE id = ?
	`, status, errorMsg, itemID)
	if err != nil {
		return fmt.Errorf("failed to update enrichment status: %w", err)
	}

	return nil
}

func itemFields(item *Item) []interface{} {
	return []interface{}{
		&item.ID, &item.SourceID, &item.Title, &item.URL, &item.PublishedAt,
		&item.IngestedAt, &item.Fingerprint, &item.Category, &item.Summary,
		&item.Status, &item.ImageURL, &item.BodyHTML, &item.BodyText,
		&item.Author, &item.WordCount, &item.ReadingMinutes,
		&item.ExtractionStatus, &item.ExtractionError,
	}
}
