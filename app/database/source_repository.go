package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SourceRepo struct {
	db *DB
}

var _ SourceRepository = (*SourceRepo)(nil)

func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

const sourceColumns = `id, name, url, category_hint, enabled, created_at`

func (r *SourceRepo) GetSources() ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT ` + sourceColumns + `
		FROM sources
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}
	defer rows.Close()

	return scanSources(rows)
}

func (r *SourceRepo) GetEnabledSources() ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT ` + sourceColumns + `
		FROM sources
		WHERE enabled = 1
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get enabled sources: %w", err)
	}
	defer rows.Close()

	return scanSources(rows)
}

func (r *SourceRepo) GetSource(id string) (*Source, error) {
	var source Source
	err := r.db.QueryRow(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE id = ?
	`, id).Scan(
		&source.ID, &source.Name, &source.URL, &source.CategoryHint,
		&source.Enabled, &source.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return &source, nil
}

func (r *SourceRepo) CreateSource(name, url, categoryHint string, enabled bool) (*Source, error) {
	source := Source{
		ID:           uuid.NewString(),
		Name:         name,
		URL:          url,
		CategoryHint: categoryHint,
		Enabled:      enabled,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := r.db.Exec(`
		INSERT INTO sources (id, name, url, category_hint, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, source.ID, source.Name, source.URL, source.CategoryHint, source.Enabled, source.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	return &source, nil
}

func (r *SourceRepo) UpdateSource(id string, update SourceUpdate) (*Source, error) {
	existing, err := r.GetSource(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.URL != nil {
		existing.URL = *update.URL
	}
	if update.CategoryHint != nil {
		existing.CategoryHint = *update.CategoryHint
	}
	if update.Enabled != nil {
		existing.Enabled = *update.Enabled
	}

	_, err = r.db.Exec(`
		UPDATE sources
		SET name = ?, url = ?, category_hint = ?, enabled = ?
		WHERE id = ?
	`, existing.Name, existing.URL, existing.CategoryHint, existing.Enabled, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update source: %w", err)
	}

	return existing, nil
}

// SeedSource inserts a source from the seed file unless its URL is already
// registered. Operator edits through the API are never overwritten.
func (r *SourceRepo) SeedSource(name, url, categoryHint string) (bool, error) {
	result, err := r.db.Exec(`
		INSERT INTO sources (id, name, url, category_hint, enabled, created_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT (url) DO NOTHING
	`, uuid.NewString(), name, url, categoryHint, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to seed source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

func (r *SourceRepo) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

func scanSources(rows *sql.Rows) ([]Source, error) {
	var sources []Source
	for rows.Next() {
		var source Source
		err := rows.Scan(
			&source.ID, &source.Name, &source.URL, &source.CategoryHint,
			&source.Enabled, &source.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}
